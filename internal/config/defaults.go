// Package config provides configuration loading and defaults for behaviorwatch.
package config

import "github.com/blackwell-systems/behaviorwatch/internal/analyzer"

// DefaultConfigDir is the default location for behaviorwatch configuration.
const DefaultConfigDir = "~/.config/behaviorwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "behaviorwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultInboxDir is where closed session logs are dropped for the watcher.
const DefaultInboxDir = "~/.local/share/behaviorwatch/inbox"

// DefaultEngine mirrors analyzer.DefaultOptions in config units.
var DefaultEngine = Engine{
	IdleThresholdMs:  analyzer.DefaultIdleThreshold.Milliseconds(),
	DeepFocusMinMs:   analyzer.DefaultDeepFocusMin.Milliseconds(),
	RangeToleranceMs: analyzer.DefaultRangeTolerance.Milliseconds(),
	SwitchCostCapMs:  analyzer.DefaultSwitchCostCap.Milliseconds(),
	Normalization:    string(analyzer.PerKeystroke),
}

// DefaultWeights are the distraction score coefficients.
var DefaultWeights = Weights{
	TaskSwitch:    analyzer.DefaultWeights.TaskSwitch,
	Notification:  analyzer.DefaultWeights.Notification,
	Fragmentation: analyzer.DefaultWeights.Fragmentation,
	ScrollJitter:  analyzer.DefaultWeights.ScrollJitter,
}

// DefaultBaseline holds the default rolling baseline settings.
var DefaultBaseline = Baseline{
	Window:     20,
	ZThreshold: 2.0,
}

// DefaultAlerts holds the default watcher alert thresholds.
var DefaultAlerts = Alerts{
	DistractionThreshold: 0.7,
	FocusDrop:            0.2,
	NotificationLoad:     0.8,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
