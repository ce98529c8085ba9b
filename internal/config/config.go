package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
)

// Config is the top-level behaviorwatch configuration.
type Config struct {
	InboxDir string   `mapstructure:"inbox_dir"`
	DBPath   string   `mapstructure:"db_path"`
	Engine   Engine   `mapstructure:"engine"`
	Weights  Weights  `mapstructure:"weights"`
	Baseline Baseline `mapstructure:"baseline"`
	Alerts   Alerts   `mapstructure:"alerts"`
	Output   Output   `mapstructure:"output"`
}

// Engine holds the analyzer thresholds, in milliseconds.
type Engine struct {
	IdleThresholdMs  int64  `mapstructure:"idle_threshold_ms"`
	DeepFocusMinMs   int64  `mapstructure:"deep_focus_min_ms"`
	RangeToleranceMs int64  `mapstructure:"range_tolerance_ms"`
	SwitchCostCapMs  int64  `mapstructure:"switch_cost_cap_ms"`
	Normalization    string `mapstructure:"normalization"`
}

// Weights defines the distraction score coefficients. They must sum to 1.
type Weights struct {
	TaskSwitch    float64 `mapstructure:"task_switch"`
	Notification  float64 `mapstructure:"notification"`
	Fragmentation float64 `mapstructure:"fragmentation"`
	ScrollJitter  float64 `mapstructure:"scroll_jitter"`
}

// Baseline configures the rolling per-metric baselines.
type Baseline struct {
	Window     int     `mapstructure:"window"`
	ZThreshold float64 `mapstructure:"z_threshold"`
}

// Alerts defines the watcher's alert thresholds.
type Alerts struct {
	// DistractionThreshold raises a critical alert when exceeded.
	DistractionThreshold float64 `mapstructure:"distraction_threshold"`
	// FocusDrop is the focus hint decrease between sessions that warns.
	FocusDrop float64 `mapstructure:"focus_drop"`
	// NotificationLoad warns when a session's load crosses it.
	NotificationLoad float64 `mapstructure:"notification_load"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a validated Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("inbox_dir", DefaultInboxDir)
	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("engine.idle_threshold_ms", DefaultEngine.IdleThresholdMs)
	v.SetDefault("engine.deep_focus_min_ms", DefaultEngine.DeepFocusMinMs)
	v.SetDefault("engine.range_tolerance_ms", DefaultEngine.RangeToleranceMs)
	v.SetDefault("engine.switch_cost_cap_ms", DefaultEngine.SwitchCostCapMs)
	v.SetDefault("engine.normalization", DefaultEngine.Normalization)
	v.SetDefault("weights.task_switch", DefaultWeights.TaskSwitch)
	v.SetDefault("weights.notification", DefaultWeights.Notification)
	v.SetDefault("weights.fragmentation", DefaultWeights.Fragmentation)
	v.SetDefault("weights.scroll_jitter", DefaultWeights.ScrollJitter)
	v.SetDefault("baseline.window", DefaultBaseline.Window)
	v.SetDefault("baseline.z_threshold", DefaultBaseline.ZThreshold)
	v.SetDefault("alerts.distraction_threshold", DefaultAlerts.DistractionThreshold)
	v.SetDefault("alerts.focus_drop", DefaultAlerts.FocusDrop)
	v.SetDefault("alerts.notification_load", DefaultAlerts.NotificationLoad)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetEnvPrefix("BEHAVIORWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.InboxDir = expandPath(cfg.InboxDir)
	cfg.DBPath = expandPath(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.IdleThresholdMs <= 0 {
		return fmt.Errorf("engine.idle_threshold_ms must be positive, got %d", c.Engine.IdleThresholdMs)
	}
	if c.Engine.DeepFocusMinMs <= 0 {
		return fmt.Errorf("engine.deep_focus_min_ms must be positive, got %d", c.Engine.DeepFocusMinMs)
	}
	if c.Engine.RangeToleranceMs < 0 {
		return fmt.Errorf("engine.range_tolerance_ms must not be negative, got %d", c.Engine.RangeToleranceMs)
	}
	if c.Engine.SwitchCostCapMs <= 0 {
		return fmt.Errorf("engine.switch_cost_cap_ms must be positive, got %d", c.Engine.SwitchCostCapMs)
	}
	switch analyzer.Normalization(c.Engine.Normalization) {
	case analyzer.PerKeystroke, analyzer.PerTypingSession, analyzer.PerMinute:
	default:
		return fmt.Errorf("engine.normalization: unknown value %q", c.Engine.Normalization)
	}

	sum := c.Weights.TaskSwitch + c.Weights.Notification + c.Weights.Fragmentation + c.Weights.ScrollJitter
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %g", sum)
	}
	if c.Baseline.Window < 1 {
		return fmt.Errorf("baseline.window must be at least 1, got %d", c.Baseline.Window)
	}
	if c.Baseline.ZThreshold <= 0 {
		return fmt.Errorf("baseline.z_threshold must be positive, got %g", c.Baseline.ZThreshold)
	}
	return nil
}

// EngineOptions converts the engine settings into analyzer options.
func (c *Config) EngineOptions() analyzer.Options {
	opts := analyzer.DefaultOptions()
	opts.IdleThreshold = time.Duration(c.Engine.IdleThresholdMs) * time.Millisecond
	opts.DeepFocusMin = time.Duration(c.Engine.DeepFocusMinMs) * time.Millisecond
	opts.RangeTolerance = time.Duration(c.Engine.RangeToleranceMs) * time.Millisecond
	opts.SwitchCostCap = time.Duration(c.Engine.SwitchCostCapMs) * time.Millisecond
	opts.Normalization = analyzer.Normalization(c.Engine.Normalization)
	opts.Weights = analyzer.Weights{
		TaskSwitch:    c.Weights.TaskSwitch,
		Notification:  c.Weights.Notification,
		Fragmentation: c.Weights.Fragmentation,
		ScrollJitter:  c.Weights.ScrollJitter,
	}
	return opts
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}
