// Package analyzer is the behavioral metrics engine: a pure transformation
// from a session's event log into attention, fragmentation, focus, and typing
// cadence indices.
package analyzer

import "time"

// Report is the result of analyzing one session or sub-range. Its JSON shape
// is shared with every other implementation of the engine.
type Report struct {
	Behavioral   BehavioralMetrics   `json:"behavioral_metrics"`
	Typing       TypingSummary       `json:"typing_session_summary"`
	Notification NotificationSummary `json:"notification_summary"`
}

// BehavioralMetrics holds the composite attention and engagement indices.
type BehavioralMetrics struct {
	// InteractionIntensity is non-interruption, non-typing events plus a tenth
	// of typing seconds, per second of session.
	InteractionIntensity float64 `json:"interaction_intensity"`

	// TaskSwitchRate is the saturating app-switch rate in [0,1].
	TaskSwitchRate float64 `json:"task_switch_rate"`

	// TaskSwitchCost is the estimated milliseconds lost per app switch, capped.
	TaskSwitchCost float64 `json:"task_switch_cost"`

	// IdleTimeRatio is the fraction of the session spent past the idle threshold.
	IdleTimeRatio float64 `json:"idle_time_ratio"`

	// ActiveTimeRatio is the session fraction left after idle time and switch cost.
	ActiveTimeRatio float64 `json:"active_time_ratio"`

	// NotificationLoad is the saturating notification rate in [0,1].
	NotificationLoad float64 `json:"notification_load"`

	// Burstiness is the Barabási index of inter-event gaps in [0,1].
	Burstiness float64 `json:"burstiness"`

	// DistractionScore is the weighted composite of switching, notifications,
	// idle fragmentation, and scroll jitter.
	DistractionScore float64 `json:"behavioral_distraction_score"`

	// FocusHint is 1 - DistractionScore.
	FocusHint float64 `json:"focus_hint"`

	// FragmentedIdleRatio is idle breaks per second of session. Not capped at 1.
	FragmentedIdleRatio float64 `json:"fragmented_idle_ratio"`

	// ScrollJitterRate is the fraction of adjacent scrolls that reverse direction.
	ScrollJitterRate float64 `json:"scroll_jitter_rate"`

	// DeepFocusBlocks lists sustained uninterrupted engagement intervals.
	DeepFocusBlocks []FocusBlock `json:"deep_focus_blocks"`
}

// FocusBlock is one deep-focus interval.
type FocusBlock struct {
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	DurationMs int64     `json:"duration_ms"`
}

// NotificationSummary describes notification and call interruptions.
type NotificationSummary struct {
	NotificationCount           int     `json:"notification_count"`
	NotificationIgnored         int     `json:"notification_ignored"`
	NotificationIgnoreRate      float64 `json:"notification_ignore_rate"`
	NotificationClusteringIndex float64 `json:"notification_clustering_index"`
	CallCount                   int     `json:"call_count"`
	CallIgnored                 int     `json:"call_ignored"`
}

// TypingSummary rolls up the per-typing-session metrics of a behavioral session.
type TypingSummary struct {
	TypingSessionCount int `json:"typing_session_count"`

	// Means across typing sessions.
	AverageKeystrokesPerSession  float64 `json:"average_keystrokes_per_session"`
	AverageTypingSessionDuration float64 `json:"average_typing_session_duration"`
	AverageTypingSpeed           float64 `json:"average_typing_speed"`
	AverageTypingGap             float64 `json:"average_typing_gap"`
	AverageInterTapInterval      float64 `json:"average_inter_tap_interval"`
	TypingCadenceStability       float64 `json:"typing_cadence_stability"`
	BurstinessOfTyping           float64 `json:"burstiness_of_typing"`
	TypingFragmentation          float64 `json:"typing_fragmentation"`

	// TotalTypingDuration is the summed typing time in seconds.
	TotalTypingDuration float64 `json:"total_typing_duration"`

	// ActiveTypingRatio is typing time as a fraction of the session.
	ActiveTypingRatio float64 `json:"active_typing_ratio"`

	// TypingContribution is the share of all events that are typing sessions.
	TypingContribution float64 `json:"typing_contribution_to_interaction_intensity"`

	DeepTypingBlocks      int     `json:"deep_typing_blocks"`
	CorrectionRate        float64 `json:"correction_rate"`
	ClipboardActivityRate float64 `json:"clipboard_activity_rate"`

	// TypingMetrics passes each typing session through unchanged.
	TypingMetrics []TypingMetric `json:"typing_metrics"`
}

// TypingMetric is one typing session as reported by the upstream collector.
type TypingMetric struct {
	TapCount               int       `json:"tap_count"`
	TypingSpeed            float64   `json:"typing_speed"`
	DurationSeconds        float64   `json:"duration_seconds"`
	MeanInterTapIntervalMs float64   `json:"mean_inter_tap_interval_ms"`
	CadenceStability       float64   `json:"cadence_stability"`
	GapCount               int       `json:"gap_count"`
	GapRatio               float64   `json:"gap_ratio"`
	Burstiness             float64   `json:"burstiness"`
	DeepTyping             bool      `json:"deep_typing"`
	BackspaceCount         int       `json:"backspace_count"`
	CopyCount              int       `json:"copy_count"`
	PasteCount             int       `json:"paste_count"`
	CutCount               int       `json:"cut_count"`
	StartAt                time.Time `json:"start_at"`
	EndAt                  time.Time `json:"end_at"`
}

// GapAnalysis is the output of the gap/idle analyzer.
type GapAnalysis struct {
	IdleTimeMs          float64 `json:"idle_time_ms"`
	IdleTimeRatio       float64 `json:"idle_time_ratio"`
	IdleGapCount        int     `json:"idle_gap_count"`
	FragmentedIdleRatio float64 `json:"fragmented_idle_ratio"`
	Burstiness          float64 `json:"burstiness"`
}

// ScrollAnalysis is the output of the scroll-jitter analyzer.
type ScrollAnalysis struct {
	ScrollCount        int     `json:"scroll_count"`
	DirectionReversals int     `json:"direction_reversals"`
	JitterRate         float64 `json:"scroll_jitter_rate"`
}

// CompositeInput gathers everything the composite score calculator needs.
type CompositeInput struct {
	DurationMs            int64
	TotalEvents           int
	NotificationCount     int
	CallCount             int
	AppSwitchCount        int
	TypingEventCount      int
	TypingDurationSeconds float64
	Gaps                  GapAnalysis
	ScrollJitterRate      float64
}

// CompositeScores is the output of the composite score calculator.
type CompositeScores struct {
	NotificationLoad     float64 `json:"notification_load"`
	TaskSwitchRate       float64 `json:"task_switch_rate"`
	TaskSwitchCostMs     float64 `json:"task_switch_cost_ms"`
	ActiveTimeRatio      float64 `json:"active_time_ratio"`
	DistractionScore     float64 `json:"behavioral_distraction_score"`
	FocusHint            float64 `json:"focus_hint"`
	InteractionIntensity float64 `json:"interaction_intensity"`
}
