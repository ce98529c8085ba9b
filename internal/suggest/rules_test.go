package suggest

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

func contextWith(minutes float64, mutate func(r *analyzer.Report)) *AnalysisContext {
	r := &analyzer.Report{}
	r.Behavioral.DeepFocusBlocks = []analyzer.FocusBlock{}
	if mutate != nil {
		mutate(r)
	}
	return &AnalysisContext{Report: r, SessionMinutes: minutes}
}

func TestNotificationOverload(t *testing.T) {
	low := contextWith(30, func(r *analyzer.Report) { r.Behavioral.NotificationLoad = 0.59 })
	if got := NotificationOverload(low); len(got) != 0 {
		t.Errorf("expected no suggestion below threshold, got %d", len(got))
	}

	high := contextWith(30, func(r *analyzer.Report) {
		r.Behavioral.NotificationLoad = 0.8
		r.Notification.NotificationCount = 40
	})
	got := NotificationOverload(high)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Priority != PriorityHigh || got[0].Category != "notifications" {
		t.Errorf("unexpected suggestion: %+v", got[0])
	}
	if !strings.Contains(got[0].Description, "40 notifications") {
		t.Errorf("description should mention the count: %q", got[0].Description)
	}
	if got[0].ImpactScore <= 0 {
		t.Errorf("ImpactScore = %v, want > 0", got[0].ImpactScore)
	}
}

func TestIgnoredNotifications(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		ignored int
		rate    float64
		want    int
	}{
		{"too few notifications", 4, 4, 1.0, 0},
		{"mostly read", 10, 3, 0.3, 0},
		{"mostly ignored", 10, 7, 0.7, 1},
		{"exactly at threshold", 6, 3, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := contextWith(20, func(r *analyzer.Report) {
				r.Notification.NotificationCount = tt.count
				r.Notification.NotificationIgnored = tt.ignored
				r.Notification.NotificationIgnoreRate = tt.rate
			})
			if got := IgnoredNotifications(ctx); len(got) != tt.want {
				t.Errorf("got %d suggestions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestClusteredNotifications(t *testing.T) {
	irregular := contextWith(20, func(r *analyzer.Report) {
		r.Notification.NotificationCount = 5
		r.Notification.NotificationClusteringIndex = 0.4
	})
	if got := ClusteredNotifications(irregular); len(got) != 0 {
		t.Errorf("expected nothing for irregular arrivals, got %d", len(got))
	}

	regular := contextWith(20, func(r *analyzer.Report) {
		r.Notification.NotificationCount = 5
		r.Notification.NotificationClusteringIndex = 0.95
	})
	got := ClusteredNotifications(regular)
	if len(got) != 1 || got[0].Priority != PriorityLow {
		t.Fatalf("expected one low-priority suggestion, got %+v", got)
	}
	if !strings.Contains(got[0].Description, "4 separate interruptions") {
		t.Errorf("unexpected description: %q", got[0].Description)
	}
}

func TestFrequentTaskSwitching(t *testing.T) {
	ctx := contextWith(30, func(r *analyzer.Report) {
		r.Behavioral.TaskSwitchRate = 0.65
		r.Behavioral.TaskSwitchCost = 4000
	})
	got := FrequentTaskSwitching(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Category != "focus" {
		t.Errorf("Category = %q, want focus", got[0].Category)
	}
	if !strings.Contains(got[0].Description, "4.0s") {
		t.Errorf("description should mention switch cost in seconds: %q", got[0].Description)
	}

	calm := contextWith(30, func(r *analyzer.Report) { r.Behavioral.TaskSwitchRate = 0.2 })
	if got := FrequentTaskSwitching(calm); len(got) != 0 {
		t.Errorf("expected nothing for low switch rate, got %d", len(got))
	}
}

func TestFragmentedIdle(t *testing.T) {
	tests := []struct {
		name string
		frag float64
		idle float64
		want int
	}{
		{"steady", 0.001, 0.1, 0},
		{"many short pauses", 0.02, 0.1, 1},
		{"mostly idle", 0.001, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := contextWith(30, func(r *analyzer.Report) {
				r.Behavioral.FragmentedIdleRatio = tt.frag
				r.Behavioral.IdleTimeRatio = tt.idle
			})
			got := FragmentedIdle(ctx)
			if len(got) != tt.want {
				t.Fatalf("got %d suggestions, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0].ImpactScore <= 0 {
				t.Errorf("ImpactScore = %v, want > 0", got[0].ImpactScore)
			}
		})
	}
}

func TestScrollJitter(t *testing.T) {
	ctx := contextWith(15, func(r *analyzer.Report) { r.Behavioral.ScrollJitterRate = 0.75 })
	got := ScrollJitter(ctx)
	if len(got) != 1 || got[0].Category != "navigation" {
		t.Fatalf("expected one navigation suggestion, got %+v", got)
	}
	if !strings.Contains(got[0].Description, "75%") {
		t.Errorf("unexpected description: %q", got[0].Description)
	}
}

func TestNoDeepFocus(t *testing.T) {
	short := contextWith(5, nil)
	if got := NoDeepFocus(short); len(got) != 0 {
		t.Errorf("expected nothing for a short session, got %d", len(got))
	}

	focused := contextWith(30, func(r *analyzer.Report) {
		r.Behavioral.DeepFocusBlocks = []analyzer.FocusBlock{{DurationMs: 300000}}
	})
	if got := NoDeepFocus(focused); len(got) != 0 {
		t.Errorf("expected nothing when a focus block exists, got %d", len(got))
	}

	unfocused := contextWith(30, func(r *analyzer.Report) { r.Behavioral.DistractionScore = 0.5 })
	got := NoDeepFocus(unfocused)
	if len(got) != 1 || got[0].Priority != PriorityHigh {
		t.Fatalf("expected one high-priority suggestion, got %+v", got)
	}
}

func TestTypingRules_RespectNormalization(t *testing.T) {
	mutate := func(r *analyzer.Report) {
		r.Typing.TypingSessionCount = 3
		r.Typing.ActiveTypingRatio = 0.5
		r.Typing.CorrectionRate = 0.2
		r.Typing.ClipboardActivityRate = 0.15
	}

	ctx := contextWith(40, mutate)
	if got := HighCorrectionRate(ctx); len(got) != 1 {
		t.Errorf("HighCorrectionRate: got %d, want 1", len(got))
	}
	if got := ClipboardHeavy(ctx); len(got) != 1 {
		t.Errorf("ClipboardHeavy: got %d, want 1", len(got))
	}

	ctx.Normalization = analyzer.PerMinute
	if got := HighCorrectionRate(ctx); len(got) != 0 {
		t.Errorf("HighCorrectionRate per minute: got %d, want 0", len(got))
	}
	if got := ClipboardHeavy(ctx); len(got) != 0 {
		t.Errorf("ClipboardHeavy per minute: got %d, want 0", len(got))
	}

	noTyping := contextWith(40, func(r *analyzer.Report) { r.Typing.CorrectionRate = 0.5 })
	if got := HighCorrectionRate(noTyping); len(got) != 0 {
		t.Errorf("expected nothing without typing sessions, got %d", len(got))
	}
}

func TestBaselineRegression(t *testing.T) {
	ctx := contextWith(30, nil)
	if got := BaselineRegression(ctx); got != nil {
		t.Errorf("expected nil without assessment, got %v", got)
	}

	ctx.Assessment = &baseline.Assessment{
		SessionsSeen: 10,
		Metrics: []baseline.MetricAssessment{
			{Metric: baseline.DistractionScore, Value: 0.8, Mean: 0.3, ZScore: 3, Samples: 10, Deviation: baseline.Elevated},
			{Metric: baseline.FocusHint, Value: 0.2, Mean: 0.7, ZScore: -3, Samples: 10, Deviation: baseline.Reduced},
			// Fewer app switches than usual is an improvement.
			{Metric: baseline.TaskSwitchRate, Value: 0.1, Mean: 0.5, ZScore: -2.5, Samples: 10, Deviation: baseline.Reduced},
			{Metric: baseline.NotificationLoad, Value: 0.9, Mean: 0.4, ZScore: 2.2, Samples: 10, Deviation: baseline.Elevated},
			{Metric: baseline.TypingSpeed, Value: 9, Mean: 4, ZScore: 2.5, Samples: 10, Deviation: baseline.Elevated},
			{Metric: baseline.Burstiness, Value: 0.5, Mean: 0.5, Samples: 10, Deviation: baseline.Typical},
		},
	}
	got := BaselineRegression(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 regressions, got %d: %+v", len(got), got)
	}
	if !strings.HasPrefix(got[0].Title, string(baseline.DistractionScore)) {
		t.Errorf("first regression = %q, want distraction score", got[0].Title)
	}
	if !strings.HasPrefix(got[1].Title, string(baseline.NotificationLoad)) {
		t.Errorf("second regression = %q, want notification load", got[1].Title)
	}
	for _, s := range got {
		if s.Category != "baseline" || s.ImpactScore <= 0 {
			t.Errorf("unexpected suggestion: %+v", s)
		}
	}
}
