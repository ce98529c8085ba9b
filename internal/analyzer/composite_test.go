package analyzer

import (
	"math"
	"testing"
)

func TestComputeComposite_Reference(t *testing.T) {
	in := CompositeInput{
		DurationMs:            60000,
		TotalEvents:           10,
		NotificationCount:     1,
		AppSwitchCount:        2,
		TypingEventCount:      1,
		TypingDurationSeconds: 20,
	}
	got := ComputeComposite(in, DefaultOptions())

	sat := 1 - math.Exp(-1)
	if !approxEqual(got.NotificationLoad, sat) {
		t.Errorf("NotificationLoad = %v, want %v", got.NotificationLoad, sat)
	}
	if !approxEqual(got.TaskSwitchRate, sat) {
		t.Errorf("TaskSwitchRate = %v, want %v", got.TaskSwitchRate, sat)
	}
	// 60000/2 = 30000ms, capped at 10000ms.
	if got.TaskSwitchCostMs != 10000 {
		t.Errorf("TaskSwitchCostMs = %v, want 10000", got.TaskSwitchCostMs)
	}
	if !approxEqual(got.ActiveTimeRatio, 50000.0/60000.0) {
		t.Errorf("ActiveTimeRatio = %v, want 0.8333", got.ActiveTimeRatio)
	}
	if !approxEqual(got.DistractionScore, 0.65*sat) {
		t.Errorf("DistractionScore = %v, want %v", got.DistractionScore, 0.65*sat)
	}
	// (10 - 3 interruptions - 1 typing + 20/10) / 60
	if !approxEqual(got.InteractionIntensity, 8.0/60.0) {
		t.Errorf("InteractionIntensity = %v, want %v", got.InteractionIntensity, 8.0/60.0)
	}
}

func TestComputeComposite_ZeroDuration(t *testing.T) {
	got := ComputeComposite(CompositeInput{TotalEvents: 4, NotificationCount: 2, AppSwitchCount: 1}, DefaultOptions())
	if got.NotificationLoad != 0 || got.TaskSwitchRate != 0 || got.InteractionIntensity != 0 || got.ActiveTimeRatio != 0 {
		t.Errorf("expected zero rates for zero duration, got %+v", got)
	}
	if got.TaskSwitchCostMs != 0 {
		t.Errorf("TaskSwitchCostMs = %v, want 0", got.TaskSwitchCostMs)
	}
	if got.DistractionScore != 0 || got.FocusHint != 1 {
		t.Errorf("expected score 0 / hint 1, got %v / %v", got.DistractionScore, got.FocusHint)
	}
}

func TestComputeComposite_ScoreClampedAndComplementary(t *testing.T) {
	in := CompositeInput{
		DurationMs:        10000,
		TotalEvents:       200,
		NotificationCount: 100,
		AppSwitchCount:    100,
		Gaps:              GapAnalysis{FragmentedIdleRatio: 7},
		ScrollJitterRate:  1,
	}
	got := ComputeComposite(in, DefaultOptions())
	if got.DistractionScore != 1 {
		t.Errorf("DistractionScore = %v, want 1", got.DistractionScore)
	}
	if got.FocusHint != 0 {
		t.Errorf("FocusHint = %v, want 0", got.FocusHint)
	}
	if got.InteractionIntensity != 0 {
		t.Errorf("InteractionIntensity = %v, want 0 (interruptions only)", got.InteractionIntensity)
	}
}

func TestComputeComposite_ActiveTimeUsesIdleAndSwitchCost(t *testing.T) {
	in := CompositeInput{
		DurationMs:     100000,
		AppSwitchCount: 20, // 5000ms cost each
		Gaps:           GapAnalysis{IdleTimeRatio: 0.25},
	}
	got := ComputeComposite(in, DefaultOptions())
	want := (100000.0 - 25000 - 5000) / 100000
	if !approxEqual(got.ActiveTimeRatio, want) {
		t.Errorf("ActiveTimeRatio = %v, want %v", got.ActiveTimeRatio, want)
	}
}
