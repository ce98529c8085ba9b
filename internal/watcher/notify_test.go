package watcher

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteAlert(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAlert(&buf, Alert{Level: "warning", Title: "Focus dropped", Message: "0.80 to 0.40"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "[warning] Focus dropped: 0.80 to 0.40\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNotifySendArgs_Urgency(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"critical", "critical"},
		{"warning", "normal"},
		{"info", "low"},
		{"", "normal"},
	}
	for _, tc := range tests {
		args := notifySendArgs(Alert{Level: tc.level, Title: "t", Message: "m"})
		if args[0] != "-u" || args[1] != tc.want {
			t.Errorf("level %q: got urgency %q, want %q", tc.level, args[1], tc.want)
		}
		if args[len(args)-2] != "behaviorwatch: t" || args[len(args)-1] != "m" {
			t.Errorf("level %q: unexpected title/body %v", tc.level, args)
		}
	}
}

func TestAppleScript_CriticalPlaysSound(t *testing.T) {
	if s := appleScript(Alert{Level: "info", Title: "a", Message: "b"}); strings.Contains(s, "sound") {
		t.Errorf("info alert should be silent: %s", s)
	}
	if s := appleScript(Alert{Level: "critical", Title: "a", Message: "b"}); !strings.Contains(s, "sound name") {
		t.Errorf("critical alert should play a sound: %s", s)
	}
}

func TestNotify_DoesNotPanic(t *testing.T) {
	// Depending on the environment this shows a notification or writes to
	// stderr; either way it must not panic.
	_ = Notify(Alert{Level: "info", Title: "Session analyzed", Message: "12min", Time: time.Now()})
}
