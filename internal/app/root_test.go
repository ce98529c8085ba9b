package app

import (
	"testing"
)

func TestCommands_Registered(t *testing.T) {
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{
		"record", "report", "recompute", "track", "history",
		"suggest", "baseline", "watch", "mcp",
	} {
		if !registered[name] {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestBaselineSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range baselineCmd.Commands() {
		names = append(names, cmd.Name())
	}
	if len(names) != 2 || names[0] != "reset" || names[1] != "show" {
		t.Errorf("baseline subcommands = %v, want [reset show]", names)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9, "  ")
	want := "one two\n  three\n  four"
	if got != want {
		t.Errorf("wrap = %q, want %q", got, want)
	}
	if got := wrap("", 10, ""); got != "" {
		t.Errorf("wrap(empty) = %q", got)
	}
}

func TestKnownMetric(t *testing.T) {
	if !knownMetric("focus_hint") || !knownMetric("deep_focus_minutes") {
		t.Error("expected report metrics to be known")
	}
	if knownMetric("tokens_per_session") {
		t.Error("unexpected metric accepted")
	}
}
