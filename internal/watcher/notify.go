package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// appName prefixes every desktop notification.
const appName = "behaviorwatch"

// Notify shows the alert as a desktop notification, falling back to a line on
// stderr when no notifier is available or it fails.
func Notify(alert Alert) error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = exec.Command("osascript", "-e", appleScript(alert)).Run()
	case "linux":
		var bin string
		if bin, err = exec.LookPath("notify-send"); err == nil {
			err = exec.Command(bin, notifySendArgs(alert)...).Run()
		}
	default:
		err = fmt.Errorf("no desktop notifier on %s", runtime.GOOS)
	}
	if err != nil {
		return WriteAlert(os.Stderr, alert)
	}
	return nil
}

func appleScript(alert Alert) string {
	script := fmt.Sprintf(`display notification %q with title %q subtitle %q`,
		alert.Message, appName, alert.Title)
	if alert.Level == "critical" {
		script += ` sound name "Basso"`
	}
	return script
}

// notifySendArgs maps alert levels onto notify-send urgencies.
func notifySendArgs(alert Alert) []string {
	urgency := "normal"
	switch alert.Level {
	case "critical":
		urgency = "critical"
	case "info":
		urgency = "low"
	}
	return []string{"-u", urgency, "-a", appName, appName + ": " + alert.Title, alert.Message}
}

// WriteAlert prints the alert as a single plain line.
func WriteAlert(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
