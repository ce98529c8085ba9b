package output

import (
	"fmt"
	"strings"
)

// RatioBar renders a bar for a value in [0, 1].
// Example: "████████░░ 0.80"
// When higherIsBetter is false the color thresholds are inverted.
func RatioBar(value float64, width int, higherIsBetter bool) string {
	if width <= 0 {
		width = 20
	}
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	goodness := value
	if !higherIsBetter {
		goodness = 1 - value
	}
	var style func(string) string
	switch {
	case goodness >= 0.7:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case goodness >= 0.4:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.2f", value)))
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := isPositive == higherIsBetter

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%s", formatDelta(delta))
	} else {
		arrow = fmt.Sprintf("▼ %s", formatDelta(delta))
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// formatDelta keeps small ratio changes visible while counts stay short.
func formatDelta(d float64) string {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	if abs >= 10 {
		return fmt.Sprintf("%.1f", d)
	}
	return fmt.Sprintf("%.3f", d)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders a label/value line.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), value)
}
