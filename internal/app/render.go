package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
	"github.com/blackwell-systems/behaviorwatch/internal/output"
	"github.com/blackwell-systems/behaviorwatch/internal/suggest"
)

const barWidth = 20

// sessionReport is a computed report with the range it covers.
type sessionReport struct {
	Path       string           `json:"path,omitempty"`
	SessionID  string           `json:"session_id"`
	RangeStart time.Time        `json:"range_start"`
	RangeEnd   time.Time        `json:"range_end"`
	EventCount int              `json:"event_count"`
	ReportID   int64            `json:"report_id,omitempty"`
	Report     *analyzer.Report `json:"report"`
}

func (sr sessionReport) minutes() float64 {
	return sr.RangeEnd.Sub(sr.RangeStart).Minutes()
}

// renderReport prints the headline metrics of one report.
func renderReport(sr sessionReport) {
	r := sr.Report
	b := r.Behavioral

	fmt.Println(output.Section("Session " + sr.SessionID))
	fmt.Println()
	fmt.Println(output.KeyValue("Range", fmt.Sprintf("%s → %s (%.1f min, %d events)",
		sr.RangeStart.Local().Format("2006-01-02 15:04:05"),
		sr.RangeEnd.Local().Format("15:04:05"),
		sr.minutes(), sr.EventCount)))
	fmt.Println()
	fmt.Println(output.KeyValue("Distraction", output.RatioBar(b.DistractionScore, barWidth, false)))
	fmt.Println(output.KeyValue("Focus hint", output.RatioBar(b.FocusHint, barWidth, true)))
	fmt.Println(output.KeyValue("Notification load", output.RatioBar(b.NotificationLoad, barWidth, false)))
	fmt.Println(output.KeyValue("Task switch rate", output.RatioBar(b.TaskSwitchRate, barWidth, false)))
	fmt.Println(output.KeyValue("Active time", output.RatioBar(b.ActiveTimeRatio, barWidth, true)))
	fmt.Println(output.KeyValue("Idle time", output.RatioBar(b.IdleTimeRatio, barWidth, false)))
	fmt.Println(output.KeyValue("Scroll jitter", output.RatioBar(b.ScrollJitterRate, barWidth, false)))
	fmt.Println(output.KeyValue("Burstiness", fmt.Sprintf("%.3f", b.Burstiness)))
	fmt.Println(output.KeyValue("Interaction intensity", fmt.Sprintf("%.3f events/s", b.InteractionIntensity)))
	fmt.Println(output.KeyValue("Switch cost", fmt.Sprintf("%.1fs", b.TaskSwitchCost/1000)))

	n := r.Notification
	fmt.Println()
	fmt.Println(output.KeyValue("Notifications", fmt.Sprintf("%d (%d ignored, clustering %.2f)",
		n.NotificationCount, n.NotificationIgnored, n.NotificationClusteringIndex)))
	fmt.Println(output.KeyValue("Calls", fmt.Sprintf("%d (%d ignored)", n.CallCount, n.CallIgnored)))

	ty := r.Typing
	if ty.TypingSessionCount > 0 {
		fmt.Println(output.KeyValue("Typing sessions", fmt.Sprintf("%d, %.1f keys/s, %.0f%% corrections",
			ty.TypingSessionCount, ty.AverageTypingSpeed, ty.CorrectionRate*100)))
	}

	fmt.Println()
	if len(b.DeepFocusBlocks) == 0 {
		fmt.Println(" " + output.StyleMuted.Render("No deep-focus blocks."))
		return
	}
	tbl := output.NewTable("Deep focus", "Start", "End", "Minutes")
	for i, blk := range b.DeepFocusBlocks {
		tbl.AddRow(
			fmt.Sprintf("#%d", i+1),
			blk.StartAt.Local().Format("15:04:05"),
			blk.EndAt.Local().Format("15:04:05"),
			fmt.Sprintf("%.1f", float64(blk.DurationMs)/60000),
		)
	}
	tbl.Print()
}

// renderAssessment prints baseline deviations, if any.
func renderAssessment(a *baseline.Assessment) {
	if a == nil {
		return
	}
	fmt.Println(output.Section("Baseline"))
	fmt.Println()
	if a.SessionsSeen < 2 {
		fmt.Printf(" Building baseline (%d session(s) so far).\n", a.SessionsSeen)
		return
	}
	devs := a.Deviations()
	if len(devs) == 0 {
		fmt.Printf(" Typical against the last %d sessions.\n", a.SessionsSeen)
		return
	}
	tbl := output.NewTable("Metric", "Value", "Mean", "z", "Deviation")
	for _, ma := range devs {
		label := string(ma.Deviation)
		if ma.Deviation == baseline.Elevated {
			label = output.StyleWarning.Render(label)
		}
		tbl.AddRow(string(ma.Metric), fmt.Sprintf("%.3f", ma.Value), fmt.Sprintf("%.3f", ma.Mean),
			fmt.Sprintf("%+.1f", ma.ZScore), label)
	}
	tbl.Print()
}

// renderSuggestions prints ranked suggestions.
func renderSuggestions(suggestions []suggest.Suggestion) {
	fmt.Println(output.Section("Suggestions"))
	fmt.Println()
	if len(suggestions) == 0 {
		fmt.Println(" " + output.StyleSuccess.Render("Nothing to suggest for this session."))
		return
	}
	for i, s := range suggestions {
		fmt.Printf(" %d. %s %s\n", i+1, priorityLabel(s.Priority), output.StyleBold.Render(s.Title))
		fmt.Printf("    %s\n", output.StyleMuted.Render(fmt.Sprintf("[%s] impact %.1f", s.Category, s.ImpactScore)))
		fmt.Printf("    %s\n\n", wrap(s.Description, 70, "    "))
	}
}

func priorityLabel(p int) string {
	switch p {
	case suggest.PriorityCritical:
		return output.StyleError.Render("[critical]")
	case suggest.PriorityHigh:
		return output.StyleError.Render("[high]")
	case suggest.PriorityMedium:
		return output.StyleWarning.Render("[medium]")
	default:
		return output.StyleMuted.Render("[low]")
	}
}

// wrap breaks text at word boundaries to at most width columns, indenting
// continuation lines.
func wrap(text string, width int, indent string) string {
	var b strings.Builder
	col := 0
	for i, word := range strings.Fields(text) {
		if i > 0 && col+1+len(word) > width {
			b.WriteString("\n" + indent)
			col = 0
		} else if i > 0 {
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	return b.String()
}
