package suggest

import "sort"

// RankSuggestions sorts suggestions by ImpactScore in descending order.
// Ties keep rule order.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactScore > sorted[j].ImpactScore
	})
	return sorted
}

// ComputeImpact calculates an impact score for a suggestion.
// Formula: (sessionMinutes * severity * recoverable) / effort
//
// Parameters:
//   - sessionMinutes: length of the session the issue was observed in
//   - severity: how strongly the metric expresses the issue (0.0-1.0)
//   - recoverable: estimated fraction of attention recovered if acted on
//   - effort: relative effort to act on the suggestion
//
// Returns 0 if effort is zero to avoid division by zero.
func ComputeImpact(sessionMinutes, severity, recoverable, effort float64) float64 {
	if effort <= 0 || sessionMinutes <= 0 {
		return 0
	}
	return (sessionMinutes * severity * recoverable) / effort
}
