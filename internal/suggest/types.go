// Package suggest turns a behavioral report into ranked recommendations.
package suggest

import (
	"github.com/blackwell-systems/behaviorwatch/internal/analyzer"
	"github.com/blackwell-systems/behaviorwatch/internal/baseline"
)

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion represents an actionable recommendation.
type Suggestion struct {
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
}

// AnalysisContext provides all data needed by suggest rules.
type AnalysisContext struct {
	// Report is the engine output for the session under review.
	Report *analyzer.Report `json:"report"`

	// Assessment compares the report with previous sessions. It is nil when
	// no baseline is available.
	Assessment *baseline.Assessment `json:"assessment,omitempty"`

	// SessionMinutes is the length of the analyzed range.
	SessionMinutes float64 `json:"session_minutes"`

	// Normalization is the denominator the typing rates were computed with.
	Normalization analyzer.Normalization `json:"normalization"`
}

// Rule is a function that examines the analysis context and produces
// zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion
