// Package score turns analyzer results into a weighted 0-100
// quality score with a letter grade.
package score

import (
	"encoding/json"
	"math"

	"github.com/unbound-force/pyreview/internal/review"
)

// categoryWeights must sum to 1.0.
var categoryWeights = []struct {
	name   string
	weight float64
}{
	{"assertions", 0.30},
	{"clarity", 0.25},
	{"isolation", 0.20},
	{"simplicity", 0.15},
	{"performance", 0.10},
}

// analyzerCategories maps each analyzer or observer name to the
// scoring category its issues count against.
var analyzerCategories = map[string]string{
	"assertions":        "assertions",
	"naming":            "clarity",
	"smells":            "clarity",
	"isolation":         "isolation",
	"isolation_runtime": "isolation",
	"complexity":        "simplicity",
	"patterns":          "simplicity",
	"performance":       "performance",
}

// severityPenalties are per-issue deductions, normalized across the
// test count before subtracting from a category.
var severityPenalties = map[review.Severity]float64{
	review.Error:   15.0,
	review.Warning: 5.0,
	review.Info:    1.0,
}

// criticalPenalties are flat deductions from the total score, once
// per matching issue, un-normalized.
var criticalPenalties = map[string]float64{
	"assertions.missing": 20.0,
	"assertions.trivial": 10.0,
}

// CategoryScore is the score of one weighted category.
type CategoryScore struct {
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	RawScore      float64 `json:"raw_score"`
	WeightedScore float64 `json:"weighted_score"`
	IssueCount    int     `json:"issue_count"`
}

// Penalty is one flat deduction applied to the total score.
type Penalty struct {
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
}

// Breakdown is the complete scoring output.
type Breakdown struct {
	TotalScore   float64         `json:"total_score"`
	Grade        string          `json:"grade"`
	TotalTests   int             `json:"total_tests"`
	TotalIssues  int             `json:"total_issues"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	InfoCount    int             `json:"info_count"`
	Categories   []CategoryScore `json:"categories"`
	Penalties    []Penalty       `json:"penalties"`
}

// MarshalJSON keeps the empty-slice shape stable so consumers never
// see null for categories or penalties.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	type alias Breakdown
	a := alias(b)
	if a.Categories == nil {
		a.Categories = []CategoryScore{}
	}
	if a.Penalties == nil {
		a.Penalties = []Penalty{}
	}
	return json.Marshal(a)
}

// Engine computes quality scores from analyzer results.
type Engine struct{}

// NewEngine returns a scoring engine.
func NewEngine() *Engine { return &Engine{} }

// Calculate produces the full breakdown for a run. A run with zero
// tests scores a clean 100/A: nothing was measured, nothing failed.
func (e *Engine) Calculate(results []review.Result, totalTests int) Breakdown {
	breakdown := Breakdown{
		TotalScore: 100.0,
		Grade:      "A",
		TotalTests: totalTests,
	}
	if totalTests == 0 {
		return breakdown
	}

	for _, result := range results {
		for _, issue := range result.Issues {
			breakdown.TotalIssues++
			switch issue.Severity {
			case review.Error:
				breakdown.ErrorCount++
			case review.Warning:
				breakdown.WarningCount++
			default:
				breakdown.InfoCount++
			}
		}
	}

	byCategory := groupByCategory(results)
	for _, cw := range categoryWeights {
		breakdown.Categories = append(breakdown.Categories,
			categoryScore(cw.name, cw.weight, byCategory[cw.name], totalTests))
	}

	for _, result := range results {
		for _, issue := range result.Issues {
			if amount, ok := criticalPenalties[issue.Rule]; ok {
				breakdown.Penalties = append(breakdown.Penalties, Penalty{
					Reason: issue.Rule,
					Amount: amount,
				})
			}
		}
	}

	weightedSum := 0.0
	for _, c := range breakdown.Categories {
		weightedSum += c.WeightedScore
	}
	totalPenalty := 0.0
	for _, p := range breakdown.Penalties {
		totalPenalty += p.Amount
	}

	breakdown.TotalScore = clamp(weightedSum - totalPenalty)
	breakdown.Grade = Grade(breakdown.TotalScore)
	return breakdown
}

// Simple returns just the numeric score.
func (e *Engine) Simple(results []review.Result, totalTests int) float64 {
	return e.Calculate(results, totalTests).TotalScore
}

func groupByCategory(results []review.Result) map[string][]review.Issue {
	grouped := map[string][]review.Issue{}
	for _, result := range results {
		category, ok := analyzerCategories[result.AnalyzerName]
		if !ok {
			continue
		}
		grouped[category] = append(grouped[category], result.Issues...)
	}
	return grouped
}

func categoryScore(name string, weight float64, issues []review.Issue, totalTests int) CategoryScore {
	c := CategoryScore{
		Name:       name,
		Weight:     weight,
		RawScore:   100.0,
		IssueCount: len(issues),
	}
	if len(issues) > 0 {
		totalPenalty := 0.0
		for _, issue := range issues {
			totalPenalty += severityPenalties[issue.Severity]
		}
		c.RawScore = math.Max(0.0, 100.0-totalPenalty/float64(totalTests))
	}
	c.WeightedScore = c.RawScore * weight
	return c
}

func clamp(score float64) float64 {
	return math.Max(0.0, math.Min(100.0, score))
}

// Grade converts a numeric score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
