package analyzers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// nonDescriptivePatterns match low-information test names. First
// match wins.
var nonDescriptivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^test_?\d+$`),
	regexp.MustCompile(`^test_?[a-z]$`),
	regexp.MustCompile(`(?i)^test_?it$`),
	regexp.MustCompile(`(?i)^test_?this$`),
	regexp.MustCompile(`(?i)^test_?foo$`),
	regexp.MustCompile(`(?i)^test_?bar$`),
	regexp.MustCompile(`(?i)^test_?example$`),
	regexp.MustCompile(`(?i)^test_?test$`),
	regexp.MustCompile(`(?i)^test_?something$`),
}

var snakeCasePattern = regexp.MustCompile(`^test_[a-z][a-z0-9_]*$`)

// clearAbbreviations are short tokens that carry enough meaning to
// pass the abbreviation check.
var clearAbbreviations = map[string]bool{
	"test": true, "id": true, "ok": true, "db": true, "api": true,
	"url": true, "io": true, "ui": true, "ip": true, "os": true,
}

// clearTwoLetterWords are common English two-letter words allowed
// in names.
var clearTwoLetterWords = map[string]bool{
	"is": true, "in": true, "on": true, "to": true, "or": true,
	"an": true, "as": true, "at": true, "no": true, "if": true,
	"do": true, "my": true, "up": true,
}

// Naming checks test identifiers and documentation. All five checks
// run independently; none suppresses another.
type Naming struct {
	minLength        int
	requireDocstring bool
}

// NewNaming builds the analyzer from its config block.
func NewNaming(cfg config.Config) *Naming {
	ac := cfg.Analyzer("naming")
	return &Naming{
		minLength:        ac.IntOption("min_length", 10),
		requireDocstring: ac.BoolOption("require_docstring", false),
	}
}

// Name implements review.Analyzer.
func (a *Naming) Name() string { return "naming" }

// Analyze implements review.Analyzer.
func (a *Naming) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())
	name := test.Name

	for _, pattern := range nonDescriptivePatterns {
		if pattern.MatchString(name) {
			result.AddIssue(review.Issue{
				Rule:       "naming.non_descriptive",
				Message:    fmt.Sprintf("Non-descriptive test name: '%s'", name),
				Severity:   review.Warning,
				FilePath:   test.FilePath,
				Line:       test.Line,
				TestName:   name,
				Suggestion: "Use a descriptive name that explains what the test verifies",
			})
			break
		}
	}

	stripped := name
	if strings.HasPrefix(name, "test_") {
		stripped = name[5:]
	} else if strings.HasPrefix(name, "test") {
		stripped = name[4:]
	}
	if len(stripped) < a.minLength {
		result.AddIssue(review.Issue{
			Rule: "naming.too_short",
			Message: fmt.Sprintf("Test name too short (%d chars, minimum %d)",
				len(stripped), a.minLength),
			Severity:   review.Info,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   name,
			Suggestion: "Use a more descriptive name that explains the test purpose",
		})
	}

	if a.requireDocstring && pyast.Docstring(test.Node) == "" {
		result.AddIssue(review.Issue{
			Rule:       "naming.missing_docstring",
			Message:    "Test is missing a docstring",
			Severity:   review.Info,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   name,
			Suggestion: "Add a docstring explaining what the test verifies",
		})
	}

	if !snakeCasePattern.MatchString(name) {
		result.AddIssue(review.Issue{
			Rule:       "naming.not_snake_case",
			Message:    fmt.Sprintf("Test name '%s' is not in snake_case", name),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   name,
			Suggestion: "Use snake_case for test names (e.g., test_user_can_login)",
		})
	}

	if unclear := findUnclearAbbreviations(name); len(unclear) > 0 {
		result.AddIssue(review.Issue{
			Rule:       "naming.unclear_abbreviation",
			Message:    "Unclear abbreviations: " + strings.Join(unclear, ", "),
			Severity:   review.Info,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   name,
			Suggestion: "Use full words instead of abbreviations for clarity",
		})
	}

	return result
}

// findUnclearAbbreviations returns the one- and two-letter tokens
// of the name that do not belong to the allow-lists.
func findUnclearAbbreviations(name string) []string {
	var unclear []string
	for _, part := range strings.Split(strings.ToLower(name), "_") {
		if clearAbbreviations[part] {
			continue
		}
		unclearSingle := len(part) == 1 && part != "a" && part != "i"
		unclearDouble := len(part) == 2 && !clearTwoLetterWords[part] && !isDigits(part)
		if unclearSingle || unclearDouble {
			unclear = append(unclear, part)
		}
	}
	return unclear
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
