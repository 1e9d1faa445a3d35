package suggest

import (
	"regexp"
	"strings"

	"stride/internal/domain"
)

// Category buckets a task for template selection.
type Category string

const (
	CategoryHabit    Category = "habit"
	CategoryStudy    Category = "study"
	CategoryProduct  Category = "product"
	CategoryVendor   Category = "vendor"
	CategoryStrategy Category = "strategy"
	CategoryGeneral  Category = "general"
)

// categoryPatterns are evaluated in order; the first match wins and
// CategoryGeneral is the fallback. The match text is title + outcome +
// metric, lowercased.
var categoryPatterns = []struct {
	category Category
	re       *regexp.Regexp
}{
	{CategoryHabit, regexp.MustCompile(`\b(habit|daily|every day|weekly|routine|exercise|workout|run|gym|meditat\w*|sleep|journal\w*|streak)\b`)},
	{CategoryStudy, regexp.MustCompile(`\b(learn\w*|study\w*|course|read\w*|book|research\w*|tutorial|practice|certif\w*|exam)\b`)},
	{CategoryProduct, regexp.MustCompile(`\b(launch\w*|ship\w*|build\w*|release\w*|feature|product|app|mvp|prototype|user\w*|beta)\b`)},
	{CategoryVendor, regexp.MustCompile(`\b(vendor|supplier|contract\w*|negotiat\w*|quote\w*|procure\w*|purchas\w*|outsourc\w*|agency|rfp)\b`)},
	{CategoryStrategy, regexp.MustCompile(`\b(strategy|strategic|roadmap|vision|okr\w*|quarter\w*|priorit\w*|align\w*|plan\w*|decide|decision)\b`)},
}

// Classify assigns a task to one of the six categories from its text.
func Classify(t domain.Task) Category {
	text := strings.ToLower(strings.Join([]string{t.Title, t.Outcome, t.Metric}, " "))
	for _, p := range categoryPatterns {
		if p.re.MatchString(text) {
			return p.category
		}
	}
	return CategoryGeneral
}

// actionPrefixRe matches the "action:" title prefix, case-insensitive.
var actionPrefixRe = regexp.MustCompile(`(?i)^\s*action:\s*`)

// HasActionPrefix reports whether the title marks the task as an atomic
// action.
func HasActionPrefix(title string) bool {
	return actionPrefixRe.MatchString(title)
}

// StripActionPrefix removes the "action:" prefix for display and matching.
func StripActionPrefix(title string) string {
	return strings.TrimSpace(actionPrefixRe.ReplaceAllString(title, ""))
}

// ambiguousVerbRe matches title verbs that sound like progress but do not
// state a measurable target.
var ambiguousVerbRe = regexp.MustCompile(`\b(improve|optimize|prepare|fix|enhance|streamline|revamp|boost|refine|address)\b`)

// AmbiguousVerb returns the first ambiguous verb found in the title.
func AmbiguousVerb(title string) (string, bool) {
	v := ambiguousVerbRe.FindString(strings.ToLower(title))
	return v, v != ""
}
