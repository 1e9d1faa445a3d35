package suggest

import (
	"strings"

	"stride/internal/domain"
)

// eligibility gates a template on the task's clarity completeness.
type eligibility int

const (
	eligibleAny      eligibility = iota
	eligibleMissing              // only while outcome/metric/horizon are not all filled
	eligibleComplete             // only once all three are filled
)

// clarityField names the clarity field a template would fill.
type clarityField int

const (
	fieldNone clarityField = iota
	fieldOutcome
	fieldMetric
	fieldHorizon
)

// template is one candidate suggestion. {title} in the title or rationale
// is replaced with the task title (action prefix stripped).
type template struct {
	when      eligibility
	fills     clarityField
	kind      string
	title     string
	rationale string
	outcome   string
	metric    string
	horizon   string
}

// banks holds the per-category template banks. Bank order is the tie-break
// order everywhere a "first eligible" rule applies.
var banks = map[Category][]template{
	CategoryHabit: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "Describe what this habit looks like once it sticks",
			rationale: "A habit without a target state fades; write the end state down.",
			outcome:   "The habit happens without a reminder"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Count repetitions per week",
			rationale: "Habits respond to streaks; a weekly count makes slippage visible.",
			metric:    "3 times per week"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Give the habit a 30-day trial window",
			rationale: "A bounded trial beats an open-ended commitment.",
			horizon:   "30 days"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into a trigger and a two-minute version",
			rationale: "Tiny versions survive bad days; the trigger makes it automatic."},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "Attach the habit to an existing routine",
			rationale: "Anchoring to something you already do removes the scheduling decision."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Schedule a weekly habit review",
			rationale: "The definition is complete; a review keeps the streak honest."},
	},
	CategoryStudy: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "Name what you will be able to do afterwards",
			rationale: "Study goals stall without a capability to aim at.",
			outcome:   "I can explain the topic to someone else"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Track study sessions per week",
			rationale: "Sessions are controllable; comprehension follows volume.",
			metric:    "3 sessions per week"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Set a date for the first milestone",
			rationale: "A date turns a topic into a project.",
			horizon:   "2 weeks"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into chapters or exercises",
			rationale: "A syllabus you wrote yourself is easier to restart after a gap."},
		{when: eligibleMissing, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "List the resources you will study from",
			rationale: "Choosing material up front avoids restarting the search every session."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Teach what you learned to someone",
			rationale: "Explaining exposes the gaps the definition cannot."},
	},
	CategoryProduct: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "Define what shipped means for {title}",
			rationale: "Ship dates slip when shipped is undefined.",
			outcome:   "A first user completes the core flow"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Pick one usage number to watch",
			rationale: "One adoption number beats a dashboard of maybes.",
			metric:    "5 active users"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Commit to a demo date",
			rationale: "A demo forces scope honesty.",
			horizon:   "demo in 2 weeks"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into shippable slices",
			rationale: "Slices that ship keep momentum; phases that wait do not."},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "Write the one-sentence pitch",
			rationale: "If the pitch is fuzzy, the backlog will be too."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Line up three people for feedback",
			rationale: "The definition is set; outside eyes come next."},
	},
	CategoryVendor: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "Spell out the decision this work must produce",
			rationale: "Vendor work drifts without a named decision at the end.",
			outcome:   "Contract signed with the best-fit vendor"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Compare at least three quotes",
			rationale: "A count of quotes keeps the comparison honest.",
			metric:    "3 quotes compared"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Set a decision deadline",
			rationale: "Open-ended vendor evaluations cost more than wrong ones.",
			horizon:   "decide within 2 weeks"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into shortlist, calls, and comparison",
			rationale: "Three small stages beat one vague negotiation."},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "Write down your non-negotiable requirements",
			rationale: "Requirements written before the calls resist sales pressure."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Draft the kickoff checklist for the chosen vendor",
			rationale: "The decision is framed; prepare the handoff now."},
	},
	CategoryStrategy: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "State the end state this plan should produce",
			rationale: "Strategy without an end state is a list of activities.",
			outcome:   "A decision everyone can act on"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Choose one leading indicator",
			rationale: "Lagging numbers confirm; a leading one steers.",
			metric:    "1 leading indicator reviewed weekly"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Pick the review date for this plan",
			rationale: "Plans without review dates are write-only.",
			horizon:   "review in 30 days"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into bets you can test",
			rationale: "Testable bets tell you sooner whether the plan holds."},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "List what you are explicitly not doing",
			rationale: "The not-doing list is where strategy earns its keep."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Share the plan with someone who will challenge it",
			rationale: "A complete plan deserves a hostile reader."},
	},
	CategoryGeneral: {
		{when: eligibleMissing, fills: fieldOutcome, kind: domain.SuggestionClarify,
			title:     "Describe what done looks like",
			rationale: "A visible end state is the cheapest planning you can do.",
			outcome:   "A concrete, visible result exists"},
		{when: eligibleMissing, fills: fieldMetric, kind: domain.SuggestionMetric,
			title:     "Add one number that tracks progress",
			rationale: "Numbers move conversations from feelings to facts.",
			metric:    "1 measurable checkpoint per week"},
		{when: eligibleMissing, fills: fieldHorizon, kind: domain.SuggestionTimebox,
			title:     "Give this a deadline",
			rationale: "Work expands to fill whatever horizon it is denied.",
			horizon:   "2 weeks"},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionBreakdown,
			title:     "Break {title} into steps",
			rationale: "The first concrete step is usually smaller than it feels."},
		{when: eligibleAny, fills: fieldNone, kind: domain.SuggestionClarify,
			title:     "Write why this matters now",
			rationale: "If the why is weak, deprioritizing it is the real suggestion."},
		{when: eligibleComplete, fills: fieldNone, kind: domain.SuggestionFollowUp,
			title:     "Plan the follow-up once this lands",
			rationale: "Fully specified work deserves a next move."},
	},
}

// render expands {title} placeholders and materializes a suggestion.
func (tpl template) render(task domain.Task) domain.Suggestion {
	display := StripActionPrefix(task.Title)
	expand := func(s string) string { return strings.ReplaceAll(s, "{title}", display) }
	return domain.Suggestion{
		Title:     expand(tpl.title),
		Rationale: expand(tpl.rationale),
		Kind:      tpl.kind,
		Outcome:   tpl.outcome,
		Metric:    tpl.metric,
		Horizon:   tpl.horizon,
	}
}

// eligible reports whether the template may be offered for the task.
func (tpl template) eligible(task domain.Task) bool {
	switch tpl.when {
	case eligibleMissing:
		return !task.ClarityComplete()
	case eligibleComplete:
		return task.ClarityComplete()
	default:
		return true
	}
}

// fieldSet reports whether the task already has the given clarity field.
func fieldSet(task domain.Task, f clarityField) bool {
	switch f {
	case fieldOutcome:
		return task.Outcome != ""
	case fieldMetric:
		return task.Metric != ""
	case fieldHorizon:
		return task.Horizon != ""
	default:
		return false
	}
}
