package suggest

import (
	"fmt"

	"stride/internal/domain"
)

// validationTexts holds the per-category validation phrasing, split by
// whether the task's clarity fields are complete.
var validationTexts = map[Category]struct {
	missingTitle      string
	missingRationale  string
	completeTitle     string
	completeRationale string
}{
	CategoryHabit: {
		missingTitle:      "Try the habit for one week before committing",
		missingRationale:  "A one-week trial tells you whether the habit fits your life before you invest in defining it fully.",
		completeTitle:     "Check the habit still earns its slot",
		completeRationale: "The definition is complete; confirm the routine still pays for the time it takes.",
	},
	CategoryStudy: {
		missingTitle:      "Spend 30 minutes confirming this is worth learning",
		missingRationale:  "A short scan of the material tells you whether the topic deserves a full plan.",
		completeTitle:     "Test your understanding against a real problem",
		completeRationale: "The plan is complete; applying it to something real validates the learning.",
	},
	CategoryProduct: {
		missingTitle:      "Talk to one potential user before building more",
		missingRationale:  "A single conversation is the cheapest test of whether anyone wants this.",
		completeTitle:     "Put the current version in front of a user",
		completeRationale: "Everything is specified; real usage is the only validation left.",
	},
	CategoryVendor: {
		missingTitle:      "Confirm the budget owner still wants this",
		missingRationale:  "Vendor work is expensive to unwind; re-check the mandate before going further.",
		completeTitle:     "Sanity-check the shortlist with a colleague",
		completeRationale: "The evaluation is framed; a second pair of eyes catches the blind spot.",
	},
	CategoryStrategy: {
		missingTitle:      "Pressure-test the premise with one stakeholder",
		missingRationale:  "One honest conversation tells you whether the plan rests on a real problem.",
		completeTitle:     "Run the plan past someone who will disagree",
		completeRationale: "The plan is fully specified; dissent is the cheapest validation available.",
	},
	CategoryGeneral: {
		missingTitle:      "Spend 15 minutes checking this is still worth doing",
		missingRationale:  "A quick relevance check beats polishing a task that no longer matters.",
		completeTitle:     "Confirm the result will be used once delivered",
		completeRationale: "The task is fully specified; make sure someone is waiting for the output.",
	},
}

// frictionPhrasing maps friction signals to a rationale suffix. Signals
// never change which validation suggestion fires, only how it reads.
var frictionPhrasing = map[string]string{
	domain.SignalContextSwitching: "Do it in one sitting so it does not become another open thread.",
	domain.SignalLowEnergy:        "Pick a low-effort way to check; this should not drain you.",
	domain.SignalUnclearAction:    "Write the very first step down before you start.",
}

// validationSuggestion builds the single guaranteed validation suggestion.
// Atomic actions get a fixed smallest-test phrasing instead of the
// category text.
func validationSuggestion(task domain.Task, category Category, isAction bool, signals []string) domain.Suggestion {
	var s domain.Suggestion
	if isAction {
		s = domain.Suggestion{
			Title:     fmt.Sprintf("Do the smallest version of %s first", StripActionPrefix(task.Title)),
			Rationale: "A five-minute version proves the action is the right one before you commit the full effort.",
			Kind:      domain.SuggestionValidation,
		}
	} else {
		texts := validationTexts[category]
		if task.ClarityComplete() {
			s = domain.Suggestion{Title: texts.completeTitle, Rationale: texts.completeRationale, Kind: domain.SuggestionValidation}
		} else {
			s = domain.Suggestion{Title: texts.missingTitle, Rationale: texts.missingRationale, Kind: domain.SuggestionValidation}
		}
	}
	for _, sig := range signals {
		if suffix, ok := frictionPhrasing[sig]; ok {
			s.Rationale = s.Rationale + " " + suffix
			break
		}
	}
	return s
}
