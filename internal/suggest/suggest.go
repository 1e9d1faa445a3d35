// Package suggest is the deterministic suggestion engine. Generate is a
// pure function of its inputs: no I/O, no randomness, no clock.
package suggest

import (
	"fmt"
	"strings"

	"stride/internal/domain"
)

// ReuseThreshold is the minimum title similarity for a reuse suggestion.
const ReuseThreshold = 0.25

// MaxSuggestions caps the final selection.
const MaxSuggestions = 4

// Options carries optional context. Signals are recent reflection signals;
// friction signals adapt the phrasing of the validation suggestion only,
// never the candidate set.
type Options struct {
	Signals []string
}

// Generate produces at most four ranked suggestions for a task.
func Generate(task domain.Task, all []domain.Task) []domain.Suggestion {
	return GenerateWithOptions(task, all, Options{})
}

// GenerateWithOptions runs the full pipeline: classification, template
// banks, heuristics, and the final dedupe/selection policy with its
// guaranteed validation slot.
func GenerateWithOptions(task domain.Task, all []domain.Task, opts Options) []domain.Suggestion {
	category := Classify(task)
	isAction := HasActionPrefix(task.Title)

	pool := bankCandidates(task, category)
	pool = appendAmbiguousVerb(pool, task)
	pool = applyActionPrefix(pool, task, isAction)
	pool = appendReuse(pool, task, all)
	pool = appendUnblock(pool, task)
	pool = appendTrackerState(pool, all)

	validation := validationSuggestion(task, category, isAction, opts.Signals)
	return selectFinal(pool, validation)
}

// bankCandidates applies the field-priority ranking to the category's
// template bank: up to two field-filling templates (never two for the same
// field, never for a field already set), then one more eligible template
// for variety.
func bankCandidates(task domain.Task, category Category) []domain.Suggestion {
	bank := banks[category]
	var out []domain.Suggestion
	chosen := map[int]bool{}

	// field priority: outcome > metric > horizon
	filled := 0
	for _, f := range []clarityField{fieldOutcome, fieldMetric, fieldHorizon} {
		if filled == 2 {
			break
		}
		if fieldSet(task, f) {
			continue
		}
		for i, tpl := range bank {
			if chosen[i] || tpl.fills != f || !tpl.eligible(task) {
				continue
			}
			chosen[i] = true
			out = append(out, tpl.render(task))
			filled++
			break
		}
	}

	// one more for variety; it must not target an already-filled field
	for i, tpl := range bank {
		if chosen[i] || !tpl.eligible(task) {
			continue
		}
		if tpl.fills != fieldNone && fieldSet(task, tpl.fills) {
			continue
		}
		out = append(out, tpl.render(task))
		break
	}
	return out
}

func appendAmbiguousVerb(pool []domain.Suggestion, task domain.Task) []domain.Suggestion {
	if task.Metric != "" {
		return pool
	}
	verb, ok := AmbiguousVerb(task.Title)
	if !ok {
		return pool
	}
	return append(pool, domain.Suggestion{
		Title:     fmt.Sprintf("Replace %q with a measurable target", verb),
		Rationale: fmt.Sprintf("%q can absorb effort forever; a number tells you when to stop.", verb),
		Kind:      domain.SuggestionMetric,
		Metric:    "a number that defines better",
	})
}

// applyActionPrefix strips break-into-steps suggestions for atomic actions
// and appends action-specific acceptance checks for missing fields.
func applyActionPrefix(pool []domain.Suggestion, task domain.Task, isAction bool) []domain.Suggestion {
	if !isAction {
		return pool
	}
	kept := pool[:0]
	for _, s := range pool {
		if s.Kind == domain.SuggestionBreakdown {
			continue
		}
		kept = append(kept, s)
	}
	if task.Outcome == "" {
		kept = append(kept, domain.Suggestion{
			Title:     "Write the acceptance criteria for this action",
			Rationale: "An atomic action needs a pass/fail check, not a vision.",
			Kind:      domain.SuggestionClarify,
			Outcome:   "Acceptance criteria written and met",
		})
	}
	if task.Metric == "" {
		kept = append(kept, domain.Suggestion{
			Title:     "Add a done check you can verify",
			Rationale: "If you cannot verify it, you cannot finish it.",
			Kind:      domain.SuggestionMetric,
			Metric:    "1 verifiable done check",
		})
	}
	return kept
}

// appendReuse proposes borrowing a clarity field from the most similar
// other task, if the best Jaccard score reaches the threshold. First
// applicable field wins, and at most one reuse suggestion is emitted.
func appendReuse(pool []domain.Suggestion, task domain.Task, all []domain.Task) []domain.Suggestion {
	var best *domain.Task
	bestScore := 0.0
	for i := range all {
		if all[i].ID == task.ID {
			continue
		}
		if score := Jaccard(task.Title, all[i].Title); score > bestScore {
			bestScore = score
			best = &all[i]
		}
	}
	if best == nil || bestScore < ReuseThreshold {
		return pool
	}
	switch {
	case task.Outcome == "" && best.Outcome != "":
		return append(pool, domain.Suggestion{
			Title:     fmt.Sprintf("Reuse the outcome from %q", best.Title),
			Rationale: "A similar task already answered what done looks like.",
			Kind:      domain.SuggestionReuse,
			Outcome:   best.Outcome,
		})
	case task.Metric == "" && best.Metric != "":
		return append(pool, domain.Suggestion{
			Title:     fmt.Sprintf("Reuse the metric from %q", best.Title),
			Rationale: "A similar task already has a working measure.",
			Kind:      domain.SuggestionReuse,
			Metric:    best.Metric,
		})
	case task.Horizon == "" && best.Horizon != "":
		return append(pool, domain.Suggestion{
			Title:     fmt.Sprintf("Reuse the horizon from %q", best.Title),
			Rationale: "A similar task already picked a timeframe that fits.",
			Kind:      domain.SuggestionReuse,
			Horizon:   best.Horizon,
		})
	}
	return pool
}

// unblockRotation is tried in order; the first entry not already in the
// pool (by lowercase title) is appended.
var unblockRotation = []domain.Suggestion{
	{Title: "Ask a stakeholder to review the current state",
		Rationale: "Fully specified but still in progress usually means a waiting decision.",
		Kind:      domain.SuggestionUnblock},
	{Title: "Write a one-page decision memo",
		Rationale: "Writing the options down often dissolves the blockage.",
		Kind:      domain.SuggestionUnblock},
	{Title: "Run a small experiment to unblock progress",
		Rationale: "When analysis stalls, a cheap test produces new information.",
		Kind:      domain.SuggestionUnblock},
}

func appendUnblock(pool []domain.Suggestion, task domain.Task) []domain.Suggestion {
	if task.Status != domain.StatusInProgress || !task.ClarityComplete() {
		return pool
	}
	seen := map[string]bool{}
	for _, s := range pool {
		seen[strings.ToLower(s.Title)] = true
	}
	for _, s := range unblockRotation {
		if !seen[strings.ToLower(s.Title)] {
			return append(pool, s)
		}
	}
	return pool
}

// appendTrackerState adds whole-store heuristics from the status counts.
func appendTrackerState(pool []domain.Suggestion, all []domain.Task) []domain.Suggestion {
	var todo, inProgress, done int
	for _, t := range all {
		switch t.Status {
		case domain.StatusTodo:
			todo++
		case domain.StatusInProgress:
			inProgress++
		case domain.StatusDone:
			done++
		}
	}
	if todo >= 4 && inProgress == 0 {
		pool = append(pool, domain.Suggestion{
			Title:     "Pick one task and start it today",
			Rationale: "Four or more waiting items and nothing moving is a starting problem, not a planning problem.",
			Kind:      domain.SuggestionFollowUp,
		})
	}
	if inProgress >= 2 {
		pool = append(pool, domain.Suggestion{
			Title:     "Reduce work in progress before starting more",
			Rationale: "Two or more open threads slow each other down.",
			Kind:      domain.SuggestionFollowUp,
		})
	}
	if done >= 5 {
		pool = append(pool, domain.Suggestion{
			Title:     "Review what you have finished before adding more",
			Rationale: "Five completions deserve a look back before the list grows.",
			Kind:      domain.SuggestionFollowUp,
		})
	}
	return pool
}

// selectFinal applies the dedupe/selection policy: dedupe by lowercase
// title, keep up to two non-validation suggestions in pipeline order,
// guarantee exactly one validation suggestion, then allow one more item if
// it is a reuse or follow-up and a slot remains.
func selectFinal(pool []domain.Suggestion, validation domain.Suggestion) []domain.Suggestion {
	seen := map[string]bool{strings.ToLower(validation.Title): true}
	var deduped []domain.Suggestion
	for _, s := range pool {
		key := strings.ToLower(s.Title)
		if seen[key] || s.Kind == domain.SuggestionValidation {
			continue
		}
		seen[key] = true
		deduped = append(deduped, s)
	}

	out := make([]domain.Suggestion, 0, MaxSuggestions)
	rest := deduped
	if len(deduped) > 2 {
		out = append(out, deduped[:2]...)
		rest = deduped[2:]
	} else {
		out = append(out, deduped...)
		rest = nil
	}
	out = append(out, validation)
	if len(out) < MaxSuggestions {
		for _, s := range rest {
			if s.Kind == domain.SuggestionReuse || s.Kind == domain.SuggestionFollowUp {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
