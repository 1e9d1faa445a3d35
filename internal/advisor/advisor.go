// Package advisor layers an optional model-backed provider over the
// deterministic suggestion and briefing engines. The deterministic path is
// the contract; the provider is a best-effort upgrade that is dropped
// silently on any error, timeout, or schema violation.
package advisor

import (
	"context"
	"time"

	"stride/internal/briefing"
	"stride/internal/domain"
	"stride/internal/suggest"
)

// Provider produces enhanced suggestions and briefings. Implementations
// must honor ctx cancellation; they may fail freely, the caller always has
// a fallback.
type Provider interface {
	Suggestions(ctx context.Context, task domain.Task, all []domain.Task) ([]domain.Suggestion, error)
	Briefing(ctx context.Context, tasks []domain.Task, reflections []domain.Reflection, userName string) (domain.Briefing, error)
}

// DefaultTimeout bounds a provider call.
const DefaultTimeout = 10 * time.Second

// Advisor wraps an optional Provider. A zero Advisor (nil Provider) is
// valid and always takes the deterministic path.
type Advisor struct {
	Provider Provider
	Timeout  time.Duration
}

func (a *Advisor) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return DefaultTimeout
}

// Suggestions returns provider suggestions when they pass schema
// validation, else the deterministic engine's output. It never fails.
func (a *Advisor) Suggestions(ctx context.Context, task domain.Task, all []domain.Task, opts suggest.Options) []domain.Suggestion {
	if a != nil && a.Provider != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout())
		got, err := a.Provider.Suggestions(cctx, task, all)
		cancel()
		if err == nil && validSuggestions(got) {
			return got
		}
	}
	return suggest.GenerateWithOptions(task, all, opts)
}

// Briefing returns the provider briefing when it passes schema validation,
// else the deterministic engine's output. It never fails.
func (a *Advisor) Briefing(ctx context.Context, tasks []domain.Task, reflections []domain.Reflection, userName string) domain.Briefing {
	if a != nil && a.Provider != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout())
		got, err := a.Provider.Briefing(cctx, tasks, reflections, userName)
		cancel()
		if err == nil && validBriefing(got, tasks) {
			return got
		}
	}
	return briefing.Generate(tasks, reflections, userName)
}

// validSuggestions enforces the engine's output schema on provider output:
// 1 to 4 items, known kinds, non-empty titles, exactly one validation.
func validSuggestions(list []domain.Suggestion) bool {
	if len(list) < 1 || len(list) > suggest.MaxSuggestions {
		return false
	}
	validations := 0
	for _, s := range list {
		if s.Title == "" || s.Rationale == "" || !domain.ValidSuggestionKind(s.Kind) {
			return false
		}
		if s.Kind == domain.SuggestionValidation {
			validations++
		}
	}
	return validations == 1
}

// validBriefing enforces the briefing schema: at most two focus items,
// start/finish actions must reference an existing task id, create actions
// must not carry one.
func validBriefing(b domain.Briefing, tasks []domain.Task) bool {
	if b.Greeting == "" || b.Headline == "" || b.CTA == "" {
		return false
	}
	if len(b.Focus) > briefing.MaxFocus {
		return false
	}
	ids := map[int]bool{}
	for _, t := range tasks {
		ids[t.ID] = true
	}
	for _, f := range b.Focus {
		if f.GoalTitle == "" || f.Action.Title == "" || f.WhyNow == "" || !ids[f.GoalID] {
			return false
		}
		switch f.Action.Type {
		case domain.FocusFinish, domain.FocusStart:
			if f.Action.ID == nil || !ids[*f.Action.ID] {
				return false
			}
		case domain.FocusCreate:
			if f.Action.ID != nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}
