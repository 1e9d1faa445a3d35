// Package reflection validates and persists post-completion feedback.
// Reflections are append-only: they are never edited or deleted, only
// listed with filters.
package reflection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"stride/internal/boundary"
	"stride/internal/domain"
	"stride/internal/store"
)

// DefaultWindowDays is the recency window applied when listing.
const DefaultWindowDays = 14

// Input is the caller-supplied reflection payload.
type Input struct {
	GoalID   int             `json:"goal_id"`
	ActionID *int            `json:"action_id,omitempty"`
	Signals  []string        `json:"signals,omitempty"`
	Note     string          `json:"note,omitempty"`
	Answers  []domain.Answer `json:"answers,omitempty"`
}

// Filter narrows List output. SinceDays of 0 means the default window.
type Filter struct {
	GoalID    *int
	ActionID  *int
	SinceDays int
}

// Store is the durable reflection collection.
type Store struct {
	Log store.ReflectionLog
	Now func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// validate applies the checks in contract order; the first failure wins.
func validate(in Input) *boundary.Error {
	if in.GoalID <= 0 {
		return boundary.NewValidation("goal_id must be a positive integer")
	}
	if in.ActionID != nil && *in.ActionID <= 0 {
		return boundary.NewValidation("action_id must be a positive integer")
	}
	if len(in.Signals) == 0 && in.Note == "" && len(in.Answers) == 0 {
		return boundary.NewValidation("at least one of signals, note or answers is required")
	}
	for _, sig := range in.Signals {
		if !domain.ValidSignal(sig) {
			return boundary.NewValidation(fmt.Sprintf("unknown signal %q", sig))
		}
	}
	if len(in.Note) > domain.NoteMaxLen {
		return boundary.NewValidation(fmt.Sprintf("note exceeds %d characters", domain.NoteMaxLen))
	}
	for _, a := range in.Answers {
		if a.PromptID == "" || a.Value == "" {
			return boundary.NewValidation("answers require a non-empty prompt_id and value")
		}
	}
	return nil
}

// Append validates the input, assigns an id and timestamp, and appends the
// record to the durable collection. Existing entries are never touched.
func (s *Store) Append(in Input) boundary.Result[domain.Reflection] {
	if err := validate(in); err != nil {
		return boundary.Result[domain.Reflection]{Err: err}
	}
	ref := domain.Reflection{
		ID:        uuid.New().String(),
		CreatedAt: s.now().UTC().Format(time.RFC3339),
		GoalID:    in.GoalID,
		ActionID:  in.ActionID,
		Signals:   in.Signals,
		Note:      in.Note,
		Answers:   in.Answers,
	}
	refs := append(s.Log.Load(), ref)
	if err := s.Log.Save(refs); err != nil {
		return boundary.Fail[domain.Reflection](err)
	}
	return boundary.OK(ref)
}

// List returns reflections inside the recency window, filtered by the
// optional goal/action ids, oldest first.
func (s *Store) List(f Filter) []domain.Reflection {
	days := f.SinceDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	var out []domain.Reflection
	for _, ref := range s.Log.Load() {
		ts, err := time.Parse(time.RFC3339, ref.CreatedAt)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		if f.GoalID != nil && ref.GoalID != *f.GoalID {
			continue
		}
		if f.ActionID != nil && (ref.ActionID == nil || *ref.ActionID != *f.ActionID) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// RecentSignals flattens the signal values of reflections inside the
// default window, optionally scoped to one goal. Both advisory engines
// consume this for phrasing personalization.
func (s *Store) RecentSignals(goalID *int) []string {
	var signals []string
	for _, ref := range s.List(Filter{GoalID: goalID}) {
		signals = append(signals, ref.Signals...)
	}
	return signals
}
