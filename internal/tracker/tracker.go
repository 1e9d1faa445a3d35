package tracker

import (
	"errors"
	"fmt"
	"sort"

	"stride/internal/domain"
)

var (
	// ErrNotFound is returned when a referenced task id does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidTransition is returned when a status precondition is unmet.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Tracker is the in-memory task model and state machine. It is purely
// in-memory: callers load it from a snapshot, mutate it, and persist the
// result. One Tracker per logical operation; no ambient singleton.
type Tracker struct {
	tasks  []domain.Task
	byID   map[int]int // id -> index into tasks
	nextID int
}

// New returns an empty tracker with the id counter at 1.
func New() *Tracker {
	return &Tracker{byID: map[int]int{}, nextID: 1}
}

// FromSnapshot reconstructs a tracker from persisted records. Tasks are
// replayed in ascending id order with no gap assumptions; missing kinds are
// re-derived from parent presence and the id counter resumes past the
// highest seen id.
func FromSnapshot(tasks []domain.Task) *Tracker {
	tr := New()
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, t := range sorted {
		if t.Status == "" {
			t.Status = domain.StatusTodo
		}
		if t.Kind == "" {
			t.Kind = kindFor(t.ParentID)
		}
		tr.byID[t.ID] = len(tr.tasks)
		tr.tasks = append(tr.tasks, t)
		if t.ID >= tr.nextID {
			tr.nextID = t.ID + 1
		}
	}
	return tr
}

func kindFor(parentID *int) string {
	if parentID != nil {
		return domain.KindAction
	}
	return domain.KindGoal
}

// AddOptions are the optional fields for Add.
type AddOptions struct {
	ParentID *int
	Kind     string
	Outcome  string
	Metric   string
	Horizon  string
}

// Add creates a task in status todo and assigns the next id. It never
// fails; kind defaults from parent presence when omitted.
func (tr *Tracker) Add(title string, opts AddOptions) domain.Task {
	kind := opts.Kind
	if kind == "" {
		kind = kindFor(opts.ParentID)
	}
	t := domain.Task{
		ID:       tr.nextID,
		Title:    title,
		Status:   domain.StatusTodo,
		Outcome:  opts.Outcome,
		Metric:   opts.Metric,
		Horizon:  opts.Horizon,
		ParentID: opts.ParentID,
		Kind:     kind,
	}
	tr.nextID++
	tr.byID[t.ID] = len(tr.tasks)
	tr.tasks = append(tr.tasks, t)
	return t
}

// Patch carries merge-patch updates for the clarity fields. Nil means
// "leave untouched"; a pointer to the empty string clears the field.
type Patch struct {
	Outcome *string
	Metric  *string
	Horizon *string
}

// Update applies a merge-patch to the clarity fields of a task.
func (tr *Tracker) Update(id int, p Patch) (domain.Task, error) {
	i, ok := tr.byID[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	t := &tr.tasks[i]
	if p.Outcome != nil {
		t.Outcome = *p.Outcome
	}
	if p.Metric != nil {
		t.Metric = *p.Metric
	}
	if p.Horizon != nil {
		t.Horizon = *p.Horizon
	}
	return *t, nil
}

// Start moves a task from todo to in-progress. Starting an action whose
// parent is still todo promotes the parent to in-progress in the same
// operation.
func (tr *Tracker) Start(id int) (domain.Task, error) {
	i, ok := tr.byID[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	t := &tr.tasks[i]
	if t.Status != domain.StatusTodo {
		return domain.Task{}, fmt.Errorf("%w: cannot start task %d from %q", ErrInvalidTransition, id, t.Status)
	}
	t.Status = domain.StatusInProgress
	if t.ParentID != nil {
		if pi, ok := tr.byID[*t.ParentID]; ok && tr.tasks[pi].Status == domain.StatusTodo {
			tr.tasks[pi].Status = domain.StatusInProgress
		}
	}
	return *t, nil
}

// Complete moves a task from in-progress to done. Completing the last
// non-done sibling action promotes the parent to done; completing a
// non-last sibling while the parent is still todo promotes it to
// in-progress.
func (tr *Tracker) Complete(id int) (domain.Task, error) {
	i, ok := tr.byID[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	t := &tr.tasks[i]
	if t.Status != domain.StatusInProgress {
		return domain.Task{}, fmt.Errorf("%w: cannot complete task %d from %q", ErrInvalidTransition, id, t.Status)
	}
	t.Status = domain.StatusDone
	if t.ParentID != nil {
		tr.cascadeComplete(*t.ParentID)
	}
	return *t, nil
}

func (tr *Tracker) cascadeComplete(parentID int) {
	pi, ok := tr.byID[parentID]
	if !ok {
		return
	}
	parent := &tr.tasks[pi]
	allDone := true
	for _, c := range tr.tasks {
		if c.ParentID != nil && *c.ParentID == parentID && c.Status != domain.StatusDone {
			allDone = false
			break
		}
	}
	switch {
	case allDone:
		parent.Status = domain.StatusDone
	case parent.Status == domain.StatusTodo:
		// the parent has visible progress now
		parent.Status = domain.StatusInProgress
	}
}

// Get returns a copy of the task with the given id.
func (tr *Tracker) Get(id int) (domain.Task, error) {
	i, ok := tr.byID[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return tr.tasks[i], nil
}

// List returns a defensive copy of all tasks in insertion (ascending id)
// order.
func (tr *Tracker) List() []domain.Task {
	out := make([]domain.Task, len(tr.tasks))
	copy(out, tr.tasks)
	return out
}

// Children returns copies of the actions under the given parent, in
// insertion order.
func (tr *Tracker) Children(parentID int) []domain.Task {
	var out []domain.Task
	for _, t := range tr.tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the number of tasks per status across the whole store.
func (tr *Tracker) Counts() (todo, inProgress, done int) {
	for _, t := range tr.tasks {
		switch t.Status {
		case domain.StatusTodo:
			todo++
		case domain.StatusInProgress:
			inProgress++
		case domain.StatusDone:
			done++
		}
	}
	return todo, inProgress, done
}
