package tracker_test

import (
	"errors"
	"testing"

	"stride/internal/domain"
	"stride/internal/tracker"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Ship v2", tracker.AddOptions{})
	if g.ID != 1 || g.Status != domain.StatusTodo || g.Kind != domain.KindGoal {
		t.Fatalf("unexpected goal: %+v", g)
	}
	a := tr.Add("Write changelog", tracker.AddOptions{ParentID: &g.ID})
	if a.ID != 2 || a.Kind != domain.KindAction || a.ParentID == nil || *a.ParentID != 1 {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestStatusLinearProgression(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Goal", tracker.AddOptions{})

	// complete before start is invalid
	if _, err := tr.Complete(g.ID); !errors.Is(err, tracker.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	got, _ := tr.Get(g.ID)
	if got.Status != domain.StatusTodo {
		t.Fatalf("failed transition must not mutate state, got %q", got.Status)
	}

	if _, err := tr.Start(g.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	// double start is invalid
	if _, err := tr.Start(g.ID); !errors.Is(err, tracker.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on second start, got %v", err)
	}
	if _, err := tr.Complete(g.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	// done is terminal
	if _, err := tr.Start(g.ID); !errors.Is(err, tracker.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from done, got %v", err)
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	tr := tracker.New()
	if _, err := tr.Start(42); !errors.Is(err, tracker.ErrNotFound) {
		t.Fatalf("start: expected not found, got %v", err)
	}
	if _, err := tr.Complete(42); !errors.Is(err, tracker.ErrNotFound) {
		t.Fatalf("complete: expected not found, got %v", err)
	}
	if _, err := tr.Update(42, tracker.Patch{}); !errors.Is(err, tracker.ErrNotFound) {
		t.Fatalf("update: expected not found, got %v", err)
	}
}

func TestStartActionPromotesTodoParent(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Ship v2", tracker.AddOptions{})
	a := tr.Add("Write changelog", tracker.AddOptions{ParentID: &g.ID})

	if _, err := tr.Start(a.ID); err != nil {
		t.Fatalf("start action: %v", err)
	}
	parent, _ := tr.Get(g.ID)
	if parent.Status != domain.StatusInProgress {
		t.Fatalf("parent should cascade to in-progress, got %q", parent.Status)
	}
}

func TestCompleteLastSiblingPromotesParentToDone(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Ship v2", tracker.AddOptions{})
	a := tr.Add("Write changelog", tracker.AddOptions{ParentID: &g.ID})

	tr.Start(a.ID)
	if _, err := tr.Complete(a.ID); err != nil {
		t.Fatalf("complete action: %v", err)
	}
	parent, _ := tr.Get(g.ID)
	if parent.Status != domain.StatusDone {
		t.Fatalf("parent should be done after only child completes, got %q", parent.Status)
	}
}

func TestCompleteNonLastSiblingLeavesParentInProgress(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Ship v2", tracker.AddOptions{})
	a1 := tr.Add("Step one", tracker.AddOptions{ParentID: &g.ID})
	tr.Add("Step two", tracker.AddOptions{ParentID: &g.ID})

	tr.Start(a1.ID)
	tr.Complete(a1.ID)
	parent, _ := tr.Get(g.ID)
	if parent.Status != domain.StatusInProgress {
		t.Fatalf("parent should stay in-progress with open siblings, got %q", parent.Status)
	}
}

func TestCompleteSiblingWhileParentTodoPromotesToInProgress(t *testing.T) {
	// Reconstructed state can hold an in-progress action under a todo parent.
	parentID := 1
	tr := tracker.FromSnapshot([]domain.Task{
		{ID: 1, Title: "Goal", Status: domain.StatusTodo},
		{ID: 2, Title: "A", Status: domain.StatusInProgress, ParentID: &parentID},
		{ID: 3, Title: "B", Status: domain.StatusTodo, ParentID: &parentID},
	})
	if _, err := tr.Complete(2); err != nil {
		t.Fatalf("complete: %v", err)
	}
	parent, _ := tr.Get(1)
	if parent.Status != domain.StatusInProgress {
		t.Fatalf("todo parent should gain visible progress, got %q", parent.Status)
	}
}

func TestUpdateIsMergePatch(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Goal", tracker.AddOptions{Outcome: "keep me"})

	metric := "5 per week"
	got, err := tr.Update(g.ID, tracker.Patch{Metric: &metric})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Outcome != "keep me" || got.Metric != "5 per week" || got.Horizon != "" {
		t.Fatalf("merge-patch broke fields: %+v", got)
	}

	empty := ""
	got, _ = tr.Update(g.ID, tracker.Patch{Outcome: &empty})
	if got.Outcome != "" || got.Metric != "5 per week" {
		t.Fatalf("explicit clear failed: %+v", got)
	}
}

func TestListReturnsDefensiveCopyInInsertionOrder(t *testing.T) {
	tr := tracker.New()
	tr.Add("one", tracker.AddOptions{})
	tr.Add("two", tracker.AddOptions{})

	list := tr.List()
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("unexpected order: %+v", list)
	}
	list[0].Title = "mutated"
	fresh, _ := tr.Get(1)
	if fresh.Title != "one" {
		t.Fatalf("caller mutation leaked into the tracker")
	}
}

func TestFromSnapshotResumesIDCounter(t *testing.T) {
	tr := tracker.FromSnapshot([]domain.Task{
		{ID: 7, Title: "late", Status: domain.StatusDone},
		{ID: 3, Title: "early", Status: domain.StatusTodo},
	})
	list := tr.List()
	if list[0].ID != 3 || list[1].ID != 7 {
		t.Fatalf("snapshot not replayed in ascending id order: %+v", list)
	}
	next := tr.Add("new", tracker.AddOptions{})
	if next.ID != 8 {
		t.Fatalf("id counter should resume at 8, got %d", next.ID)
	}
}

func TestFromSnapshotDerivesKind(t *testing.T) {
	parentID := 1
	tr := tracker.FromSnapshot([]domain.Task{
		{ID: 1, Title: "goal", Status: domain.StatusTodo},
		{ID: 2, Title: "action", Status: domain.StatusTodo, ParentID: &parentID},
	})
	g, _ := tr.Get(1)
	a, _ := tr.Get(2)
	if g.Kind != domain.KindGoal || a.Kind != domain.KindAction {
		t.Fatalf("kinds not derived: goal=%q action=%q", g.Kind, a.Kind)
	}
}

func TestGoalActionLifecycleEndToEnd(t *testing.T) {
	tr := tracker.New()
	g := tr.Add("Ship v2", tracker.AddOptions{})
	if g.ID != 1 || g.Status != domain.StatusTodo || g.Kind != domain.KindGoal {
		t.Fatalf("add goal: %+v", g)
	}
	a := tr.Add("Write changelog", tracker.AddOptions{ParentID: &g.ID})
	if a.ID != 2 || a.Status != domain.StatusTodo || a.Kind != domain.KindAction {
		t.Fatalf("add action: %+v", a)
	}
	if _, err := tr.Start(a.ID); err != nil {
		t.Fatal(err)
	}
	parent, _ := tr.Get(1)
	child, _ := tr.Get(2)
	if child.Status != domain.StatusInProgress || parent.Status != domain.StatusInProgress {
		t.Fatalf("after start: child=%q parent=%q", child.Status, parent.Status)
	}
	if _, err := tr.Complete(a.ID); err != nil {
		t.Fatal(err)
	}
	parent, _ = tr.Get(1)
	child, _ = tr.Get(2)
	if child.Status != domain.StatusDone || parent.Status != domain.StatusDone {
		t.Fatalf("after complete: child=%q parent=%q", child.Status, parent.Status)
	}
}
