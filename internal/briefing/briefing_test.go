package briefing

import (
	"strings"
	"testing"

	"stride/internal/domain"
)

func intp(v int) *int { return &v }

func TestEmptyTrackerIsValidOutput(t *testing.T) {
	b := Generate(nil, nil, "")
	if len(b.Focus) != 0 {
		t.Fatalf("expected empty focus: %+v", b.Focus)
	}
	if !strings.Contains(b.Headline, "No goals") {
		t.Fatalf("headline: %q", b.Headline)
	}
	if b.Greeting == "" || b.CTA == "" {
		t.Fatalf("greeting and cta must always be set: %+v", b)
	}
}

func TestGreetingUsesName(t *testing.T) {
	if got := Generate(nil, nil, "Ana").Greeting; !strings.Contains(got, "Ana") {
		t.Fatalf("greeting: %q", got)
	}
	if got := Generate(nil, nil, "").Greeting; strings.Contains(got, ",") {
		t.Fatalf("neutral greeting should not address anyone: %q", got)
	}
}

func TestFocusOrdering(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Vague todo", Status: domain.StatusTodo, Kind: domain.KindGoal},
		{ID: 2, Title: "Clear todo", Status: domain.StatusTodo, Kind: domain.KindGoal,
			Outcome: "done thing", Metric: "1 unit", Horizon: "1 week"},
		{ID: 3, Title: "Moving goal", Status: domain.StatusInProgress, Kind: domain.KindGoal},
		{ID: 4, Title: "Finished goal", Status: domain.StatusDone, Kind: domain.KindGoal},
	}
	b := Generate(tasks, nil, "")
	if len(b.Focus) != 2 {
		t.Fatalf("expected 2 focus items, got %d", len(b.Focus))
	}
	if b.Focus[0].GoalID != 3 {
		t.Fatalf("in-progress goal should rank first: %+v", b.Focus[0])
	}
	if b.Focus[1].GoalID != 2 {
		t.Fatalf("clarity should break the todo tie: %+v", b.Focus[1])
	}
}

func TestStableOrderOnTies(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "First", Status: domain.StatusTodo, Kind: domain.KindGoal},
		{ID: 2, Title: "Second", Status: domain.StatusTodo, Kind: domain.KindGoal},
	}
	b := Generate(tasks, nil, "")
	if b.Focus[0].GoalID != 1 || b.Focus[1].GoalID != 2 {
		t.Fatalf("equal goals must keep id order: %+v", b.Focus)
	}
}

func TestActionChoiceFinishBeatsStart(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Goal", Status: domain.StatusInProgress, Kind: domain.KindGoal},
		{ID: 2, Title: "Waiting action", Status: domain.StatusTodo, Kind: domain.KindAction, ParentID: intp(1)},
		{ID: 3, Title: "Running action", Status: domain.StatusInProgress, Kind: domain.KindAction, ParentID: intp(1)},
	}
	b := Generate(tasks, nil, "")
	a := b.Focus[0].Action
	if a.Type != domain.FocusFinish || a.ID == nil || *a.ID != 3 {
		t.Fatalf("expected finish of task 3: %+v", a)
	}
}

func TestActionChoiceStart(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Goal", Status: domain.StatusTodo, Kind: domain.KindGoal},
		{ID: 2, Title: "Waiting action", Status: domain.StatusTodo, Kind: domain.KindAction, ParentID: intp(1)},
	}
	a := Generate(tasks, nil, "").Focus[0].Action
	if a.Type != domain.FocusStart || a.ID == nil || *a.ID != 2 {
		t.Fatalf("expected start of task 2: %+v", a)
	}
}

func TestActionChoiceCreateOmitsID(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Childless goal", Status: domain.StatusTodo, Kind: domain.KindGoal},
	}
	a := Generate(tasks, nil, "").Focus[0].Action
	if a.Type != domain.FocusCreate || a.ID != nil {
		t.Fatalf("create must not carry an id: %+v", a)
	}
	if !strings.Contains(a.Title, "Childless goal") {
		t.Fatalf("synthesized title should name the goal: %q", a.Title)
	}
}

func TestDoneChildrenAreIgnored(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Goal", Status: domain.StatusInProgress, Kind: domain.KindGoal},
		{ID: 2, Title: "Done action", Status: domain.StatusDone, Kind: domain.KindAction, ParentID: intp(1)},
	}
	a := Generate(tasks, nil, "").Focus[0].Action
	if a.Type != domain.FocusCreate {
		t.Fatalf("all children done should synthesize a new action: %+v", a)
	}
}

func TestFrictionSignalShapesCTA(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Goal", Status: domain.StatusTodo, Kind: domain.KindGoal},
	}
	refl := []domain.Reflection{
		{ID: "r1", GoalID: 1, Signals: []string{domain.SignalLowEnergy}},
	}
	b := Generate(tasks, refl, "")
	if !strings.Contains(b.CTA, "smallest piece") {
		t.Fatalf("low_energy should shape the cta: %q", b.CTA)
	}
	plain := Generate(tasks, nil, "")
	if plain.CTA == b.CTA {
		t.Fatalf("cta should differ without signals: %q", plain.CTA)
	}
}
