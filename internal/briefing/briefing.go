// Package briefing builds the daily briefing. Like the suggestion engine
// it is deterministic: no I/O, no randomness, no clock.
package briefing

import (
	"fmt"
	"sort"

	"stride/internal/domain"
)

// MaxFocus caps the number of focus goals per briefing.
const MaxFocus = 2

// Generate composes a briefing from the current tasks and recent
// reflections. userName may be empty.
func Generate(tasks []domain.Task, reflections []domain.Reflection, userName string) domain.Briefing {
	goals := focusGoals(tasks)

	focus := make([]domain.FocusItem, 0, MaxFocus)
	for _, g := range goals {
		focus = append(focus, focusItem(g, tasks))
	}

	return domain.Briefing{
		Greeting: greeting(userName),
		Headline: headline(focus),
		Focus:    focus,
		CTA:      cta(focus, reflections),
	}
}

// focusGoals filters to open goals and orders them: in-progress before
// todo, then by descending clarity score. The sort is stable, so equal
// goals keep ascending id order.
func focusGoals(tasks []domain.Task) []domain.Task {
	var goals []domain.Task
	for _, t := range tasks {
		if !t.IsGoal() {
			continue
		}
		if t.Status == domain.StatusTodo || t.Status == domain.StatusInProgress {
			goals = append(goals, t)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		gi, gj := goals[i], goals[j]
		if gi.Status != gj.Status {
			return gi.Status == domain.StatusInProgress
		}
		return gi.ClarityScore() > gj.ClarityScore()
	})
	if len(goals) > MaxFocus {
		goals = goals[:MaxFocus]
	}
	return goals
}

// focusItem picks exactly one action for a goal: finish an in-progress
// child, else start a todo child, else propose creating a first action.
func focusItem(goal domain.Task, tasks []domain.Task) domain.FocusItem {
	var inProgress, todo *domain.Task
	for i := range tasks {
		t := &tasks[i]
		if t.ParentID == nil || *t.ParentID != goal.ID {
			continue
		}
		switch t.Status {
		case domain.StatusInProgress:
			if inProgress == nil {
				inProgress = t
			}
		case domain.StatusTodo:
			if todo == nil {
				todo = t
			}
		}
	}

	item := domain.FocusItem{GoalID: goal.ID, GoalTitle: goal.Title}
	switch {
	case inProgress != nil:
		id := inProgress.ID
		item.Action = domain.FocusAction{Type: domain.FocusFinish, ID: &id, Title: inProgress.Title}
		item.WhyNow = "It is already moving; finishing it frees you up."
	case todo != nil:
		id := todo.ID
		item.Action = domain.FocusAction{Type: domain.FocusStart, ID: &id, Title: todo.Title}
		item.WhyNow = "The next step is already defined; it just needs a start."
	default:
		item.Action = domain.FocusAction{
			Type:  domain.FocusCreate,
			Title: fmt.Sprintf("Define the first action for %q", goal.Title),
		}
		item.WhyNow = "This goal has no concrete next step yet."
	}
	return item
}

func greeting(userName string) string {
	if userName == "" {
		return "Good day."
	}
	return fmt.Sprintf("Good day, %s.", userName)
}

func headline(focus []domain.FocusItem) string {
	switch len(focus) {
	case 0:
		return "No goals need attention right now."
	case 1:
		return fmt.Sprintf("One goal needs attention: %s.", focus[0].GoalTitle)
	default:
		return fmt.Sprintf("Two goals need attention, starting with %s.", focus[0].GoalTitle)
	}
}

// ctaBySignal maps friction signals to a tailored closing line. The first
// friction signal found in the recent reflections wins.
var ctaBySignal = map[string]string{
	domain.SignalContextSwitching: "Protect one uninterrupted block for the first focus item.",
	domain.SignalLowEnergy:        "Start with the smallest piece of the first focus item.",
	domain.SignalUnclearAction:    "Before anything else, write down the very next physical step.",
}

func cta(focus []domain.FocusItem, reflections []domain.Reflection) string {
	if len(focus) == 0 {
		return "Add a goal when something worth tracking comes up."
	}
	for _, r := range reflections {
		for _, sig := range r.Signals {
			if line, ok := ctaBySignal[sig]; ok {
				return line
			}
		}
	}
	return fmt.Sprintf("Start with %q and report back tonight.", focus[0].Action.Title)
}
