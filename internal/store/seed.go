package store

import "stride/internal/domain"

// Seed returns the fixed dataset installed by a reset. The ids are
// contiguous from 1 so a reconstructed tracker resumes its counter at 7.
func Seed() []domain.Task {
	goalRun := 1
	goalLaunch := 4
	return []domain.Task{
		{
			ID:      1,
			Title:   "Run a 10k",
			Status:  domain.StatusInProgress,
			Outcome: "Finish an official 10k race",
			Metric:  "3 training runs per week",
			Kind:    domain.KindGoal,
		},
		{
			ID:       2,
			Title:    "action: sign up for a local race",
			Status:   domain.StatusDone,
			ParentID: &goalRun,
			Kind:     domain.KindAction,
		},
		{
			ID:       3,
			Title:    "action: build a weekly training plan",
			Status:   domain.StatusInProgress,
			ParentID: &goalRun,
			Kind:     domain.KindAction,
		},
		{
			ID:      4,
			Title:   "Launch the side project",
			Status:  domain.StatusTodo,
			Horizon: "end of quarter",
			Kind:    domain.KindGoal,
		},
		{
			ID:       5,
			Title:    "action: write the landing page copy",
			Status:   domain.StatusTodo,
			ParentID: &goalLaunch,
			Kind:     domain.KindAction,
		},
		{
			ID:     6,
			Title:  "Read one book a month",
			Status: domain.StatusTodo,
			Kind:   domain.KindGoal,
		},
	}
}
