package server

import "stride/internal/domain"

// CreateTaskRequest is the create-task body.
type CreateTaskRequest struct {
	Title    string `json:"title" example:"Ship v2"`
	ParentID *int   `json:"parent_id,omitempty" example:"1"`
	Kind     string `json:"kind,omitempty" enum:"goal,action"`
	Outcome  string `json:"outcome,omitempty"`
	Metric   string `json:"metric,omitempty"`
	Horizon  string `json:"horizon,omitempty"`
}

// PatchTaskRequest merge-patches the clarity fields. A present empty
// string clears the field; an absent field is left untouched.
type PatchTaskRequest struct {
	Outcome *string `json:"outcome,omitempty"`
	Metric  *string `json:"metric,omitempty"`
	Horizon *string `json:"horizon,omitempty"`
}

// CreateReflectionRequest is the append-reflection body.
type CreateReflectionRequest struct {
	GoalID   int             `json:"goal_id" example:"1"`
	ActionID *int            `json:"action_id,omitempty"`
	Signals  []string        `json:"signals,omitempty"`
	Note     string          `json:"note,omitempty"`
	Answers  []domain.Answer `json:"answers,omitempty"`
}

// StatusBody summarizes the tracker for the status route.
type StatusBody struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Total      int `json:"total"`
}
