// Package boundary wraps the task model in a non-throwing, result-returning
// façade. It is the only contract external callers (CLI, HTTP handlers, SDK)
// may depend on; model errors never propagate past this seam as raw errors.
package boundary

import (
	"errors"

	"stride/internal/domain"
	"stride/internal/tracker"
)

// Code is the closed set of boundary error codes.
type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeValidation          Code = "VALIDATION"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
)

// Error is the tagged error carried inside a failed Result.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

// NewValidation builds a VALIDATION boundary error.
func NewValidation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Result is the tagged success-or-error value returned by every boundary
// operation.
type Result[T any] struct {
	OK    bool   `json:"ok"`
	Value T      `json:"value,omitempty"`
	Err   *Error `json:"error,omitempty"`
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

// Fail classifies err into a boundary error and wraps it.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: Classify(err)}
}

// Classify maps model errors onto the boundary taxonomy. Boundary errors
// pass through unchanged; anything else is treated as a validation failure
// since the model can only fail deterministically.
func Classify(err error) *Error {
	var be *Error
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, tracker.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, tracker.ErrInvalidTransition):
		return &Error{Code: CodeInvalidTransition, Message: err.Error()}
	default:
		return &Error{Code: CodeValidation, Message: err.Error()}
	}
}

// Facade exposes the task model operations over Results.
type Facade struct {
	Tracker *tracker.Tracker
}

// AddTask creates a task. It never fails.
func (f Facade) AddTask(title string, opts tracker.AddOptions) Result[domain.Task] {
	return OK(f.Tracker.Add(title, opts))
}

// UpdateTask merge-patches the clarity fields of a task.
func (f Facade) UpdateTask(id int, p tracker.Patch) Result[domain.Task] {
	t, err := f.Tracker.Update(id, p)
	if err != nil {
		return Fail[domain.Task](err)
	}
	return OK(t)
}

// StartTask moves a task to in-progress, cascading parent promotion.
func (f Facade) StartTask(id int) Result[domain.Task] {
	t, err := f.Tracker.Start(id)
	if err != nil {
		return Fail[domain.Task](err)
	}
	return OK(t)
}

// CompleteTask moves a task to done, cascading parent status.
func (f Facade) CompleteTask(id int) Result[domain.Task] {
	t, err := f.Tracker.Complete(id)
	if err != nil {
		return Fail[domain.Task](err)
	}
	return OK(t)
}

// GetTask returns a task by id.
func (f Facade) GetTask(id int) Result[domain.Task] {
	t, err := f.Tracker.Get(id)
	if err != nil {
		return Fail[domain.Task](err)
	}
	return OK(t)
}

// ListTasks returns all tasks in insertion order. It never fails.
func (f Facade) ListTasks() Result[[]domain.Task] {
	return OK(f.Tracker.List())
}
