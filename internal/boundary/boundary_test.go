package boundary_test

import (
	"testing"

	"stride/internal/boundary"
	"stride/internal/tracker"
)

func TestFacadeNeverReturnsRawErrors(t *testing.T) {
	f := boundary.Facade{Tracker: tracker.New()}

	res := f.AddTask("Ship v2", tracker.AddOptions{})
	if !res.OK || res.Value.ID != 1 {
		t.Fatalf("add: %+v", res)
	}

	list := f.ListTasks()
	if !list.OK || len(list.Value) != 1 {
		t.Fatalf("list: %+v", list)
	}
}

func TestNotFoundCode(t *testing.T) {
	f := boundary.Facade{Tracker: tracker.New()}
	res := f.StartTask(99)
	if res.OK || res.Err == nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Err.Code != boundary.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", res.Err.Code)
	}
	if res.Err.Message == "" {
		t.Fatal("error message must not be empty")
	}
}

func TestInvalidTransitionCode(t *testing.T) {
	f := boundary.Facade{Tracker: tracker.New()}
	added := f.AddTask("Goal", tracker.AddOptions{})

	res := f.CompleteTask(added.Value.ID)
	if res.OK || res.Err.Code != boundary.CodeInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %+v", res)
	}
}

func TestUpdateMergePatchThroughFacade(t *testing.T) {
	f := boundary.Facade{Tracker: tracker.New()}
	added := f.AddTask("Goal", tracker.AddOptions{})

	outcome := "clear outcome"
	res := f.UpdateTask(added.Value.ID, tracker.Patch{Outcome: &outcome})
	if !res.OK || res.Value.Outcome != "clear outcome" {
		t.Fatalf("update: %+v", res)
	}

	missing := f.UpdateTask(404, tracker.Patch{Outcome: &outcome})
	if missing.OK || missing.Err.Code != boundary.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", missing)
	}
}

func TestClassifyPassesBoundaryErrorsThrough(t *testing.T) {
	in := boundary.NewValidation("note too long")
	out := boundary.Classify(in)
	if out != in {
		t.Fatalf("boundary error should pass through unchanged")
	}
	if out.Code != boundary.CodeValidation {
		t.Fatalf("expected VALIDATION, got %s", out.Code)
	}
}
