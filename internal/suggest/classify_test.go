package suggest

import (
	"testing"

	"stride/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		title string
		want  Category
	}{
		{"Run a 10k", CategoryHabit},
		{"Meditate every morning", CategoryHabit},
		{"Learn Spanish", CategoryStudy},
		{"Read one book a month", CategoryStudy},
		{"Launch the side project", CategoryProduct},
		{"Ship the beta to users", CategoryProduct},
		{"Negotiate the hosting contract", CategoryVendor},
		{"Get three supplier quotes", CategoryVendor},
		{"Draft the Q3 roadmap", CategoryStrategy},
		{"Decide on the pricing strategy", CategoryStrategy},
		{"Clean the garage", CategoryGeneral},
		{"", CategoryGeneral},
	}
	for _, tc := range cases {
		got := Classify(domain.Task{Title: tc.title})
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.title, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "daily" (habit) appears alongside "learn" (study); habit is checked first.
	got := Classify(domain.Task{Title: "Learn guitar with daily practice"})
	if got != CategoryHabit {
		t.Fatalf("expected habit to win, got %s", got)
	}
}

func TestClassifyUsesOutcomeAndMetric(t *testing.T) {
	task := domain.Task{Title: "Big push", Outcome: "ship the mvp"}
	if got := Classify(task); got != CategoryProduct {
		t.Fatalf("outcome text ignored, got %s", got)
	}
	task = domain.Task{Title: "Big push", Metric: "3 vendor quotes"}
	if got := Classify(task); got != CategoryVendor {
		t.Fatalf("metric text ignored, got %s", got)
	}
}

func TestActionPrefix(t *testing.T) {
	if !HasActionPrefix("action: call the bank") {
		t.Fatal("lowercase prefix not detected")
	}
	if !HasActionPrefix("  Action: call the bank") {
		t.Fatal("case/space variant not detected")
	}
	if HasActionPrefix("take action: eventually") {
		t.Fatal("prefix must anchor at the start")
	}
	if got := StripActionPrefix("Action: call the bank"); got != "call the bank" {
		t.Fatalf("strip: %q", got)
	}
	if got := StripActionPrefix("call the bank"); got != "call the bank" {
		t.Fatalf("strip should be a no-op: %q", got)
	}
}

func TestAmbiguousVerb(t *testing.T) {
	if v, ok := AmbiguousVerb("Improve the onboarding flow"); !ok || v != "improve" {
		t.Fatalf("got %q %v", v, ok)
	}
	if _, ok := AmbiguousVerb("Write the onboarding flow"); ok {
		t.Fatal("false positive")
	}
	if _, ok := AmbiguousVerb("improvise a speech"); ok {
		t.Fatal("word boundary not respected")
	}
}
