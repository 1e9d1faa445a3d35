package suggest

import (
	"reflect"
	"strings"
	"testing"

	"stride/internal/domain"
)

func countKind(list []domain.Suggestion, kind string) int {
	n := 0
	for _, s := range list {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func findKind(list []domain.Suggestion, kind string) (domain.Suggestion, bool) {
	for _, s := range list {
		if s.Kind == kind {
			return s, true
		}
	}
	return domain.Suggestion{}, false
}

func TestGenerateShape(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Clean the garage", Status: domain.StatusTodo},
		{ID: 2, Title: "Run a 10k", Status: domain.StatusInProgress, Outcome: "finish", Metric: "3 runs/week", Horizon: "12 weeks"},
		{ID: 3, Title: "action: call the bank", Status: domain.StatusTodo},
	}
	for _, task := range tasks {
		got := Generate(task, tasks)
		if len(got) < 1 || len(got) > MaxSuggestions {
			t.Fatalf("task %d: got %d suggestions", task.ID, len(got))
		}
		if countKind(got, domain.SuggestionValidation) != 1 {
			t.Fatalf("task %d: expected exactly one validation, got %+v", task.ID, got)
		}
		seen := map[string]bool{}
		for _, s := range got {
			key := strings.ToLower(s.Title)
			if seen[key] {
				t.Fatalf("task %d: duplicate title %q", task.ID, s.Title)
			}
			seen[key] = true
			if !domain.ValidSuggestionKind(s.Kind) {
				t.Fatalf("task %d: unknown kind %q", task.ID, s.Kind)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Launch the side project", Status: domain.StatusTodo}
	all := []domain.Task{task, {ID: 2, Title: "Launch the newsletter", Outcome: "100 readers"}}
	first := Generate(task, all)
	second := Generate(task, all)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different output:\n%+v\n%+v", first, second)
	}
}

func TestFieldPriorityOutcomeBeforeMetric(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Clean the garage", Status: domain.StatusTodo}
	got := Generate(task, []domain.Task{task})

	if got[0].Outcome == "" || got[0].Kind != domain.SuggestionClarify {
		t.Fatalf("first suggestion should fill outcome: %+v", got[0])
	}
	if got[1].Metric == "" || got[1].Kind != domain.SuggestionMetric {
		t.Fatalf("second suggestion should fill metric: %+v", got[1])
	}
}

func TestFieldPrioritySkipsSetFields(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Clean the garage", Status: domain.StatusTodo, Outcome: "an empty garage"}
	got := Generate(task, []domain.Task{task})

	if got[0].Metric == "" {
		t.Fatalf("with outcome set, metric should rank first: %+v", got[0])
	}
	for _, s := range got {
		if s.Outcome != "" && s.Kind != domain.SuggestionValidation {
			t.Fatalf("outcome already set but a suggestion proposes one: %+v", s)
		}
	}
}

func TestCompleteTaskPhrasing(t *testing.T) {
	task := domain.Task{
		ID: 1, Title: "Clean the garage", Status: domain.StatusTodo,
		Outcome: "an empty garage", Metric: "4 shelves cleared", Horizon: "2 weekends",
	}
	got := Generate(task, []domain.Task{task})

	v, ok := findKind(got, domain.SuggestionValidation)
	if !ok {
		t.Fatal("missing validation suggestion")
	}
	if v.Title != "Confirm the result will be used once delivered" {
		t.Fatalf("expected complete-state phrasing, got %q", v.Title)
	}
	for _, s := range got {
		if s.Outcome != "" || s.Metric != "" || s.Horizon != "" {
			t.Fatalf("complete task got a field-filling suggestion: %+v", s)
		}
	}
}

func TestActionPrefixHandling(t *testing.T) {
	task := domain.Task{ID: 1, Title: "action: call the bank", Status: domain.StatusTodo, Kind: domain.KindAction}
	got := Generate(task, []domain.Task{task})

	if countKind(got, domain.SuggestionBreakdown) != 0 {
		t.Fatalf("atomic action received a breakdown suggestion: %+v", got)
	}
	v, _ := findKind(got, domain.SuggestionValidation)
	if !strings.Contains(v.Title, "smallest version of call the bank") {
		t.Fatalf("action validation phrasing: %q", v.Title)
	}
}

func TestAmbiguousVerbSuggestion(t *testing.T) {
	task := domain.Task{ID: 1, Title: "action: improve the kitchen", Status: domain.StatusTodo,
		Kind: domain.KindAction, Outcome: "a kitchen guests compliment", Horizon: "3 months"}
	got := Generate(task, []domain.Task{task})

	found := false
	for _, s := range got {
		if strings.Contains(s.Title, `"improve"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("ambiguous verb not flagged: %+v", got)
	}
}

func TestReuseFromSimilarTask(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Plan the launch", Status: domain.StatusTodo}
	all := []domain.Task{
		task,
		{ID: 2, Title: "Plan the launch party", Outcome: "50 guests confirmed"},
	}
	got := Generate(task, all)

	r, ok := findKind(got, domain.SuggestionReuse)
	if !ok {
		t.Fatalf("expected a reuse suggestion: %+v", got)
	}
	if r.Outcome != "50 guests confirmed" {
		t.Fatalf("reuse should borrow the outcome first: %+v", r)
	}
}

func TestNoReuseBelowThreshold(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Write blog post about golang", Status: domain.StatusTodo}
	all := []domain.Task{
		task,
		{ID: 2, Title: "Write newsletter", Outcome: "weekly issue sent"},
	}
	if got := Generate(task, all); countKind(got, domain.SuggestionReuse) != 0 {
		t.Fatalf("reuse fired below threshold: %+v", got)
	}
}

func TestUnblockForStalledInProgress(t *testing.T) {
	task := domain.Task{
		ID: 1, Title: "Organize the archive", Status: domain.StatusInProgress,
		Outcome: "searchable archive", Metric: "0 loose boxes", Horizon: "1 month",
	}
	got := Generate(task, []domain.Task{task})

	u, ok := findKind(got, domain.SuggestionUnblock)
	if !ok {
		t.Fatalf("expected an unblock suggestion: %+v", got)
	}
	if u.Title != "Ask a stakeholder to review the current state" {
		t.Fatalf("rotation should start at the first entry: %q", u.Title)
	}
}

func TestNoUnblockWhileFieldsMissing(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Organize the archive", Status: domain.StatusInProgress}
	if got := Generate(task, []domain.Task{task}); countKind(got, domain.SuggestionUnblock) != 0 {
		t.Fatalf("unblock fired without complete fields: %+v", got)
	}
}

func TestGlobalPickOneHeuristic(t *testing.T) {
	all := []domain.Task{
		{ID: 1, Title: "Clean the garage", Status: domain.StatusTodo},
		{ID: 2, Title: "Sort the photos", Status: domain.StatusTodo},
		{ID: 3, Title: "Fix the fence", Status: domain.StatusTodo},
		{ID: 4, Title: "Paint the shed", Status: domain.StatusTodo},
	}
	got := Generate(all[0], all)
	found := false
	for _, s := range got {
		if s.Title == "Pick one task and start it today" {
			found = true
		}
	}
	if !found {
		t.Fatalf("pick-one heuristic missing: %+v", got)
	}
}

func TestGlobalReduceWIPHeuristic(t *testing.T) {
	all := []domain.Task{
		{ID: 1, Title: "Organize the archive", Status: domain.StatusInProgress,
			Outcome: "searchable archive", Metric: "0 loose boxes", Horizon: "1 month"},
		{ID: 2, Title: "Sort the photos", Status: domain.StatusInProgress},
	}
	got := Generate(all[0], all)
	found := false
	for _, s := range got {
		if s.Title == "Reduce work in progress before starting more" {
			found = true
		}
	}
	if !found {
		t.Fatalf("reduce-WIP heuristic missing: %+v", got)
	}
}

func TestFrictionSignalAdjustsValidationPhrasing(t *testing.T) {
	task := domain.Task{ID: 1, Title: "Clean the garage", Status: domain.StatusTodo}
	plain := Generate(task, []domain.Task{task})
	tuned := GenerateWithOptions(task, []domain.Task{task}, Options{Signals: []string{domain.SignalLowEnergy}})

	pv, _ := findKind(plain, domain.SuggestionValidation)
	tv, _ := findKind(tuned, domain.SuggestionValidation)
	if pv.Title != tv.Title {
		t.Fatalf("signals must not change which validation fires: %q vs %q", pv.Title, tv.Title)
	}
	if !strings.Contains(tv.Rationale, "low-effort") {
		t.Fatalf("low_energy phrasing missing: %q", tv.Rationale)
	}
	if strings.Contains(pv.Rationale, "low-effort") {
		t.Fatalf("phrasing leaked without signals: %q", pv.Rationale)
	}
}
