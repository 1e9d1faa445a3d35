package domain

// Task statuses form a strict linear progression; there is no backward edge.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Task kinds. A goal is a top-level task; an action is a concrete step under
// a goal. Kind is stored explicitly but defaults from ParentID presence.
const (
	KindGoal   = "goal"
	KindAction = "action"
)

// Task is the single work-item record. Depending on role it is referred to
// as a goal (no parent) or an action (has a parent).
type Task struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status" enum:"todo,in-progress,done"`
	Outcome  string `json:"outcome,omitempty"`
	Metric   string `json:"metric,omitempty"`
	Horizon  string `json:"horizon,omitempty"`
	ParentID *int   `json:"parent_id,omitempty"`
	Kind     string `json:"kind" enum:"goal,action"`
}

// IsGoal reports whether the task is a top-level goal.
func (t Task) IsGoal() bool { return t.ParentID == nil }

// ClarityScore returns 0/25/50/75/100 for how many of
// {title, outcome, metric, horizon} are populated. Title is mandatory, so
// the baseline is 25.
func (t Task) ClarityScore() int {
	score := 0
	for _, f := range []string{t.Title, t.Outcome, t.Metric, t.Horizon} {
		if f != "" {
			score += 25
		}
	}
	return score
}

// ClarityComplete reports whether all three optional clarity fields are set.
func (t Task) ClarityComplete() bool {
	return t.Outcome != "" && t.Metric != "" && t.Horizon != ""
}

// Signals a reflection may carry. Closed set; anything else is rejected.
const (
	SignalClearStep        = "clear_step"
	SignalEnoughTime       = "enough_time"
	SignalContextSwitching = "context_switching"
	SignalLowEnergy        = "low_energy"
	SignalUnclearAction    = "unclear_action"
)

// Signals is the closed set of valid reflection signal values.
var Signals = []string{
	SignalClearStep,
	SignalEnoughTime,
	SignalContextSwitching,
	SignalLowEnergy,
	SignalUnclearAction,
}

// FrictionSignals are the signal values that indicate an obstacle. They are
// used to adapt suggestion and briefing phrasing.
var FrictionSignals = []string{
	SignalContextSwitching,
	SignalLowEnergy,
	SignalUnclearAction,
}

// ValidSignal reports whether s belongs to the closed signal set.
func ValidSignal(s string) bool {
	for _, v := range Signals {
		if v == s {
			return true
		}
	}
	return false
}

// NoteMaxLen caps the free-form reflection note.
const NoteMaxLen = 140

// Answer is one structured reflection prompt response.
type Answer struct {
	PromptID string `json:"prompt_id"`
	Value    string `json:"value"`
}

// Reflection is an immutable post-completion feedback record. At least one
// of Signals, Note, Answers is non-empty.
type Reflection struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at" format:"date-time"`
	GoalID    int      `json:"goal_id"`
	ActionID  *int     `json:"action_id,omitempty"`
	Signals   []string `json:"signals,omitempty"`
	Note      string   `json:"note,omitempty"`
	Answers   []Answer `json:"answers,omitempty"`
}

// Suggestion kinds. Closed set; the selection policy guarantees exactly one
// "validation" suggestion per generated batch.
const (
	SuggestionClarify    = "clarify"
	SuggestionMetric     = "metric"
	SuggestionTimebox    = "timebox"
	SuggestionBreakdown  = "breakdown"
	SuggestionReuse      = "reuse"
	SuggestionUnblock    = "unblock"
	SuggestionFollowUp   = "follow-up"
	SuggestionValidation = "validation"
)

// SuggestionKinds is the closed set of valid suggestion kinds.
var SuggestionKinds = []string{
	SuggestionClarify,
	SuggestionMetric,
	SuggestionTimebox,
	SuggestionBreakdown,
	SuggestionReuse,
	SuggestionUnblock,
	SuggestionFollowUp,
	SuggestionValidation,
}

// ValidSuggestionKind reports whether k belongs to the closed kind set.
func ValidSuggestionKind(k string) bool {
	for _, v := range SuggestionKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Suggestion is an ephemeral advisory item. The optional fields carry
// proposed values for the matching clarity field and are populated only
// when the suggestion proposes them.
type Suggestion struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
	Kind      string `json:"kind" enum:"clarify,metric,timebox,breakdown,reuse,unblock,follow-up,validation"`
	Outcome   string `json:"outcome,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Horizon   string `json:"horizon,omitempty"`
}

// Focus action types: finish an in-progress action, start a todo action, or
// create a proposed new action (no id).
const (
	FocusFinish = "finish"
	FocusStart  = "start"
	FocusCreate = "create"
)

// FocusAction is the single action chosen for a focus goal. ID is set for
// finish/start (it references an existing action) and omitted for create.
type FocusAction struct {
	Type  string `json:"type" enum:"finish,start,create"`
	ID    *int   `json:"id,omitempty"`
	Title string `json:"title"`
}

// FocusItem pairs a goal with the one action to take on it today.
type FocusItem struct {
	GoalID    int         `json:"goal_id"`
	GoalTitle string      `json:"goal_title"`
	Action    FocusAction `json:"action"`
	WhyNow    string      `json:"why_now"`
}

// Briefing is the daily briefing output. Focus holds at most two items; an
// empty Focus with a no-goals headline is a valid terminal output.
type Briefing struct {
	Greeting string      `json:"greeting"`
	Headline string      `json:"headline"`
	Focus    []FocusItem `json:"focus"`
	CTA      string      `json:"cta"`
}

// Event is one activity-log entry.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}
