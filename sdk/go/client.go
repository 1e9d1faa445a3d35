// Package stridesdk is a minimal Stride HTTP API client. Every endpoint
// returns the {ok,value}/{ok,error} envelope; the client unwraps it and
// surfaces failures as *APIError.
package stridesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Stride API server.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "v1",
		Timeout:  10 * time.Second,
	}
}

// Task mirrors the API task model.
type Task struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Outcome  string `json:"outcome,omitempty"`
	Metric   string `json:"metric,omitempty"`
	Horizon  string `json:"horizon,omitempty"`
	ParentID *int   `json:"parent_id,omitempty"`
	Kind     string `json:"kind"`
}

// Suggestion mirrors the API suggestion model.
type Suggestion struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
	Kind      string `json:"kind"`
	Outcome   string `json:"outcome,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Horizon   string `json:"horizon,omitempty"`
}

// FocusAction is the chosen action inside a briefing focus item.
type FocusAction struct {
	Type  string `json:"type"`
	ID    *int   `json:"id,omitempty"`
	Title string `json:"title"`
}

// FocusItem pairs a goal with today's action for it.
type FocusItem struct {
	GoalID    int         `json:"goal_id"`
	GoalTitle string      `json:"goal_title"`
	Action    FocusAction `json:"action"`
	WhyNow    string      `json:"why_now"`
}

// Briefing mirrors the API briefing model.
type Briefing struct {
	Greeting string      `json:"greeting"`
	Headline string      `json:"headline"`
	Focus    []FocusItem `json:"focus"`
	CTA      string      `json:"cta"`
}

// Answer is one prompt answer inside a reflection.
type Answer struct {
	PromptID string `json:"prompt_id"`
	Value    string `json:"value"`
}

// Reflection mirrors the API reflection model.
type Reflection struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at"`
	GoalID    int      `json:"goal_id"`
	ActionID  *int     `json:"action_id,omitempty"`
	Signals   []string `json:"signals,omitempty"`
	Note      string   `json:"note,omitempty"`
	Answers   []Answer `json:"answers,omitempty"`
}

// CreateTaskOptions are the optional create-task fields.
type CreateTaskOptions struct {
	ParentID *int
	Kind     string
	Outcome  string
	Metric   string
	Horizon  string
}

// APIError wraps a failed envelope or a non-JSON error response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value"`
	Err   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateTask creates a goal or action.
func (c *Client) CreateTask(ctx context.Context, title string, opts CreateTaskOptions) (Task, error) {
	body := map[string]any{"title": title}
	if opts.ParentID != nil {
		body["parent_id"] = *opts.ParentID
	}
	if opts.Kind != "" {
		body["kind"] = opts.Kind
	}
	if opts.Outcome != "" {
		body["outcome"] = opts.Outcome
	}
	if opts.Metric != "" {
		body["metric"] = opts.Metric
	}
	if opts.Horizon != "" {
		body["horizon"] = opts.Horizon
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "tasks", body, &resp)
	return resp, err
}

// ListTasks returns tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]Task, error) {
	endpoint := "tasks"
	if status != "" {
		endpoint += "?status=" + status
	}
	var resp []Task
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id int) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tasks/%d", id), nil, &resp)
	return resp, err
}

// PatchTask merge-patches the clarity fields. Nil leaves a field alone; a
// pointer to "" clears it.
func (c *Client) PatchTask(ctx context.Context, id int, outcome, metric, horizon *string) (Task, error) {
	body := map[string]any{}
	if outcome != nil {
		body["outcome"] = *outcome
	}
	if metric != nil {
		body["metric"] = *metric
	}
	if horizon != nil {
		body["horizon"] = *horizon
	}
	var resp Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("tasks/%d", id), body, &resp)
	return resp, err
}

// StartTask moves a task to in-progress.
func (c *Client) StartTask(ctx context.Context, id int) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("tasks/%d/start", id), nil, &resp)
	return resp, err
}

// CompleteTask moves a task to done.
func (c *Client) CompleteTask(ctx context.Context, id int) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("tasks/%d/complete", id), nil, &resp)
	return resp, err
}

// Suggestions returns suggestions for a task.
func (c *Client) Suggestions(ctx context.Context, id int) ([]Suggestion, error) {
	var resp []Suggestion
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tasks/%d/suggestions", id), nil, &resp)
	return resp, err
}

// DailyBriefing returns the briefing, optionally personalized.
func (c *Client) DailyBriefing(ctx context.Context, name string) (Briefing, error) {
	endpoint := "briefing"
	if name != "" {
		endpoint += "?name=" + name
	}
	var resp Briefing
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// AddReflection appends a reflection.
func (c *Client) AddReflection(ctx context.Context, goalID int, signals []string, note string) (Reflection, error) {
	body := map[string]any{"goal_id": goalID}
	if len(signals) > 0 {
		body["signals"] = signals
	}
	if note != "" {
		body["note"] = note
	}
	var resp Reflection
	err := c.do(ctx, http.MethodPost, "reflections", body, &resp)
	return resp, err
}

// ListReflections returns reflections for a goal within the window.
func (c *Client) ListReflections(ctx context.Context, goalID, days int) ([]Reflection, error) {
	endpoint := "reflections"
	sep := "?"
	if goalID > 0 {
		endpoint += fmt.Sprintf("%sgoal_id=%d", sep, goalID)
		sep = "&"
	}
	if days > 0 {
		endpoint += fmt.Sprintf("%sdays=%d", sep, days)
	}
	var resp []Reflection
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Reset replaces all tasks with the seed data.
func (c *Client) Reset(ctx context.Context) ([]Task, error) {
	var resp []Task
	err := c.do(ctx, http.MethodPost, "reset", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.Trim(c.BasePath, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Code: "DECODE", Message: err.Error()}
	}
	if !env.OK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Err != nil {
			apiErr.Code = env.Err.Code
			apiErr.Message = env.Err.Message
		}
		return apiErr
	}
	if out != nil && len(env.Value) > 0 {
		return json.Unmarshal(env.Value, out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
