package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"stride/internal/domain"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "llama3.2"

// OllamaProvider talks to a local Ollama server. Any transport or decode
// failure is returned as-is; the Advisor absorbs it.
type OllamaProvider struct {
	Model  string
	client *api.Client
}

// NewOllamaProvider builds a provider against host, or against the
// OLLAMA_HOST environment when host is empty.
func NewOllamaProvider(host, model string) (*OllamaProvider, error) {
	if model == "" {
		model = DefaultModel
	}
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		return &OllamaProvider{Model: model, client: client}, nil
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama host %q: %w", host, err)
	}
	return &OllamaProvider{Model: model, client: api.NewClient(u, http.DefaultClient)}, nil
}

// generateJSON runs a single non-streaming generation in JSON mode and
// decodes the response into out.
func (p *OllamaProvider) generateJSON(ctx context.Context, prompt string, out any) error {
	stream := false
	req := &api.GenerateRequest{
		Model:  p.Model,
		Prompt: prompt,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}
	var buf strings.Builder
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		buf.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama generate: %w", err)
	}
	if err := json.Unmarshal([]byte(buf.String()), out); err != nil {
		return fmt.Errorf("ollama response: %w", err)
	}
	return nil
}

// Suggestions asks the model for suggestions in the engine's schema.
func (p *OllamaProvider) Suggestions(ctx context.Context, task domain.Task, all []domain.Task) ([]domain.Suggestion, error) {
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	allJSON, err := json.Marshal(all)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`You are a pragmatic personal-productivity coach.
Given this task:
%s
and the full task list:
%s
Respond with JSON only: {"suggestions":[{"title":"...","rationale":"...","kind":"...","outcome":"...","metric":"...","horizon":"..."}]}.
Allowed kinds: %s. Return 1 to 4 items, exactly one of kind "validation".
Omit outcome/metric/horizon unless you propose a concrete value.`,
		taskJSON, allJSON, strings.Join(domain.SuggestionKinds, ", "))

	var parsed struct {
		Suggestions []domain.Suggestion `json:"suggestions"`
	}
	if err := p.generateJSON(ctx, prompt, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("ollama response: no suggestions")
	}
	return parsed.Suggestions, nil
}

// Briefing asks the model for a briefing in the engine's schema.
func (p *OllamaProvider) Briefing(ctx context.Context, tasks []domain.Task, reflections []domain.Reflection, userName string) (domain.Briefing, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return domain.Briefing{}, err
	}
	reflJSON, err := json.Marshal(reflections)
	if err != nil {
		return domain.Briefing{}, err
	}
	name := userName
	if name == "" {
		name = "the user"
	}
	prompt := fmt.Sprintf(`You are a pragmatic personal-productivity coach writing a daily briefing for %s.
Tasks:
%s
Recent reflections:
%s
Respond with JSON only: {"greeting":"...","headline":"...","focus":[{"goal_id":1,"goal_title":"...","action":{"type":"finish|start|create","id":1,"title":"..."},"why_now":"..."}],"cta":"..."}.
At most 2 focus items. For "finish" and "start" the id must be an existing action id; for "create" omit the id.`,
		name, tasksJSON, reflJSON)

	var parsed domain.Briefing
	if err := p.generateJSON(ctx, prompt, &parsed); err != nil {
		return domain.Briefing{}, err
	}
	return parsed, nil
}
