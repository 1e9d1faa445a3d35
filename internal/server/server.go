// Package server exposes the tracker over HTTP. Every response, success or
// failure, is the {ok,value}/{ok,error} envelope; each request reloads the
// snapshot file, so the file stays the single source of truth.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"stride/internal/app"
	"stride/internal/boundary"
	"stride/internal/domain"
	"stride/internal/events"
	"stride/internal/reflection"
	"stride/internal/store"
	"stride/internal/suggest"
	"stride/internal/tracker"
)

// Config for the HTTP API handler.
type Config struct {
	App      *app.App
	BasePath string
}

// apiError models the failure envelope as a huma status error.
type apiError struct {
	status int
	OK     bool            `json:"ok"`
	Err    *boundary.Error `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Err.Message }

func statusFor(code boundary.Code) int {
	switch code {
	case boundary.CodeNotFound:
		return http.StatusNotFound
	case boundary.CodeInvalidTransition:
		return http.StatusConflict
	case boundary.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func failErr(be *boundary.Error) huma.StatusError {
	return &apiError{status: statusFor(be.Code), Err: be}
}

type resultOutput[T any] struct {
	Body boundary.Result[T]
}

func respond[T any](res boundary.Result[T]) (*resultOutput[T], error) {
	if !res.OK {
		return nil, failErr(res.Err)
	}
	return &resultOutput[T]{Body: res}, nil
}

// New returns an HTTP handler exposing the Stride API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			// Schema/request validation errors surface as VALIDATION
			status = http.StatusBadRequest
		}
		code := boundary.CodeValidation
		if status >= http.StatusInternalServerError {
			code = "INTERNAL"
		}
		return &apiError{status: status, Err: &boundary.Error{Code: code, Message: msg}}
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Stride API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerStatus(group, cfg.App)
	registerTasks(group, cfg.App)
	registerSuggestions(group, cfg.App)
	registerBriefing(group, cfg.App)
	registerReflections(group, cfg.App)
	registerReset(group, cfg.App)
	registerEvents(group, cfg.App)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerStatus(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Tracker status counts",
	}, func(ctx context.Context, _ *struct{}) (*resultOutput[StatusBody], error) {
		tr := a.LoadTracker()
		todo, inProgress, done := tr.Counts()
		return respond(boundary.OK(StatusBody{
			Todo:       todo,
			InProgress: inProgress,
			Done:       done,
			Total:      todo + inProgress + done,
		}))
	})
}

func registerTasks(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Status   string `query:"status"`
		ParentID string `query:"parent_id"`
	}) (*resultOutput[[]domain.Task], error) {
		tr := a.LoadTracker()
		tasks := tr.List()
		if input.Status != "" {
			tasks = filterByStatus(tasks, input.Status)
		}
		if input.ParentID != "" {
			pid, err := strconv.Atoi(input.ParentID)
			if err != nil {
				return nil, failErr(boundary.NewValidation(fmt.Sprintf("parent_id %q is not an integer", input.ParentID)))
			}
			tasks = filterByParent(tasks, pid)
		}
		return respond(boundary.OK(tasks))
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*resultOutput[domain.Task], error) {
		if strings.TrimSpace(input.Body.Title) == "" {
			return nil, failErr(boundary.NewValidation("title is required"))
		}
		tr := a.LoadTracker()
		if input.Body.ParentID != nil {
			if _, err := tr.Get(*input.Body.ParentID); err != nil {
				return nil, failErr(boundary.Classify(err))
			}
		}
		facade := boundary.Facade{Tracker: tr}
		res := facade.AddTask(input.Body.Title, tracker.AddOptions{
			ParentID: input.Body.ParentID,
			Kind:     input.Body.Kind,
			Outcome:  input.Body.Outcome,
			Metric:   input.Body.Metric,
			Horizon:  input.Body.Horizon,
		})
		if res.OK {
			if err := a.SaveTracker(tr); err != nil {
				return nil, huma.NewError(http.StatusInternalServerError, err.Error())
			}
			a.Events.Append(ctx, events.TypeTaskCreated, "task", strconv.Itoa(res.Value.ID),
				events.Payload{"title": res.Value.Title, "kind": res.Value.Kind})
		}
		return respond(res)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int `path:"id"`
	}) (*resultOutput[domain.Task], error) {
		facade := boundary.Facade{Tracker: a.LoadTracker()}
		return respond(facade.GetTask(input.ID))
	})

	huma.Register(api, huma.Operation{
		OperationID: "patch-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Patch clarity fields",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   int              `path:"id"`
		Body PatchTaskRequest `json:"body"`
	}) (*resultOutput[domain.Task], error) {
		tr := a.LoadTracker()
		facade := boundary.Facade{Tracker: tr}
		res := facade.UpdateTask(input.ID, tracker.Patch{
			Outcome: input.Body.Outcome,
			Metric:  input.Body.Metric,
			Horizon: input.Body.Horizon,
		})
		if res.OK {
			if err := a.SaveTracker(tr); err != nil {
				return nil, huma.NewError(http.StatusInternalServerError, err.Error())
			}
			a.Events.Append(ctx, events.TypeTaskUpdated, "task", strconv.Itoa(input.ID), nil)
		}
		return respond(res)
	})

	registerTransition(api, a, "start-task", "start", "Start task",
		events.TypeTaskStarted, func(f boundary.Facade, id int) boundary.Result[domain.Task] {
			return f.StartTask(id)
		})
	registerTransition(api, a, "complete-task", "complete", "Complete task",
		events.TypeTaskCompleted, func(f boundary.Facade, id int) boundary.Result[domain.Task] {
			return f.CompleteTask(id)
		})
}

func registerTransition(api huma.API, a *app.App, opID, verb, summary, evtType string,
	op func(boundary.Facade, int) boundary.Result[domain.Task]) {
	huma.Register(api, huma.Operation{
		OperationID: opID,
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/" + verb,
		Summary:     summary,
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID int `path:"id"`
	}) (*resultOutput[domain.Task], error) {
		tr := a.LoadTracker()
		res := op(boundary.Facade{Tracker: tr}, input.ID)
		if res.OK {
			if err := a.SaveTracker(tr); err != nil {
				return nil, huma.NewError(http.StatusInternalServerError, err.Error())
			}
			a.Events.Append(ctx, evtType, "task", strconv.Itoa(input.ID),
				events.Payload{"status": res.Value.Status})
		}
		return respond(res)
	})
}

func registerSuggestions(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "task-suggestions",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/suggestions",
		Summary:     "Suggestions for a task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int `path:"id"`
	}) (*resultOutput[[]domain.Suggestion], error) {
		tr := a.LoadTracker()
		task, err := tr.Get(input.ID)
		if err != nil {
			return nil, failErr(boundary.Classify(err))
		}
		goalID := task.ID
		if task.ParentID != nil {
			goalID = *task.ParentID
		}
		opts := suggest.Options{Signals: a.Reflections.RecentSignals(&goalID)}
		list := a.Advisor.Suggestions(ctx, task, tr.List(), opts)
		return respond(boundary.OK(list))
	})
}

func registerBriefing(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "briefing",
		Method:      http.MethodGet,
		Path:        "/briefing",
		Summary:     "Daily briefing",
	}, func(ctx context.Context, input *struct {
		Name string `query:"name"`
	}) (*resultOutput[domain.Briefing], error) {
		name := input.Name
		if name == "" {
			name = a.Config.User.Name
		}
		tr := a.LoadTracker()
		refl := a.Reflections.List(reflection.Filter{})
		b := a.Advisor.Briefing(ctx, tr.List(), refl, name)
		return respond(boundary.OK(b))
	})
}

func registerReflections(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-reflection",
		Method:        http.MethodPost,
		Path:          "/reflections",
		Summary:       "Append reflection",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateReflectionRequest `json:"body"`
	}) (*resultOutput[domain.Reflection], error) {
		tr := a.LoadTracker()
		if _, err := tr.Get(input.Body.GoalID); err != nil {
			return nil, failErr(boundary.Classify(err))
		}
		res := a.Reflections.Append(reflection.Input{
			GoalID:   input.Body.GoalID,
			ActionID: input.Body.ActionID,
			Signals:  input.Body.Signals,
			Note:     input.Body.Note,
			Answers:  input.Body.Answers,
		})
		if res.OK {
			a.Events.Append(ctx, events.TypeReflectionAdded, "reflection", res.Value.ID,
				events.Payload{"goal_id": res.Value.GoalID})
		}
		return respond(res)
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reflections",
		Method:      http.MethodGet,
		Path:        "/reflections",
		Summary:     "List reflections",
	}, func(ctx context.Context, input *struct {
		GoalID   *int `query:"goal_id"`
		ActionID *int `query:"action_id"`
		Days     int  `query:"days"`
	}) (*resultOutput[[]domain.Reflection], error) {
		list := a.Reflections.List(reflection.Filter{
			GoalID:    input.GoalID,
			ActionID:  input.ActionID,
			SinceDays: input.Days,
		})
		return respond(boundary.OK(list))
	})
}

func registerReset(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "reset",
		Method:      http.MethodPost,
		Path:        "/reset",
		Summary:     "Reset to seed data",
	}, func(ctx context.Context, _ *struct{}) (*resultOutput[[]domain.Task], error) {
		seeded := store.Seed()
		if err := a.Snapshot.Save(seeded); err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, err.Error())
		}
		a.Events.Append(ctx, events.TypeStoreReset, "store", "", nil)
		return respond(boundary.OK(seeded))
	})
}

func registerEvents(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Recent activity log",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"20"`
	}) (*resultOutput[[]domain.Event], error) {
		evts, err := a.Events.Tail(ctx, input.Limit)
		if err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, err.Error())
		}
		return respond(boundary.OK(evts))
	})
}

func filterByStatus(tasks []domain.Task, status string) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func filterByParent(tasks []domain.Task, parentID int) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Stride API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}
