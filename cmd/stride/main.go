package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stride/internal/app"
	"stride/internal/boundary"
	"stride/internal/domain"
	"stride/internal/events"
	"stride/internal/reflection"
	"stride/internal/server"
	"stride/internal/store"
	"stride/internal/suggest"
	"stride/internal/tracker"
)

var rootCmd = &cobra.Command{
	Use:           "stride",
	Short:         "Personal goal and action tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	initConfig()
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("STRIDE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory (default ~/.stride)")
	rootCmd.PersistentFlags().String("tasks-file", "", "task snapshot file (default <data-dir>/tasks.json)")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("tasks-file", rootCmd.PersistentFlags().Lookup("tasks-file"))
}

func registerCommands() {
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(patchCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(briefCmd())
	rootCmd.AddCommand(reflectCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

// withApp builds one App for the invocation and tears it down after.
func withApp(fn func(*app.App) error) error {
	a, err := app.New(app.Options{
		DataDir:   viper.GetString("data-dir"),
		TasksFile: viper.GetString("tasks-file"),
	})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// unwrap turns a failed Result into a CLI error.
func unwrap[T any](res boundary.Result[T]) (T, error) {
	if !res.OK {
		var zero T
		return zero, fmt.Errorf("%s: %s", res.Err.Code, res.Err.Message)
	}
	return res.Value, nil
}

func addCmd() *cobra.Command {
	var parent int
	var kind, outcome, metric, horizon string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal or action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				opts := tracker.AddOptions{Kind: kind, Outcome: outcome, Metric: metric, Horizon: horizon}
				if parent > 0 {
					if _, err := tr.Get(parent); err != nil {
						return err
					}
					opts.ParentID = &parent
				}
				t, err := unwrap(boundary.Facade{Tracker: tr}.AddTask(args[0], opts))
				if err != nil {
					return err
				}
				if err := a.SaveTracker(tr); err != nil {
					return err
				}
				a.Events.Append(cmd.Context(), events.TypeTaskCreated, "task", strconv.Itoa(t.ID),
					events.Payload{"title": t.Title, "kind": t.Kind})
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().IntVar(&parent, "parent", 0, "parent goal id")
	cmd.Flags().StringVar(&kind, "kind", "", "goal or action (default derived from --parent)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "what done looks like")
	cmd.Flags().StringVar(&metric, "metric", "", "how progress is measured")
	cmd.Flags().StringVar(&horizon, "horizon", "", "timeframe")
	return cmd
}

func listCmd() *cobra.Command {
	var status string
	var parent int
	var tree bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				tasks := tr.List()
				if tree {
					printForest(tasks)
					return nil
				}
				if status != "" {
					tasks = keep(tasks, func(t domain.Task) bool { return t.Status == status })
				}
				if parent > 0 {
					tasks = keep(tasks, func(t domain.Task) bool { return t.ParentID != nil && *t.ParentID == parent })
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Kind", "Clarity"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Kind, fmt.Sprintf("%d%%", t.ClarityScore())})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (todo, in-progress, done)")
	cmd.Flags().IntVar(&parent, "parent", 0, "filter by parent goal id")
	cmd.Flags().BoolVar(&tree, "tree", false, "render goals with their actions")
	return cmd
}

func patchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Update the clarity fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id %q is not an integer", args[0])
			}
			var p tracker.Patch
			if cmd.Flags().Changed("outcome") {
				v, _ := cmd.Flags().GetString("outcome")
				p.Outcome = &v
			}
			if cmd.Flags().Changed("metric") {
				v, _ := cmd.Flags().GetString("metric")
				p.Metric = &v
			}
			if cmd.Flags().Changed("horizon") {
				v, _ := cmd.Flags().GetString("horizon")
				p.Horizon = &v
			}
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				t, err := unwrap(boundary.Facade{Tracker: tr}.UpdateTask(id, p))
				if err != nil {
					return err
				}
				if err := a.SaveTracker(tr); err != nil {
					return err
				}
				a.Events.Append(cmd.Context(), events.TypeTaskUpdated, "task", args[0], nil)
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().String("outcome", "", "what done looks like (empty clears)")
	cmd.Flags().String("metric", "", "how progress is measured (empty clears)")
	cmd.Flags().String("horizon", "", "timeframe (empty clears)")
	return cmd
}

func startCmd() *cobra.Command {
	return transitionCmd("start", "Start a task", events.TypeTaskStarted,
		func(f boundary.Facade, id int) boundary.Result[domain.Task] { return f.StartTask(id) })
}

func doneCmd() *cobra.Command {
	return transitionCmd("done", "Complete a task", events.TypeTaskCompleted,
		func(f boundary.Facade, id int) boundary.Result[domain.Task] { return f.CompleteTask(id) })
}

func transitionCmd(use, short, evtType string, op func(boundary.Facade, int) boundary.Result[domain.Task]) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id %q is not an integer", args[0])
			}
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				t, err := unwrap(op(boundary.Facade{Tracker: tr}, id))
				if err != nil {
					return err
				}
				if err := a.SaveTracker(tr); err != nil {
					return err
				}
				a.Events.Append(cmd.Context(), evtType, "task", args[0],
					events.Payload{"status": t.Status})
				return printJSONOrTable(t)
			})
		},
	}
}

func suggestCmd() *cobra.Command {
	var add int
	cmd := &cobra.Command{
		Use:   "suggest <id>",
		Short: "Suggestions for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id %q is not an integer", args[0])
			}
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				task, err := tr.Get(id)
				if err != nil {
					return err
				}
				goalID := task.ID
				if task.ParentID != nil {
					goalID = *task.ParentID
				}
				opts := suggest.Options{Signals: a.Reflections.RecentSignals(&goalID)}
				list := a.Advisor.Suggestions(cmd.Context(), task, tr.List(), opts)

				if add > 0 {
					if add > len(list) {
						return fmt.Errorf("suggestion %d of %d does not exist", add, len(list))
					}
					s := list[add-1]
					t, err := unwrap(boundary.Facade{Tracker: tr}.AddTask(s.Title, tracker.AddOptions{
						ParentID: &goalID,
						Outcome:  s.Outcome,
						Metric:   s.Metric,
						Horizon:  s.Horizon,
					}))
					if err != nil {
						return err
					}
					if err := a.SaveTracker(tr); err != nil {
						return err
					}
					a.Events.Append(cmd.Context(), events.TypeTaskCreated, "task", strconv.Itoa(t.ID),
						events.Payload{"title": t.Title, "from_suggestion": s.Kind})
					return printJSONOrTable(t)
				}

				if viper.GetBool("json") {
					return printJSON(list)
				}
				for i, s := range list {
					fmt.Printf("%d. [%s] %s\n   %s\n", i+1, s.Kind, s.Title, s.Rationale)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&add, "add", 0, "add suggestion <n> as a new action under the goal")
	return cmd
}

func briefCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Daily briefing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				userName := name
				if userName == "" {
					userName = a.Config.User.Name
				}
				tr := a.LoadTracker()
				refl := a.Reflections.List(reflection.Filter{})
				b := a.Advisor.Briefing(cmd.Context(), tr.List(), refl, userName)
				if viper.GetBool("json") {
					return printJSON(b)
				}
				fmt.Println(b.Greeting)
				fmt.Println(b.Headline)
				for _, f := range b.Focus {
					fmt.Printf("- %s: %s %q\n  %s\n", f.GoalTitle, f.Action.Type, f.Action.Title, f.WhyNow)
				}
				fmt.Println(b.CTA)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name used in the greeting")
	return cmd
}

func reflectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Record and review reflections",
	}
	cmd.AddCommand(reflectAddCmd())
	cmd.AddCommand(reflectListCmd())
	return cmd
}

func reflectAddCmd() *cobra.Command {
	var goal, action int
	var signals []string
	var note string
	var answers []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a reflection",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := reflection.Input{GoalID: goal, Signals: signals, Note: note}
			if action > 0 {
				in.ActionID = &action
			}
			for _, raw := range answers {
				promptID, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("answer %q must be <prompt_id>=<value>", raw)
				}
				in.Answers = append(in.Answers, domain.Answer{PromptID: promptID, Value: value})
			}
			return withApp(func(a *app.App) error {
				tr := a.LoadTracker()
				if _, err := tr.Get(goal); err != nil {
					return err
				}
				r, err := unwrap(a.Reflections.Append(in))
				if err != nil {
					return err
				}
				a.Events.Append(cmd.Context(), events.TypeReflectionAdded, "reflection", r.ID,
					events.Payload{"goal_id": r.GoalID})
				return printJSONOrTable(r)
			})
		},
	}
	cmd.Flags().IntVar(&goal, "goal", 0, "goal id (required)")
	cmd.Flags().IntVar(&action, "action", 0, "action id")
	cmd.Flags().StringArrayVar(&signals, "signal", nil, "signal, repeatable: "+strings.Join(domain.Signals, ", "))
	cmd.Flags().StringVar(&note, "note", "", "free-form note, up to 140 characters")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "prompt answer as <prompt_id>=<value>, repeatable")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func reflectListCmd() *cobra.Command {
	var goal, action, days int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent reflections",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := reflection.Filter{SinceDays: days}
			if goal > 0 {
				f.GoalID = &goal
			}
			if action > 0 {
				f.ActionID = &action
			}
			return withApp(func(a *app.App) error {
				return printJSONOrTable(a.Reflections.List(f))
			})
		},
	}
	cmd.Flags().IntVar(&goal, "goal", 0, "filter by goal id")
	cmd.Flags().IntVar(&action, "action", 0, "filter by action id")
	cmd.Flags().IntVar(&days, "days", 0, "window in days (default 14)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Tracker status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				todo, inProgress, done := a.LoadTracker().Counts()
				out := map[string]int{
					"todo": todo, "in_progress": inProgress, "done": done,
					"total": todo + inProgress + done,
				}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Todo", "In progress", "Done", "Total"})
				tw.AppendRow(table.Row{todo, inProgress, done, todo + inProgress + done})
				tw.Render()
				return nil
			})
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace all tasks with the seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards all tasks; re-run with --yes to confirm")
			}
			return withApp(func(a *app.App) error {
				seeded := store.Seed()
				if err := a.Snapshot.Save(seeded); err != nil {
					return err
				}
				a.Events.Append(cmd.Context(), events.TypeStoreReset, "store", "", nil)
				return printJSONOrTable(seeded)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Activity log",
	}
	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				evts, err := a.Events.Tail(cmd.Context(), n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(evts)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"TS", "Type", "Entity", "ID"})
				for _, e := range evts {
					tw.AppendRow(table.Row{e.TS, e.Type, e.EntityKind, e.EntityID})
				}
				tw.Render()
				return nil
			})
		},
	}
	tail.Flags().IntVarP(&n, "lines", "n", 20, "number of entries")
	cmd.AddCommand(tail)
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				handler, err := server.New(server.Config{App: a, BasePath: basePath})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-cmd.Context().Done()
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(ctx)
				}()
				fmt.Printf("Serving Stride API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v1", "API base path")
	return cmd
}

func keep(tasks []domain.Task, pred func(domain.Task) bool) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func printForest(tasks []domain.Task) {
	children := map[int][]domain.Task{}
	var roots []domain.Task
	for _, t := range tasks {
		if t.ParentID == nil {
			roots = append(roots, t)
		} else {
			children[*t.ParentID] = append(children[*t.ParentID], t)
		}
	}
	for _, g := range roots {
		fmt.Printf("%d. %s [%s]\n", g.ID, g.Title, g.Status)
		kids := children[g.ID]
		for i, c := range kids {
			connector := "├── "
			if i == len(kids)-1 {
				connector = "└── "
			}
			fmt.Printf("   %s%d. %s [%s]\n", connector, c.ID, c.Title, c.Status)
		}
	}
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
