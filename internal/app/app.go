// Package app wires one invocation: config, storage paths, the activity
// database, and the engines. Both the CLI and the HTTP server build an App
// per logical operation; the snapshot file is the source of truth between
// invocations.
package app

import (
	"database/sql"
	"fmt"
	"time"

	"stride/internal/advisor"
	"stride/internal/config"
	"stride/internal/db"
	"stride/internal/events"
	"stride/internal/migrate"
	"stride/internal/reflection"
	"stride/internal/store"
	"stride/internal/tracker"
)

// Options are the caller-level overrides, usually from flags or env.
type Options struct {
	DataDir   string
	TasksFile string
}

// App holds everything one operation needs.
type App struct {
	Config      *config.Config
	DataDir     string
	Snapshot    store.Snapshot
	Reflections *reflection.Store
	Events      *events.Writer
	Advisor     *advisor.Advisor

	conn *sql.DB
}

// New resolves paths, loads the config, opens the activity database, and
// builds the engines. Callers must Close.
func New(opts Options) (*App, error) {
	dataDir := store.DataDir(opts.DataDir)
	if err := store.EnsureDataDir(dataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg, err := config.LoadOptional(dataDir)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.DataDir != "" && opts.DataDir == "" {
		dataDir = cfg.Storage.DataDir
		if err := store.EnsureDataDir(dataDir); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}

	tasksFile := opts.TasksFile
	if tasksFile == "" {
		tasksFile = cfg.Storage.TasksFile
	}

	a := &App{
		Config:   cfg,
		DataDir:  dataDir,
		Snapshot: store.Snapshot{Path: store.TasksPath(dataDir, tasksFile)},
		Reflections: &reflection.Store{
			Log: store.ReflectionLog{Path: store.ReflectionsPath(dataDir)},
		},
		Advisor: &advisor.Advisor{},
	}

	if cfg.Assist.Enabled {
		provider, err := advisor.NewOllamaProvider(cfg.Assist.Host, cfg.Assist.Model)
		if err == nil {
			a.Advisor.Provider = provider
			a.Advisor.Timeout = time.Duration(cfg.Assist.TimeoutSeconds) * time.Second
		}
		// a broken assist config degrades to the deterministic path
	}

	conn, err := db.Open(db.Config{DataDir: dataDir})
	if err == nil {
		if err := migrate.Migrate(conn); err == nil {
			a.conn = conn
			a.Events = &events.Writer{DB: conn}
		} else {
			conn.Close()
		}
	}
	// without the activity db, a.Events stays nil and appends no-op

	return a, nil
}

// LoadTracker reconstructs the task model from the snapshot file.
func (a *App) LoadTracker() *tracker.Tracker {
	return tracker.FromSnapshot(a.Snapshot.Load())
}

// SaveTracker writes the full snapshot back.
func (a *App) SaveTracker(tr *tracker.Tracker) error {
	return a.Snapshot.Save(tr.List())
}

// Close releases the activity database.
func (a *App) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
