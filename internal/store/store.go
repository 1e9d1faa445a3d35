// Package store persists the task snapshot and the reflection log as JSON
// files. The snapshot file is the single source of truth between
// invocations; concurrent writers are last-writer-wins by design.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"stride/internal/domain"
)

const (
	defaultDirName      = ".stride"
	tasksFileName       = "tasks.json"
	reflectionsFileName = "reflections.json"

	// EnvTasksFile overrides the snapshot path.
	EnvTasksFile = "STRIDE_TASKS_FILE"
	// EnvDataDir relocates the data directory.
	EnvDataDir = "STRIDE_DATA_DIR"
)

// DataDir resolves the data directory: explicit override, then the
// environment, then a fixed directory in the user's home.
func DataDir(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// TasksPath resolves the snapshot file path: explicit override, then the
// environment, then the default file inside the data directory.
func TasksPath(dataDir, override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvTasksFile); env != "" {
		return env
	}
	return filepath.Join(dataDir, tasksFileName)
}

// ReflectionsPath returns the reflection log path inside the data directory.
func ReflectionsPath(dataDir string) string {
	return filepath.Join(dataDir, reflectionsFileName)
}

// Snapshot loads and saves the full task collection.
type Snapshot struct {
	Path string
}

// Load reads the persisted task list. A missing or unreadable or corrupt
// file degrades to an empty collection: for this personal-scale tool,
// corrupt state is treated the same as no prior state.
func (s Snapshot) Load() []domain.Task {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}

// Save writes the full task collection, sorted by ascending id. The write
// goes through a temp file and rename so a crash cannot leave a truncated
// snapshot.
func (s Snapshot) Save(tasks []domain.Task) error {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// ReflectionLog loads and saves the append-only reflection collection.
type ReflectionLog struct {
	Path string
}

// Load reads all persisted reflections; missing or corrupt files degrade to
// an empty collection, same policy as the task snapshot.
func (l ReflectionLog) Load() []domain.Reflection {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil
	}
	var refs []domain.Reflection
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil
	}
	return refs
}

// Save writes the full reflection collection.
func (l ReflectionLog) Save(refs []domain.Reflection) error {
	if refs == nil {
		refs = []domain.Reflection{}
	}
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}
	tmp := l.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.Path)
}
