package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
)

const (
	AppDirName    = ".mytodo_app"
	TasksFileName = "tasks.json"
	ListsFileName = "lists.json"
	SQLiteName    = "mytodo.db"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

// Gateway loads and saves whole collections. Loads never fail: read or parse
// problems are logged and reported as empty collections.
type Gateway interface {
	LoadTasks() []model.Task
	SaveTasks(tasks []model.Task) error
	LoadLists() []model.List
	SaveLists(lists []model.List) error
	Close() error
}

// Error describes a failed read or write of a persisted collection.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DefaultDataDir is <home>/.mytodo_app.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, AppDirName), nil
}

func EnsureDataDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("storage: empty data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Op: "create", Path: dir, Err: err}
	}
	return nil
}

// Open builds the gateway for backend rooted at dir.
func Open(backend, dir string, log *zap.Logger) (Gateway, error) {
	if err := EnsureDataDir(dir); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		g, err := NewFileGateway(dir, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	case BackendSQLite:
		repo, err := OpenSQLite(filepath.Join(dir, SQLiteName), log)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
