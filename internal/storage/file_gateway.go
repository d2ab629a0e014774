package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
)

// FileGateway keeps tasks in a JSON array file and lists in a line file,
// both inside one data directory.
type FileGateway struct {
	tasksPath string
	listsPath string
	log       *zap.Logger
}

func NewFileGateway(dir string, log *zap.Logger) (*FileGateway, error) {
	if err := EnsureDataDir(dir); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileGateway{
		tasksPath: filepath.Join(dir, TasksFileName),
		listsPath: filepath.Join(dir, ListsFileName),
		log:       log,
	}, nil
}

func (g *FileGateway) TasksPath() string { return g.tasksPath }
func (g *FileGateway) ListsPath() string { return g.listsPath }

func (g *FileGateway) LoadTasks() []model.Task { return LoadTasks(g.tasksPath, g.log) }

func (g *FileGateway) SaveTasks(tasks []model.Task) error {
	return SaveTasks(g.tasksPath, tasks, g.log)
}

func (g *FileGateway) LoadLists() []model.List { return LoadLists(g.listsPath, g.log) }

func (g *FileGateway) SaveLists(lists []model.List) error {
	return SaveLists(g.listsPath, lists, g.log)
}

func (g *FileGateway) Close() error { return nil }

// LoadTasks reads a JSON array of tasks. A missing or unparsable file yields
// an empty slice.
func LoadTasks(path string, log *zap.Logger) []model.Task {
	log = orNop(log)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("tasks file not found", zap.String("path", path))
		} else {
			log.Error("read tasks failed", zap.String("path", path), zap.Error(err))
		}
		return []model.Task{}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Task{}
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		log.Error("parse tasks failed", zap.String("path", path), zap.Error(err))
		return []model.Task{}
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == "" {
			t.Priority = model.PriorityNormal
		}
		out = append(out, t)
	}
	log.Debug("tasks loaded", zap.String("path", path), zap.Int("count", len(out)))
	return out
}

// SaveTasks writes tasks as an indented JSON array. Records without a title
// are placeholders and are never written.
func SaveTasks(path string, tasks []model.Task, log *zap.Logger) error {
	log = orNop(log)
	toSave := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			log.Warn("skipping task without title")
			continue
		}
		toSave = append(toSave, t)
	}
	payload, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := writeFileAtomic(path, append(payload, '\n')); err != nil {
		log.Error("save tasks failed", zap.String("path", path), zap.Error(err))
		return err
	}
	log.Debug("tasks saved", zap.String("path", path), zap.Int("count", len(toSave)))
	return nil
}

// LoadLists reads one "name|iconPath" list per line, skipping blank lines.
func LoadLists(path string, log *zap.Logger) []model.List {
	log = orNop(log)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("lists file not found", zap.String("path", path))
		} else {
			log.Error("read lists failed", zap.String("path", path), zap.Error(err))
		}
		return []model.List{}
	}
	defer f.Close()

	out := make([]model.List, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, icon, _ := strings.Cut(line, "|")
		if strings.TrimSpace(name) == "" {
			log.Warn("skipping list without name", zap.String("path", path))
			continue
		}
		item := model.List{Name: name}
		if strings.TrimSpace(icon) != "" {
			item.IconPath = model.StringPtr(icon)
		}
		out = append(out, item)
	}
	if err := scanner.Err(); err != nil {
		log.Error("scan lists failed", zap.String("path", path), zap.Error(err))
		return []model.List{}
	}
	log.Debug("lists loaded", zap.String("path", path), zap.Int("count", len(out)))
	return out
}

func SaveLists(path string, lists []model.List, log *zap.Logger) error {
	log = orNop(log)
	var b bytes.Buffer
	for _, l := range lists {
		if err := l.Validate(); err != nil {
			log.Error("refusing to save list", zap.String("path", path), zap.Error(err))
			return &Error{Op: "write", Path: path, Err: err}
		}
		b.WriteString(l.Name)
		b.WriteByte('|')
		b.WriteString(l.Icon())
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(path, b.Bytes()); err != nil {
		log.Error("save lists failed", zap.String("path", path), zap.Error(err))
		return err
	}
	log.Debug("lists saved", zap.String("path", path), zap.Int("count", len(lists)))
	return nil
}

func writeFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &Error{Op: "write", Path: path, Err: err}
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
