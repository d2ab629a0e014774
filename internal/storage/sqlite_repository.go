package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
)

// SQLiteRepository is a Gateway over a single SQLite database. Each save
// replaces the whole collection inside one transaction.
type SQLiteRepository struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

func NewSQLiteRepository(db *sql.DB, log *zap.Logger) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := MigrateUp(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteRepository{db: db, log: orNop(log)}, nil
}

func OpenSQLite(path string, log *zap.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.path = path
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadTasks() []model.Task {
	tasks, err := r.listTasks(context.Background())
	if err != nil {
		r.log.Error("load tasks failed", zap.String("path", r.path), zap.Error(err))
		return []model.Task{}
	}
	return tasks
}

func (r *SQLiteRepository) listTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title, description, due_date, due_time, priority, completed, important, list_name
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveTasks(tasks []model.Task) error {
	err := r.replace(context.Background(), "tasks", func(tx *sql.Tx) error {
		position := 0
		for _, t := range tasks {
			if err := t.Validate(); err != nil {
				r.log.Warn("skipping invalid task", zap.String("title", t.Title), zap.Error(err))
				continue
			}
			_, err := tx.Exec(`
				INSERT INTO tasks (id, position, title, description, due_date, due_time, priority, completed, important, list_name)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), position, t.Title, t.Description,
				nullDate(t.DueDate), nullClock(t.DueTime), string(t.Priority),
				boolInt(t.Completed), boolInt(t.Important), nullString(t.ListName),
			)
			if err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		r.log.Error("save tasks failed", zap.String("path", r.path), zap.Error(err))
		return &Error{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

func (r *SQLiteRepository) LoadLists() []model.List {
	rows, err := r.db.Query(`SELECT name, icon_path FROM lists ORDER BY position ASC`)
	if err != nil {
		r.log.Error("load lists failed", zap.String("path", r.path), zap.Error(err))
		return []model.List{}
	}
	defer rows.Close()

	out := make([]model.List, 0)
	for rows.Next() {
		var item model.List
		var icon sql.NullString
		if err := rows.Scan(&item.Name, &icon); err != nil {
			r.log.Error("scan list failed", zap.Error(err))
			return []model.List{}
		}
		if icon.Valid && icon.String != "" {
			item.IconPath = model.StringPtr(icon.String)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("load lists failed", zap.String("path", r.path), zap.Error(err))
		return []model.List{}
	}
	return out
}

func (r *SQLiteRepository) SaveLists(lists []model.List) error {
	err := r.replace(context.Background(), "lists", func(tx *sql.Tx) error {
		for i, l := range lists {
			_, err := tx.Exec(`INSERT INTO lists (id, position, name, icon_path) VALUES (?, ?, ?, ?)`,
				uuid.NewString(), i, l.Name, nullString(l.IconPath))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("save lists failed", zap.String("path", r.path), zap.Error(err))
		return &Error{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

func (r *SQLiteRepository) replace(ctx context.Context, table string, fill func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := fill(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullDate(v *model.Date) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullClock(v *model.Clock) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var priority string
	var due, at, list sql.NullString
	var completed, important int
	if err := s.Scan(&out.Title, &out.Description, &due, &at, &priority, &completed, &important, &list); err != nil {
		return model.Task{}, err
	}
	if due.Valid && due.String != "" {
		d, err := model.ParseDate(due.String)
		if err != nil {
			return model.Task{}, err
		}
		out.DueDate = &d
	}
	if at.Valid && at.String != "" {
		c, err := model.ParseClock(at.String)
		if err != nil {
			return model.Task{}, err
		}
		out.DueTime = &c
	}
	p, err := model.ParsePriority(priority)
	if err != nil {
		return model.Task{}, err
	}
	out.Priority = p
	out.Completed = completed == 1
	out.Important = important == 1
	if list.Valid {
		out.ListName = model.StringPtr(list.String)
	}
	return out, nil
}
