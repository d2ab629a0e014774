package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/mytodo/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db, nil)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	if err := repo.SaveTasks([]model.Task{{Title: "Roundtrip task", Priority: model.PriorityNormal}}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got := repo.LoadTasks()
	if len(got) != 1 || got[0].Title != "Roundtrip task" {
		t.Fatalf("unexpected tasks after roundtrip: %#v", got)
	}
}
