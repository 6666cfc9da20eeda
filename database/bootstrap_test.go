package database

import (
	"path/filepath"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestOpenSQLite_CreatesPlanTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plan.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { closeDB(t, db) })

	if !db.Migrator().HasTable("plan") {
		t.Fatal("plan table missing")
	}
	if !db.Migrator().HasIndex("plan", "idx_plan_user_title") {
		t.Fatal("unique index missing")
	}
}

func TestOpenSQLite_KeepsLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anime_plan.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	if err := legacy.Exec(`CREATE TABLE plan (
		id INTEGER PRIMARY KEY,
		user_id INTEGER,
		title TEXT,
		watched INTEGER DEFAULT 0,
		UNIQUE(user_id, title)
	)`).Error; err != nil {
		t.Fatalf("create legacy: %v", err)
	}
	if err := legacy.Exec(`INSERT INTO plan (user_id, title) VALUES (1, 'Naruto')`).Error; err != nil {
		t.Fatalf("seed legacy: %v", err)
	}
	closeDB(t, legacy)

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { closeDB(t, db) })

	var n int64
	if err := db.Table("plan").Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("legacy rows lost, count = %d", n)
	}
}

func TestOpenSQLite_RejectsIncompatibleTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	if err := legacy.Exec(`CREATE TABLE plan (id INTEGER PRIMARY KEY, name TEXT)`).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	closeDB(t, legacy)

	if _, err := OpenSQLite(path); err == nil {
		t.Fatal("expected error for incompatible plan table")
	}
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()
}
