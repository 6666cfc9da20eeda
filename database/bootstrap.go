package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"animeplan/entities"
	"animeplan/pkg/logging"
)

// OpenSQLite opens (creating if needed) the database file and makes sure the
// plan table exists.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := migratePlan(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// migratePlan creates the plan table when absent. A table created by an
// older build (plain CREATE TABLE with UNIQUE(user_id, title)) is kept as is
// after checking it has every column we query.
func migratePlan(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='plan'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		return db.AutoMigrate(&entities.PlanEntry{})
	}

	type colInfo struct {
		Cid       int
		Name      string
		Type      string
		NotNull   int
		DfltValue sql.NullString
		Pk        int
	}
	var cols []colInfo
	if err := db.Raw(`PRAGMA table_info(plan)`).Scan(&cols).Error; err != nil {
		return fmt.Errorf("table_info: %w", err)
	}
	have := map[string]bool{}
	for _, c := range cols {
		have[strings.ToLower(c.Name)] = true
	}
	for _, want := range []string{"id", "user_id", "title", "watched"} {
		if !have[want] {
			return fmt.Errorf("existing plan table lacks column %q", want)
		}
	}

	// the unique pair is what makes add idempotent; older tables already carry it
	// as a table constraint, in which case this index is redundant but harmless.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_plan_user_title ON plan(user_id, title)`).Error; err != nil {
		return fmt.Errorf("ensure unique index: %w", err)
	}
	logging.Info().Int("columns", len(cols)).Msg("[db] reusing existing plan table")
	return nil
}
