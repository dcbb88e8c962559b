// Package ledger keeps a local history of ingestion runs in SQLite.
// It is advisory: the durable catalog state lives in the JSON files,
// and a ledger failure never fails a run.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Run status values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded ingestion attempt.
type Run struct {
	gorm.Model
	RunID        string `gorm:"uniqueIndex"`
	PatchID      string `gorm:"index"`
	PatchVersion string
	PackageSHA1  string
	PackagePath  string
	Status       string
	Detail       string
}

// Ledger wraps the SQLite database holding run history.
type Ledger struct {
	db *gorm.DB
}

// Open opens the ledger at path, creating and migrating it as needed.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	db, err := gorm.Open(gormlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record stores one run.
func (l *Ledger) Record(run *Run) error {
	return l.db.Create(run).Error
}

// History returns recorded runs, newest first, optionally filtered by
// patch id. A limit of zero or less means no limit.
func (l *Ledger) History(patchID string, limit int) ([]Run, error) {
	q := l.db.Order("created_at DESC, id DESC")
	if patchID != "" {
		q = q.Where("patch_id = ?", patchID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
