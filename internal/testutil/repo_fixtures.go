package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DarrenMaxi/HTPSource/internal/config"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
	"github.com/DarrenMaxi/HTPSource/internal/ledger"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/store"
)

// RepoFixture is a scratch catalog repository wired to a store and
// pipeline.
type RepoFixture struct {
	Root   string
	Config *config.Config
	Store  *store.Store
	Ledger *ledger.Ledger
}

// NewRepo creates an empty repository under t.TempDir(). The ledger is
// nil unless requested with NewRepoWithLedger.
func NewRepo(t *testing.T) *RepoFixture {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		RepoRoot:     root,
		RepoFullName: "DarrenMaxi/HTPSource",
		Branch:       "main",
		LedgerPath:   filepath.Join(root, ".htpack", "ledger.db"),
		LockTimeout:  time.Minute,
	}
	return &RepoFixture{
		Root:   root,
		Config: cfg,
		Store:  store.New(root),
	}
}

// NewRepoWithLedger creates a repository with an open run ledger.
func NewRepoWithLedger(t *testing.T) *RepoFixture {
	t.Helper()

	f := NewRepo(t)
	led, err := ledger.Open(f.Config.LedgerPath)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	f.Ledger = led
	return f
}

// Pipeline returns an ingestion pipeline against this repository.
func (f *RepoFixture) Pipeline() *ingest.Pipeline {
	return ingest.New(f.Config, f.Store, f.Ledger)
}

// InfoJSON reads and decodes the info.json of the given patch.
func (f *RepoFixture) InfoJSON(t *testing.T, id patch.Identity) map[string]any {
	t.Helper()
	return ReadJSONFile(t, f.Store.InfoPath(id))
}

// IndexJSON reads and decodes the catalog index.
func (f *RepoFixture) IndexJSON(t *testing.T) map[string]any {
	t.Helper()
	return ReadJSONFile(t, f.Store.IndexPath())
}
