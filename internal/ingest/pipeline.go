// Package ingest orchestrates the patch ingestion pipeline: validate,
// extract, manifest, package, then merge the version record and the
// catalog index under the repository lock.
package ingest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/DarrenMaxi/HTPSource/internal/archive"
	"github.com/DarrenMaxi/HTPSource/internal/catalog"
	"github.com/DarrenMaxi/HTPSource/internal/config"
	"github.com/DarrenMaxi/HTPSource/internal/ledger"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/manifest"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
	"github.com/DarrenMaxi/HTPSource/internal/store"
)

// DirectDownloadName labels the raw-file download every merged version
// gets.
const DirectDownloadName = "GitHub Raw"

// Pipeline runs ingestion against one repository. The ledger is
// optional; a nil ledger just skips run history.
type Pipeline struct {
	cfg    *config.Config
	store  *store.Store
	ledger *ledger.Ledger
	now    func() time.Time
}

// New assembles a pipeline.
func New(cfg *config.Config, st *store.Store, led *ledger.Ledger) *Pipeline {
	return &Pipeline{cfg: cfg, store: st, ledger: led, now: time.Now}
}

// Result carries the side outputs handed to the publishing workflow.
type Result struct {
	RunID        string
	PatchID      string
	PatchName    string
	PatchVersion string
	PatchAuthor  string
	PackagePath  string
	PackageSHA1  string
	FileCount    int
}

// Run ingests one submission. Stages run strictly in order and nothing
// durable is written until the whole merge value is in memory, so a
// failed run leaves no partial state. Re-running the same submission is
// safe.
func (p *Pipeline) Run(sub *patch.Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	id, err := sub.Identity()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logging.Info("Starting ingestion",
		logging.String("run_id", runID),
		logging.String("patch_id", id.ID()),
		logging.String("version", sub.PatchVersion))

	res, err := p.run(runID, id, sub)
	p.recordRun(runID, id, sub, res, err)
	if err != nil {
		return nil, err
	}

	logging.Info("Ingestion complete",
		logging.String("run_id", runID),
		logging.String("package", res.PackagePath),
		logging.String("sha1", res.PackageSHA1))
	return res, nil
}

func (p *Pipeline) run(runID string, id patch.Identity, sub *patch.Submission) (*Result, error) {
	scratch, cleanup := p.scratchDir(runID)
	defer cleanup()

	overridesRoot, err := archive.Extract(sub.ArchivePath, scratch)
	if err != nil {
		return nil, err
	}
	logging.Debug("Extracted override tree", logging.String("root", overridesRoot))

	m, err := manifest.Build(overridesRoot, sub, p.cfg.UpdateInfoURL(id))
	if err != nil {
		return nil, err
	}
	logging.Info("Built file manifest", logging.Int("files", len(m.FileManifest)))

	pkgName := id.PackageFileName(sub.PatchVersion)
	pkgPath := p.store.PackagePath(id, sub.PatchVersion)
	digest, err := archive.WritePackage(m, overridesRoot, pkgPath)
	if err != nil {
		return nil, err
	}
	logging.Info("Wrote package",
		logging.String("path", pkgPath),
		logging.String("sha1", digest))

	now := p.now()
	entry := record.NewEntry(sub, now, []record.Download{{
		Type: record.DownloadTypeDirect,
		Name: DirectDownloadName,
		URL:  p.cfg.DownloadURL(id, pkgName),
		SHA1: digest,
	}})

	err = p.store.WithLock(p.cfg.LockTimeout, func() error {
		existing, err := p.store.LoadRecord(id)
		if err != nil {
			return err
		}
		rec := record.Merge(existing, id, sub, entry)
		if err := p.store.SaveRecord(id, rec); err != nil {
			return err
		}
		logging.Info("Updated version record",
			logging.String("path", p.store.InfoPath(id)),
			logging.Int("versions", len(rec.Versions)))

		idx, err := p.store.LoadIndex()
		if err != nil {
			return err
		}
		next := catalog.Merge(idx, id, catalog.NewSummary(id, rec, sub.TranslationType), sub.Modpacks, now)
		if err := p.store.SaveIndex(next); err != nil {
			return err
		}
		logging.Info("Updated catalog index", logging.Int("modpacks", len(sub.Modpacks)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:        runID,
		PatchID:      id.ID(),
		PatchName:    sub.PatchName,
		PatchVersion: sub.PatchVersion,
		PatchAuthor:  sub.PatchAuthor,
		PackagePath:  pkgPath,
		PackageSHA1:  digest,
		FileCount:    len(m.FileManifest),
	}, nil
}

// scratchDir picks the run-scoped extraction directory and its cleanup.
// KEEP_SCRATCH leaves the tree behind for debugging a rejected
// submission.
func (p *Pipeline) scratchDir(runID string) (string, func()) {
	base := p.cfg.ScratchDir
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "htpack-"+runID)

	cleanup := func() {
		if p.cfg.KeepScratch {
			logging.Info("Keeping scratch directory", logging.String("path", dir))
			return
		}
		if err := os.RemoveAll(dir); err != nil {
			logging.Warn("Failed to remove scratch directory",
				logging.String("path", dir), logging.Err(err))
		}
	}
	return dir, cleanup
}

func (p *Pipeline) recordRun(runID string, id patch.Identity, sub *patch.Submission, res *Result, runErr error) {
	if p.ledger == nil {
		return
	}

	run := &ledger.Run{
		RunID:        runID,
		PatchID:      id.ID(),
		PatchVersion: sub.PatchVersion,
		Status:       ledger.StatusSucceeded,
	}
	if runErr != nil {
		run.Status = ledger.StatusFailed
		run.Detail = runErr.Error()
	} else {
		run.PackageSHA1 = res.PackageSHA1
		run.PackagePath = res.PackagePath
	}

	if err := p.ledger.Record(run); err != nil {
		logging.Warn("Failed to record run in ledger", logging.Err(err))
	}
}
