package ingest

import (
	"github.com/DarrenMaxi/HTPSource/internal/catalog"
	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
)

// CorrectParams names the header fields the correction path may
// rewrite. Empty fields keep their current value.
type CorrectParams struct {
	PatchID     string
	Author      string
	Description string
}

// CorrectResult reports what a correction touched.
type CorrectResult struct {
	PatchID          string
	SummariesTouched int
}

// Correct rewrites the mutable header fields of a patch's version
// record and propagates them to its catalog summaries. Version history
// is never modified; that is the whole point of the separate path.
func (p *Pipeline) Correct(params CorrectParams) (*CorrectResult, error) {
	id, err := patch.ParseID(params.PatchID)
	if err != nil {
		return nil, err
	}
	if params.Author == "" && params.Description == "" {
		return nil, apperrors.NewValidation("correction", "needs an author or a description to apply")
	}

	res := &CorrectResult{PatchID: id.ID()}
	err = p.store.WithLock(p.cfg.LockTimeout, func() error {
		existing, err := p.store.LoadRecord(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.ErrPatchNotFound
		}

		fixed := record.ApplyCorrection(existing, params.Author, params.Description)
		if err := p.store.SaveRecord(id, fixed); err != nil {
			return err
		}

		idx, err := p.store.LoadIndex()
		if err != nil {
			return err
		}
		next, touched := catalog.ApplyCorrection(idx, id.ID(), params.Author, params.Description, p.now())
		if err := p.store.SaveIndex(next); err != nil {
			return err
		}
		res.SummariesTouched = touched
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Applied metadata correction",
		logging.String("patch_id", res.PatchID),
		logging.Int("summaries", res.SummariesTouched))
	return res, nil
}
