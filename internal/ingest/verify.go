package ingest

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"github.com/DarrenMaxi/HTPSource/internal/archive"
	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/integrity"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/manifest"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
)

// VerifyParams selects what to verify. An empty Version checks every
// version in the record.
type VerifyParams struct {
	PatchID string
	Version string
}

// VerifyResult summarizes one verified package file.
type VerifyResult struct {
	PatchVersion string
	PackagePath  string
	Files        int
}

// Verify re-checks published packages against their recorded digests:
// the package file against the download digest in info.json, and every
// override file inside the package against the embedded manifest.
func (p *Pipeline) Verify(params VerifyParams) ([]VerifyResult, error) {
	id, err := patch.ParseID(params.PatchID)
	if err != nil {
		return nil, err
	}

	rec, err := p.store.LoadRecord(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.ErrPatchNotFound
	}

	entries := rec.Versions
	if params.Version != "" {
		entry, ok := rec.Find(params.Version)
		if !ok {
			return nil, apperrors.ErrVersionNotFound
		}
		entries = []record.VersionEntry{entry}
	}

	results := make([]VerifyResult, 0, len(entries))
	for _, entry := range entries {
		res, err := p.verifyVersion(id, entry)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", entry.PatchVersion, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) verifyVersion(id patch.Identity, entry record.VersionEntry) (VerifyResult, error) {
	pkgPath := p.store.PackagePath(id, entry.PatchVersion)

	for _, d := range entry.Downloads {
		if d.Type != record.DownloadTypeDirect || d.SHA1 == "" {
			continue
		}
		if err := integrity.VerifyFile(pkgPath, d.SHA1); err != nil {
			return VerifyResult{}, err
		}
	}

	files, err := verifyPackage(pkgPath)
	if err != nil {
		return VerifyResult{}, err
	}

	logging.Info("Package verified",
		logging.String("path", pkgPath),
		logging.Int("files", files))
	return VerifyResult{
		PatchVersion: entry.PatchVersion,
		PackagePath:  pkgPath,
		Files:        files,
	}, nil
}

// verifyPackage checks the embedded manifest against the package's own
// entries and returns the number of files covered.
func verifyPackage(pkgPath string) (int, error) {
	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrCorruptArchive, err)
	}
	defer zr.Close()

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	mf := byName[manifest.FileName]
	if mf == nil {
		return 0, fmt.Errorf("package has no embedded %s", manifest.FileName)
	}
	rc, err := mf.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: open manifest: %v", apperrors.ErrCorruptArchive, err)
	}
	m, err := manifest.Decode(rc)
	rc.Close()
	if err != nil {
		return 0, err
	}

	for _, fr := range m.FileManifest {
		name := path.Join(archive.OverridesDir, string(fr.Path))
		zf := byName[name]
		if zf == nil {
			return 0, fmt.Errorf("manifest lists %s but the package has no such entry", name)
		}

		rc, err := zf.Open()
		if err != nil {
			return 0, fmt.Errorf("%w: open entry %s: %v", apperrors.ErrCorruptArchive, name, err)
		}
		digest, err := integrity.SHA1(rc)
		rc.Close()
		if err != nil {
			return 0, err
		}
		if !strings.EqualFold(digest, fr.PatchedSHA1) {
			return 0, fmt.Errorf("%w: %s: recorded %s, computed %s",
				apperrors.ErrDigestMismatch, name, fr.PatchedSHA1, digest)
		}
	}

	return len(m.FileManifest), nil
}
