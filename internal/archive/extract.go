// Package archive validates and extracts submitted override archives
// and writes distributable patch packages.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
)

// OverridesDir is the mandatory single root directory of a submitted
// archive.
const OverridesDir = "overrides"

// Submitted archives come from untrusted uploads, so extraction is
// bounded regardless of what the zip headers claim.
const (
	maxEntries    = 10000
	maxEntryBytes = int64(256) << 20
	maxTotalBytes = int64(1) << 30
)

// Extract opens the archive at archivePath, checks its root layout and
// unpacks it beneath destDir. destDir is recreated empty first and
// removed again if extraction fails, so a failed run never leaves a
// partial tree behind. Returns the path of the extracted overrides
// directory.
func Extract(archivePath, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrCorruptArchive, err)
	}
	defer zr.Close()

	if err := validateLayout(zr.File); err != nil {
		return "", err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return "", fmt.Errorf("clear extraction dir: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}

	if err := extractAll(&zr.Reader, destDir); err != nil {
		os.RemoveAll(destDir)
		return "", err
	}

	return filepath.Join(destDir, OverridesDir), nil
}

// validateLayout enforces the root-layout contract: the archive's top
// level is exactly one directory named overrides, case-sensitive.
func validateLayout(files []*zip.File) error {
	var roots []string
	seen := make(map[string]bool)
	overridesIsFile := false

	for _, f := range files {
		name := path.Clean(f.Name)
		if name == "." || name == "/" {
			continue
		}
		root, _, _ := strings.Cut(strings.TrimPrefix(name, "/"), "/")
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
		if name == OverridesDir && !f.FileInfo().IsDir() {
			overridesIsFile = true
		}
	}

	if len(roots) == 1 && roots[0] == OverridesDir && !overridesIsFile {
		return nil
	}
	if overridesIsFile {
		return &apperrors.StructureError{Found: []string{OverridesDir + " (a file, not a directory)"}}
	}
	return &apperrors.StructureError{Found: roots}
}

func extractAll(r *zip.Reader, destDir string) error {
	if len(r.File) > maxEntries {
		return fmt.Errorf("archive has %d entries, limit is %d", len(r.File), maxEntries)
	}

	var total int64
	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}

		info := f.FileInfo()
		switch {
		case info.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		case !info.Mode().IsRegular():
			// Symlinks and other special entries never become patch
			// content.
			continue
		}

		if info.Size() > maxEntryBytes {
			return fmt.Errorf("entry %s is %d bytes, limit is %d", f.Name, info.Size(), maxEntryBytes)
		}
		total += info.Size()
		if total > maxTotalBytes {
			return fmt.Errorf("archive exceeds %d uncompressed bytes", maxTotalBytes)
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %v", apperrors.ErrCorruptArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	// Cap the copy so a lying size header cannot bypass the limit
	// checks above.
	n, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		out.Close()
		return fmt.Errorf("%w: read entry %s: %v", apperrors.ErrCorruptArchive, f.Name, err)
	}
	if n > maxEntryBytes {
		out.Close()
		return fmt.Errorf("entry %s exceeds %d bytes", f.Name, maxEntryBytes)
	}
	return out.Close()
}

// safeJoin resolves an archive entry name beneath dir, rejecting
// absolute paths and traversal outside the extraction root.
func safeJoin(dir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	target := filepath.Join(dir, cleaned)
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the extraction root", name)
	}
	return target, nil
}
