package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/DarrenMaxi/HTPSource/internal/integrity"
	"github.com/DarrenMaxi/HTPSource/internal/manifest"
)

// WritePackage bundles the manifest and the override tree into a single
// zip package at outPath: the manifest as first entry, then every file
// under overrides/ preserving its relative layout so an installer can
// apply the tree directly. An existing file at outPath is overwritten.
// Returns the SHA-1 digest of the finished file.
func WritePackage(m *manifest.Manifest, overridesRoot, outPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create package dir: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create package: %w", err)
	}

	zw := zip.NewWriter(out)
	if err := writeEntries(zw, m, overridesRoot); err != nil {
		zw.Close()
		out.Close()
		os.Remove(outPath)
		return "", err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("finalize package: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("close package: %w", err)
	}

	return integrity.FileSHA1(outPath)
}

func writeEntries(zw *zip.Writer, m *manifest.Manifest, overridesRoot string) error {
	data, err := m.EncodeJSON()
	if err != nil {
		return err
	}
	w, err := zw.Create(manifest.FileName)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	return filepath.WalkDir(overridesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(overridesRoot, p)
		if err != nil {
			return err
		}
		name := path.Join(OverridesDir, filepath.ToSlash(rel))

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		return err
	})
}
