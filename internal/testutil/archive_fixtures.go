package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ArchiveFixture is a built submission archive plus the content it
// carries, for asserting against manifests and packages.
type ArchiveFixture struct {
	// Path is the zip file on disk
	Path string
	// Files maps archive-relative override paths to their content
	Files map[string][]byte
}

// ArchiveBuilder constructs submission zip archives on disk.
type ArchiveBuilder struct {
	t       *testing.T
	dir     string
	name    string
	topDir  string
	files   map[string][]byte
	entries map[string][]byte
	dirs    []string
}

// NewArchive starts building a submission archive. By default the
// archive holds a single overrides/ tree and nothing else.
func NewArchive(t *testing.T) *ArchiveBuilder {
	t.Helper()
	return &ArchiveBuilder{
		t:       t,
		dir:     t.TempDir(),
		name:    "submission.zip",
		topDir:  "overrides",
		files:   map[string][]byte{},
		entries: map[string][]byte{},
	}
}

// WithName sets the archive file name.
func (b *ArchiveBuilder) WithName(name string) *ArchiveBuilder {
	b.name = name
	return b
}

// WithTopDir replaces the overrides root directory name, for building
// archives with the wrong layout.
func (b *ArchiveBuilder) WithTopDir(dir string) *ArchiveBuilder {
	b.topDir = dir
	return b
}

// WithFile adds a file under the top directory. rel uses forward
// slashes.
func (b *ArchiveBuilder) WithFile(rel string, content []byte) *ArchiveBuilder {
	b.files[rel] = content
	return b
}

// WithRawEntry adds an entry with the exact given name, bypassing the
// top directory. Use it for stray root files.
func (b *ArchiveBuilder) WithRawEntry(name string, content []byte) *ArchiveBuilder {
	b.entries[name] = content
	return b
}

// WithDirEntry adds an explicit directory entry (name must end with a
// slash).
func (b *ArchiveBuilder) WithDirEntry(name string) *ArchiveBuilder {
	b.dirs = append(b.dirs, name)
	return b
}

// WithDefaultTree adds a small realistic override tree.
func (b *ArchiveBuilder) WithDefaultTree() *ArchiveBuilder {
	return b.
		WithFile("config/quests/chapter-1.snbt", []byte("{ title: \"第一章\" }\n")).
		WithFile("config/quests/chapter-2.snbt", []byte("{ title: \"第二章\" }\n")).
		WithFile("kubejs/assets/lang/zh_cn.json", []byte("{\"item.example\":\"示例\"}\n"))
}

// Build writes the zip and returns the fixture.
func (b *ArchiveBuilder) Build() *ArchiveFixture {
	b.t.Helper()

	path := filepath.Join(b.dir, b.name)
	f, err := os.Create(path)
	if err != nil {
		b.t.Fatalf("create archive %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range b.dirs {
		if _, err := zw.Create(name); err != nil {
			b.t.Fatalf("add dir entry %s: %v", name, err)
		}
	}
	for _, rel := range sortedKeys(b.files) {
		writeEntry(b.t, zw, b.topDir+"/"+rel, b.files[rel])
	}
	for _, name := range sortedKeys(b.entries) {
		writeEntry(b.t, zw, name, b.entries[name])
	}
	if err := zw.Close(); err != nil {
		b.t.Fatalf("close archive: %v", err)
	}

	return &ArchiveFixture{Path: path, Files: b.files}
}

func writeEntry(t *testing.T, zw *zip.Writer, name string, content []byte) {
	t.Helper()

	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("add entry %s: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("write entry %s: %v", name, err)
	}
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CorruptZip writes a file that is not a valid zip archive.
func CorruptZip(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(path, []byte("this is not a zip file"), 0o644); err != nil {
		t.Fatalf("write corrupt zip: %v", err)
	}
	return path
}
