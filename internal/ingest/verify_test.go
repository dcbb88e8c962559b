package ingest_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
	"github.com/DarrenMaxi/HTPSource/internal/integrity"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/testutil"
)

func TestVerify(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)
	publish(t, repo, func(b *testutil.SubmissionBuilder) { b.WithVersion("v1.1.0") })

	results, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "team-x/my-patch"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "v1.1.0", results[0].PatchVersion, "record order, newest first")
	assert.Equal(t, "v1.0.0", results[1].PatchVersion)
	for _, r := range results {
		assert.Equal(t, 3, r.Files)
		assert.FileExists(t, r.PackagePath)
	}
}

func TestVerifySingleVersion(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)
	publish(t, repo, func(b *testutil.SubmissionBuilder) { b.WithVersion("v1.1.0") })

	results, err := repo.Pipeline().Verify(ingest.VerifyParams{
		PatchID: "team-x/my-patch",
		Version: "v1.0.0",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v1.0.0", results[0].PatchVersion)
}

func TestVerifyUnknownVersion(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{
		PatchID: "team-x/my-patch",
		Version: "v9.9.9",
	})
	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}

func TestVerifyUnknownPatch(t *testing.T) {
	repo := testutil.NewRepo(t)

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "nobody/nothing"})
	assert.ErrorIs(t, err, apperrors.ErrPatchNotFound)
}

func TestVerifyReplacedPackage(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)

	id, _ := patch.ParseID("team-x/my-patch")
	pkgPath := repo.Store.PackagePath(id, "v1.0.0")
	require.NoError(t, os.WriteFile(pkgPath, []byte("swapped out"), 0o644))

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "team-x/my-patch"})
	assert.ErrorIs(t, err, apperrors.ErrDigestMismatch,
		"package digest must match the recorded download digest")
}

func TestVerifyTamperedEntry(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)

	// Rewrite one override inside the package while leaving the embedded
	// manifest alone, then point the recorded download digest at the new
	// file so only the inner check can catch it.
	id, _ := patch.ParseID("team-x/my-patch")
	pkgPath := repo.Store.PackagePath(id, "v1.0.0")
	rewritePackage(t, pkgPath, func(name string, data []byte) ([]byte, bool) {
		if name == "overrides/config/quests/chapter-1.snbt" {
			return []byte("{ title: \"tampered\" }\n"), true
		}
		return data, true
	})
	fixRecordedDigest(t, repo, id, pkgPath)

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "team-x/my-patch"})
	assert.ErrorIs(t, err, apperrors.ErrDigestMismatch)
	assert.ErrorContains(t, err, "chapter-1.snbt")
}

func TestVerifyMissingEntry(t *testing.T) {
	repo := testutil.NewRepo(t)
	publish(t, repo)

	id, _ := patch.ParseID("team-x/my-patch")
	pkgPath := repo.Store.PackagePath(id, "v1.0.0")
	rewritePackage(t, pkgPath, func(name string, data []byte) ([]byte, bool) {
		return data, name != "overrides/kubejs/assets/lang/zh_cn.json"
	})
	fixRecordedDigest(t, repo, id, pkgPath)

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "team-x/my-patch"})
	assert.ErrorContains(t, err, "no such entry")
}

func TestVerifyBadPatchID(t *testing.T) {
	repo := testutil.NewRepo(t)

	_, err := repo.Pipeline().Verify(ingest.VerifyParams{PatchID: "Team X"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// rewritePackage rebuilds the zip at path, passing each entry through
// transform; returning keep=false drops the entry.
func rewritePackage(t *testing.T, path string, transform func(name string, data []byte) ([]byte, bool)) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)

	tmp := filepath.Join(t.TempDir(), "rewritten.zip")
	out, err := os.Create(tmp)
	require.NoError(t, err)
	zw := zip.NewWriter(out)

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)

		data, keep := transform(f.Name, data)
		if !keep {
			continue
		}
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	require.NoError(t, zr.Close())
	require.NoError(t, os.Rename(tmp, path))
}

// fixRecordedDigest updates the direct download digest in info.json to
// match the package file on disk.
func fixRecordedDigest(t *testing.T, repo *testutil.RepoFixture, id patch.Identity, pkgPath string) {
	t.Helper()

	digest, err := integrity.FileSHA1(pkgPath)
	require.NoError(t, err)

	rec, err := repo.Store.LoadRecord(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	for i := range rec.Versions {
		for j := range rec.Versions[i].Downloads {
			rec.Versions[i].Downloads[j].SHA1 = digest
		}
	}
	require.NoError(t, repo.Store.SaveRecord(id, rec))
}
