// Package patch defines the submission model and stable identifiers
// shared by the ingestion pipeline.
package patch

import (
	"path"
	"strings"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/slug"
)

// PackageExt is the file extension of distributable patch packages.
const PackageExt = ".htp"

// Identity is the slug pair derived once from the submitted author and
// patch names. Its ID is the sole cross-reference key between a version
// record and catalog entries.
type Identity struct {
	AuthorSlug string
	PatchSlug  string
}

// NewIdentity derives an Identity from free-text author and patch names.
// A name that reduces to an empty slug is a validation failure.
func NewIdentity(author, name string) (Identity, error) {
	a := slug.Make(author)
	if a == "" {
		return Identity{}, apperrors.NewValidation("patchAuthor", "does not reduce to a usable slug")
	}
	p := slug.Make(name)
	if p == "" {
		return Identity{}, apperrors.NewValidation("patchName", "does not reduce to a usable slug")
	}
	return Identity{AuthorSlug: a, PatchSlug: p}, nil
}

// ParseID parses a canonical "{authorSlug}/{patchSlug}" id. Both
// segments must already be in slug form.
func ParseID(s string) (Identity, error) {
	author, name, ok := strings.Cut(s, "/")
	if !ok || author == "" || name == "" ||
		author != slug.Make(author) || name != slug.Make(name) {
		return Identity{}, apperrors.NewValidation("patchId", "must be {authorSlug}/{patchSlug}")
	}
	return Identity{AuthorSlug: author, PatchSlug: name}, nil
}

// ID returns the canonical "{authorSlug}/{patchSlug}" patch id.
func (id Identity) ID() string {
	return id.AuthorSlug + "/" + id.PatchSlug
}

// Dir returns the patch directory as a posix path relative to the
// repository root.
func (id Identity) Dir() string {
	return path.Join("patches", id.AuthorSlug, id.PatchSlug)
}

// InfoRef returns the repository-relative info.json reference recorded
// in catalog summaries.
func (id Identity) InfoRef() string {
	return "./" + id.Dir() + "/info.json"
}

// PackageFileName returns the package file name for a version. Leading
// "v" prefixes are trimmed so tags like v1.2.0 and plain 1.2.0 land on
// the same file.
func (id Identity) PackageFileName(version string) string {
	return id.PatchSlug + "-" + strings.TrimLeft(version, "v") + PackageExt
}
