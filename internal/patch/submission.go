package patch

import (
	"fmt"
	"strings"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
)

// DefaultTranslationType is assumed when a submission does not declare
// how the translation was produced.
const DefaultTranslationType = "manual"

// ModpackRef declares compatibility with one modpack distribution.
type ModpackRef struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Key returns the catalog key for the modpack, "{type}:{name}" with the
// type lowercased.
func (m ModpackRef) Key() string {
	return strings.ToLower(m.Type) + ":" + m.Name
}

// Submission is the validated input contract for one ingestion run.
// Whoever assembles it (CLI flags, the issue-form intake) owns filling
// the fields; Validate is the single gate before the pipeline touches
// the filesystem.
type Submission struct {
	PatchName        string
	PatchAuthor      string
	PatchVersion     string
	Description      string
	Changelog        string
	TranslationType  string
	Website          string
	PostInstallNotes string
	Modpacks         []ModpackRef
	ArchivePath      string
}

// Validate normalizes the submission in place and reports the first
// missing or malformed field.
func (s *Submission) Validate() error {
	s.PatchName = strings.TrimSpace(s.PatchName)
	s.PatchAuthor = strings.TrimSpace(s.PatchAuthor)
	s.PatchVersion = strings.TrimSpace(s.PatchVersion)
	s.TranslationType = strings.TrimSpace(s.TranslationType)
	if s.TranslationType == "" {
		s.TranslationType = DefaultTranslationType
	}

	if s.PatchName == "" {
		return apperrors.NewValidation("patchName", "is required")
	}
	if s.PatchAuthor == "" {
		return apperrors.NewValidation("patchAuthor", "is required")
	}
	if s.PatchVersion == "" {
		return apperrors.NewValidation("patchVersion", "is required")
	}
	if s.ArchivePath == "" {
		return apperrors.NewValidation("archivePath", "is required")
	}
	if len(s.Modpacks) == 0 {
		return apperrors.NewValidation("supportedModpacks", "must list at least one modpack")
	}
	for i, m := range s.Modpacks {
		if m.Type == "" || m.Name == "" || m.Version == "" {
			return apperrors.NewValidation(
				fmt.Sprintf("supportedModpacks[%d]", i),
				"needs type, name and version")
		}
	}
	return nil
}

// Identity derives the slug pair for this submission.
func (s *Submission) Identity() (Identity, error) {
	return NewIdentity(s.PatchAuthor, s.PatchName)
}
