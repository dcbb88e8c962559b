package testutil

import (
	"testing"

	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

// SubmissionBuilder constructs submissions with realistic defaults.
type SubmissionBuilder struct {
	sub patch.Submission
}

// NewSubmission starts building a submission. Defaults describe a
// plausible translated patch for one modpack; override what the test
// cares about.
func NewSubmission(t *testing.T) *SubmissionBuilder {
	t.Helper()
	return &SubmissionBuilder{sub: patch.Submission{
		PatchName:    "My Patch",
		PatchAuthor:  "Team X",
		PatchVersion: "v1.0.0",
		Description:  "Full quest translation",
		Changelog:    "Initial release",
		Modpacks: []patch.ModpackRef{
			{Type: "CurseForge", Name: "PackA", Version: "1.0"},
		},
	}}
}

// WithName sets the patch name.
func (b *SubmissionBuilder) WithName(name string) *SubmissionBuilder {
	b.sub.PatchName = name
	return b
}

// WithAuthor sets the patch author.
func (b *SubmissionBuilder) WithAuthor(author string) *SubmissionBuilder {
	b.sub.PatchAuthor = author
	return b
}

// WithVersion sets the submitted version.
func (b *SubmissionBuilder) WithVersion(version string) *SubmissionBuilder {
	b.sub.PatchVersion = version
	return b
}

// WithDescription sets the description.
func (b *SubmissionBuilder) WithDescription(description string) *SubmissionBuilder {
	b.sub.Description = description
	return b
}

// WithChangelog sets the changelog.
func (b *SubmissionBuilder) WithChangelog(changelog string) *SubmissionBuilder {
	b.sub.Changelog = changelog
	return b
}

// WithTranslationType sets the translation type.
func (b *SubmissionBuilder) WithTranslationType(tt string) *SubmissionBuilder {
	b.sub.TranslationType = tt
	return b
}

// WithWebsite sets the project website.
func (b *SubmissionBuilder) WithWebsite(url string) *SubmissionBuilder {
	b.sub.Website = url
	return b
}

// WithModpacks replaces the supported modpack list.
func (b *SubmissionBuilder) WithModpacks(refs ...patch.ModpackRef) *SubmissionBuilder {
	b.sub.Modpacks = refs
	return b
}

// WithArchive sets the archive path, usually from an ArchiveFixture.
func (b *SubmissionBuilder) WithArchive(path string) *SubmissionBuilder {
	b.sub.ArchivePath = path
	return b
}

// Build returns the submission.
func (b *SubmissionBuilder) Build() *patch.Submission {
	sub := b.sub
	sub.Modpacks = append([]patch.ModpackRef(nil), b.sub.Modpacks...)
	return &sub
}
