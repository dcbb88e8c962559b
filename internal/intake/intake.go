// Package intake parses GitHub issue-form submissions into the typed
// Submission the pipeline consumes. It is a boundary package: nothing
// in the core imports it, and it performs no network I/O since the
// surrounding workflow has already downloaded the archive.
package intake

import (
	"strings"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

// noResponse is what the issue form substitutes for untouched optional
// fields.
const noResponse = "_No response_"

// headingFields maps normalized form headings to submission fields. The
// form ids themselves are accepted too, so a reworded template stays
// parseable as long as ids are stable.
var headingFields = map[string]string{
	"patch name":         "patchName",
	"patchname":          "patchName",
	"patch version":      "patchVersion",
	"patchversion":       "patchVersion",
	"author":             "patchAuthor",
	"patch author":       "patchAuthor",
	"author / team":      "patchAuthor",
	"patchauthor":        "patchAuthor",
	"description":        "description",
	"patch description":  "description",
	"translation type":   "translationType",
	"translationtype":    "translationType",
	"supported modpacks": "supportedModpacks",
	"supportedmodpacks":  "supportedModpacks",
	"changelog":          "changelog",
	"website":            "website",
	"post-install notes": "postInstallNotes",
	"postinstallnotes":   "postInstallNotes",
}

// ParseIssueBody converts an issue-form body into a Submission. The
// archive location is not part of the form; the caller supplies it
// separately before validation.
func ParseIssueBody(body string) (*patch.Submission, error) {
	fields := parseSections(body)
	if len(fields) == 0 {
		return nil, apperrors.NewValidation("issueBody", "contains no recognizable form sections")
	}

	sub := &patch.Submission{
		PatchName:        fields["patchName"],
		PatchAuthor:      fields["patchAuthor"],
		PatchVersion:     fields["patchVersion"],
		Description:      fields["description"],
		Changelog:        fields["changelog"],
		TranslationType:  fields["translationType"],
		Website:          fields["website"],
		PostInstallNotes: fields["postInstallNotes"],
		Modpacks:         ParseModpackList(fields["supportedModpacks"]),
	}
	return sub, nil
}

// parseSections splits the body into "### Heading" sections and keeps
// the ones whose heading maps to a known field. Code-fence markers and
// the no-response placeholder are dropped.
func parseSections(body string) map[string]string {
	fields := make(map[string]string)

	var field string
	var value []string
	flush := func() {
		if field != "" {
			fields[field] = strings.Join(value, "\n")
		}
		field = ""
		value = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if heading, ok := strings.CutPrefix(strings.TrimSpace(line), "### "); ok {
			flush()
			field = headingFields[normalizeHeading(heading)]
			continue
		}
		if field == "" {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == noResponse || strings.HasPrefix(trimmed, "```") {
			continue
		}
		value = append(value, trimmed)
	}
	flush()

	return fields
}

func normalizeHeading(heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = strings.TrimSuffix(h, " (optional)")
	return strings.TrimSpace(h)
}

// ParseModpackList parses one "Type, Name, Version" declaration per
// line. Malformed lines are logged and skipped; whether zero valid
// entries is acceptable is the submission validator's call.
func ParseModpackList(text string) []patch.ModpackRef {
	var packs []patch.ModpackRef
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ref, ok := ParseModpackLine(line)
		if !ok {
			logging.Warn("Skipping malformed modpack line", logging.String("line", line))
			continue
		}
		packs = append(packs, ref)
	}
	return packs
}

// ParseModpackLine parses a single "Type, Name, Version" declaration.
func ParseModpackLine(line string) (patch.ModpackRef, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return patch.ModpackRef{}, false
	}
	ref := patch.ModpackRef{
		Type:    strings.TrimSpace(parts[0]),
		Name:    strings.TrimSpace(parts[1]),
		Version: strings.TrimSpace(parts[2]),
	}
	if ref.Type == "" || ref.Name == "" || ref.Version == "" {
		return patch.ModpackRef{}, false
	}
	return ref, true
}
