package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
	"github.com/DarrenMaxi/HTPSource/internal/ghaction"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
	"github.com/DarrenMaxi/HTPSource/internal/intake"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Package a submitted patch and merge it into the catalog",
	Long: `Ingest validates a submitted override archive, builds its file
manifest, writes the versioned .htp package and merges the version into
the patch's info.json and the global index.json.

Submission metadata comes from an issue-form body file, from flags, or
both; flags win where they overlap. When GITHUB_OUTPUT is set, the
results are handed to the surrounding workflow as step outputs.`,
	Example: `  htpack ingest --archive patch.zip --issue-body body.md
  htpack ingest --archive patch.zip --name "My Patch" --author "Team X" \
      --patch-version v1.0.0 --modpack "CurseForge, PackA, 1.0"`,
	Args: cobra.NoArgs,
	RunE: run.Repo().Wrap(runIngest),
}

func init() {
	f := ingestCmd.Flags()
	f.String("archive", "", "path to the submitted override archive (required)")
	f.String("issue-body", "", "file containing the issue form body to parse")
	f.String("name", "", "patch name")
	f.String("author", "", "patch author or team")
	f.String("patch-version", "", "version being published")
	f.String("description", "", "patch description")
	f.String("changelog", "", "changelog for this version")
	f.String("translation-type", "", "how the translation was produced (defaults to manual)")
	f.String("website", "", "project website")
	f.String("post-install-notes", "", "notes shown after installation")
	f.StringArray("modpack", nil, `supported modpack as "Type, Name, Version" (repeatable, overrides the form list)`)
	_ = ingestCmd.MarkFlagRequired("archive")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	sub, err := submissionFromFlags(cmd)
	if err != nil {
		return err
	}

	res, err := ctx.Pipeline().Run(sub)
	if err != nil {
		return err
	}

	PrintSuccess("Published %s %s", res.PatchID, res.PatchVersion)
	PrintInfo("  package: %s", res.PackagePath)
	PrintInfo("  sha1:    %s", res.PackageSHA1)
	PrintInfo("  files:   %d", res.FileCount)

	if out := ghaction.FromEnv(); out != nil {
		if err := emitOutputs(out, res); err != nil {
			return fmt.Errorf("write step outputs: %w", err)
		}
	}
	return nil
}

// submissionFromFlags assembles the submission, starting from the
// issue-form body when one is given and layering explicit flags on top.
func submissionFromFlags(cmd *cobra.Command) (*patch.Submission, error) {
	flags := runner.Flags(cmd)
	archivePath := flags.String("archive")
	bodyFile := flags.String("issue-body")
	name := flags.String("name")
	author := flags.String("author")
	version := flags.String("patch-version")
	description := flags.String("description")
	changelog := flags.String("changelog")
	translationType := flags.String("translation-type")
	website := flags.String("website")
	notes := flags.String("post-install-notes")
	modpacks := flags.StringArray("modpack")
	if err := flags.Err(); err != nil {
		return nil, err
	}

	sub := &patch.Submission{}
	if bodyFile != "" {
		body, err := os.ReadFile(bodyFile)
		if err != nil {
			return nil, fmt.Errorf("read issue body: %w", err)
		}
		sub, err = intake.ParseIssueBody(string(body))
		if err != nil {
			return nil, err
		}
	}

	if name != "" {
		sub.PatchName = name
	}
	if author != "" {
		sub.PatchAuthor = author
	}
	if version != "" {
		sub.PatchVersion = version
	}
	if description != "" {
		sub.Description = description
	}
	if changelog != "" {
		sub.Changelog = changelog
	}
	if translationType != "" {
		sub.TranslationType = translationType
	}
	if website != "" {
		sub.Website = website
	}
	if notes != "" {
		sub.PostInstallNotes = notes
	}
	if len(modpacks) > 0 {
		sub.Modpacks = nil
		for _, line := range modpacks {
			ref, ok := intake.ParseModpackLine(line)
			if !ok {
				return nil, fmt.Errorf("invalid --modpack value %q, want \"Type, Name, Version\"", line)
			}
			sub.Modpacks = append(sub.Modpacks, ref)
		}
	}
	sub.ArchivePath = archivePath

	return sub, nil
}

func emitOutputs(out *ghaction.Outputs, res *ingest.Result) error {
	outputs := []struct{ name, value string }{
		{"patch_id", res.PatchID},
		{"patch_name", res.PatchName},
		{"patch_version", res.PatchVersion},
		{"patch_author", res.PatchAuthor},
		{"package_sha1", res.PackageSHA1},
		{"package_path", res.PackagePath},
	}
	for _, o := range outputs {
		if err := out.Set(o.name, o.value); err != nil {
			return err
		}
	}
	return nil
}
