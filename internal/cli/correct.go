package cli

import (
	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
)

var correctCmd = &cobra.Command{
	Use:   "correct <patch-id>",
	Short: "Rewrite a patch's author or description",
	Long: `Correct rewrites the display author and/or description of an
existing patch in both its info.json and the catalog index. Version
history, packages and digests are never touched.`,
	Example: `  htpack correct team-x/my-patch --description "Fixed typo in description"
  htpack correct team-x/my-patch --author "Team X (renamed)"`,
	Args: cobra.ExactArgs(1),
	RunE: run.Repo().Wrap(runCorrect),
}

func init() {
	f := correctCmd.Flags()
	f.String("author", "", "replacement display author")
	f.String("description", "", "replacement description")

	rootCmd.AddCommand(correctCmd)
}

func runCorrect(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	author := flags.String("author")
	description := flags.String("description")
	if err := flags.Err(); err != nil {
		return err
	}

	res, err := ctx.Pipeline().Correct(ingest.CorrectParams{
		PatchID:     args[0],
		Author:      author,
		Description: description,
	})
	if err != nil {
		return err
	}

	PrintSuccess("Corrected %s", res.PatchID)
	if res.SummariesTouched > 0 {
		PrintInfo("  catalog entries updated: %d", res.SummariesTouched)
	} else {
		PrintWarning("patch has no catalog entries; only info.json was updated")
	}
	return nil
}
