package cli

import (
	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the catalog state of the repository",
	Args:  cobra.NoArgs,
	RunE:  run.Repo().Wrap(runStatus),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	idx, err := ctx.Store().LoadIndex()
	if err != nil {
		return err
	}

	PrintHeader("Catalog status")
	PrintInfo("Repository:   %s", ctx.Config.RepoRoot)
	PrintInfo("Patches:      %d", idx.PatchCount())
	PrintInfo("Modpack keys: %d", len(idx.Patches))
	if idx.LastUpdated != "" {
		PrintInfo("Last updated: %s", idx.LastUpdated)
	}

	for _, key := range idx.Keys() {
		PrintInfo("")
		PrintInfo("%s:", key)
		for _, s := range idx.Patches[key] {
			PrintInfo("  %-30s %s (%s)", s.PatchID, s.LatestVersion, s.Author)
		}
	}
	return nil
}
