package cli

import (
	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
	"github.com/DarrenMaxi/HTPSource/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [patch-id]",
	Short: "Show recorded ingestion runs",
	Long: `History lists past ingestion runs from the local run ledger,
newest first. With a patch id, only that patch's runs are shown.`,
	Example: `  htpack history
  htpack history team-x/my-patch --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: run.Base().Use(runner.RequireLedger()).Wrap(runHistory),
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	limit := flags.Int("limit")
	if err := flags.Err(); err != nil {
		return err
	}

	patchID := ""
	if len(args) > 0 {
		patchID = args[0]
	}

	runs, err := ctx.Ledger().History(patchID, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		PrintInfo("No recorded runs.")
		return nil
	}

	PrintHeader("Ingestion runs")
	for _, r := range runs {
		when := r.CreatedAt.Format("2006-01-02 15:04:05")
		switch r.Status {
		case ledger.StatusSucceeded:
			PrintSuccess("%s  %s %s  sha1=%s", when, r.PatchID, r.PatchVersion, r.PackageSHA1)
		default:
			PrintWarning("%s  %s %s  %s", when, r.PatchID, r.PatchVersion, r.Detail)
		}
	}
	return nil
}
