package cli

import (
	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <patch-id>",
	Short: "Re-check published packages against their recorded digests",
	Long: `Verify re-hashes a patch's published .htp packages: the package
file against the digest recorded in info.json, and every override file
inside the package against the embedded manifest.`,
	Example: `  htpack verify team-x/my-patch
  htpack verify team-x/my-patch --patch-version v1.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: run.Repo().Wrap(runVerify),
}

func init() {
	verifyCmd.Flags().String("patch-version", "", "verify only this version")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	version := flags.String("patch-version")
	if err := flags.Err(); err != nil {
		return err
	}

	results, err := ctx.Pipeline().Verify(ingest.VerifyParams{
		PatchID: args[0],
		Version: version,
	})
	if err != nil {
		return err
	}

	for _, res := range results {
		PrintSuccess("%s %s verified (%d files)", args[0], res.PatchVersion, res.Files)
	}
	return nil
}
