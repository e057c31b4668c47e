package cli

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [manifest paths...]",
	Short: "Verify generated files are up to date",
	Long: `Run the full generation pipeline without writing anything, then compare
the result against the files on disk. Stale or missing files are reported
with a diff and the command exits non-zero.

Intended for CI, next to a committed generated tree:
  kindgen check -o gen manifests`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("out", "o", "", "output root holding the generated files")
	checkCmd.Flags().Int("workers", 0, "number of concurrent synthesis workers")
	checkCmd.Flags().Bool("strict", false, "treat synthesis warnings as errors")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, true)
	if err != nil {
		return err
	}
	return runApp(cmd, cfg)
}
