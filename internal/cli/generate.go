package cli

import (
	"github.com/spf13/cobra"

	"github.com/specialistvlad/kindgen/internal/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate [manifest paths...]",
	Short: "Generate registry files from manifests",
	Long: `Load every manifest, synthesize a registry per family, and write the
generated Go files under the output root.

Manifest paths may be .hcl files or directories; directories are searched
recursively. With no paths, the current directory is used.

Examples:
  # Generate from the manifests directory into gen/
  kindgen generate -o gen manifests

  # Treat synthesis warnings as errors
  kindgen generate --strict manifests`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("out", "o", "", "output root for generated files")
	generateCmd.Flags().Int("workers", 0, "number of concurrent synthesis workers")
	generateCmd.Flags().Bool("strict", false, "treat synthesis warnings as errors")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}
	return runApp(cmd, cfg)
}

// runApp drives a configured generation run against the real filesystem.
// Logs and check-mode diffs share the command's output stream.
func runApp(cmd *cobra.Command, cfg *app.Config) error {
	a, err := app.NewApp(cmd.Context(), cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}
