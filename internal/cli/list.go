package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/kindgen/internal/app"
	"github.com/specialistvlad/kindgen/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list [manifest paths...]",
	Short: "List the families declared in manifests",
	Long: `Load and validate every manifest, then print a summary of each family
and its variants without generating anything.

The default text output is meant for humans; --format json or yaml emits a
machine-readable summary on stdout.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("format", "text", "output format: text, json or yaml")
}

// familySummary is the machine-readable shape of one declared family.
type familySummary struct {
	Name     string           `json:"name" yaml:"name"`
	Package  string           `json:"package" yaml:"package"`
	Base     string           `json:"base" yaml:"base"`
	Registry string           `json:"registry" yaml:"registry"`
	Policy   string           `json:"policy" yaml:"policy"`
	Lookups  []string         `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	Variants []variantSummary `json:"variants" yaml:"variants"`
}

type variantSummary struct {
	Name            string `json:"name" yaml:"name"`
	ID              int64  `json:"id" yaml:"id"`
	Type            string `json:"type,omitempty" yaml:"type,omitempty"`
	NonInstantiable bool   `json:"non_instantiable,omitempty" yaml:"non_instantiable,omitempty"`
	Excluded        bool   `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: must be 'text', 'json' or 'yaml'", format)
	}

	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}
	// Keep stdout clean for the summary itself; only errors reach the
	// terminal.
	cfg.LogLevel = "error"

	a, err := app.NewApp(cmd.Context(), os.Stderr, cfg)
	if err != nil {
		return err
	}

	summaries := summarize(a.Model())
	switch format {
	case "json":
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "yaml":
		data, err := yaml.Marshal(summaries)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		printSummaries(cmd, summaries)
	}
	return nil
}

func summarize(m *model.Model) []familySummary {
	summaries := make([]familySummary, 0, len(m.Families))
	for _, f := range m.Families {
		fs := familySummary{
			Name:     f.Name,
			Package:  f.Package,
			Base:     f.BaseType,
			Registry: f.RegistryTypeName(),
			Policy:   string(f.Policy),
		}
		for _, l := range f.Lookups {
			fs.Lookups = append(fs.Lookups, l.Property)
		}
		for _, v := range f.Variants {
			fs.Variants = append(fs.Variants, variantSummary{
				Name:            v.Name,
				ID:              v.ID,
				Type:            v.ConcreteType,
				NonInstantiable: v.NonInstantiable,
				Excluded:        !v.Include,
			})
		}
		summaries = append(summaries, fs)
	}
	return summaries
}

func printSummaries(cmd *cobra.Command, summaries []familySummary) {
	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "no families declared")
		return
	}
	for i, fs := range summaries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (package %s, base %s, policy %s)\n", fs.Name, fs.Package, fs.Base, fs.Policy)
		if len(fs.Lookups) > 0 {
			fmt.Fprintf(out, "  lookups: %s\n", strings.Join(fs.Lookups, ", "))
		}
		for _, v := range fs.Variants {
			var marks []string
			if v.NonInstantiable {
				marks = append(marks, "non-instantiable")
			}
			if v.Excluded {
				marks = append(marks, "excluded")
			}
			suffix := ""
			if len(marks) > 0 {
				suffix = " (" + strings.Join(marks, ", ") + ")"
			}
			fmt.Fprintf(out, "  %3d  %s%s\n", v.ID, v.Name, suffix)
		}
	}
}
