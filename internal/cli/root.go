package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specialistvlad/kindgen/internal/app"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "kindgen",
	Short: "Generate closed-family registries from HCL manifests",
	Long: `kindgen reads declarative variant-family manifests and synthesizes Go
registries: an identity index, secondary lookups, enumeration, a miss
sentinel, and per-variant accessors.`,
	Version:      version,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .kindgen.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("log-format", "text",
		"log output format: text or json")

	// Bind flags to viper
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	viper.SetDefault("out", ".")
	viper.SetDefault("workers", 4)
	viper.SetDefault("strict", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Lookup order: current directory, then the user config directory.
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kindgen"))
		}
		viper.SetConfigName(".kindgen")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else deserves a warning.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: could not read config file: %v\n", err)
		}
	}
}

// resolveConfig merges config-file values with command-line flags and
// positional manifest paths; explicit flags win over the config file.
func resolveConfig(cmd *cobra.Command, args []string, check bool) (*app.Config, error) {
	out := viper.GetString("out")
	if cmd.Flags().Changed("out") {
		out, _ = cmd.Flags().GetString("out")
	}
	workers := viper.GetInt("workers")
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	strict := viper.GetBool("strict")
	if cmd.Flags().Changed("strict") {
		strict, _ = cmd.Flags().GetBool("strict")
	}

	paths := args
	if len(paths) == 0 {
		paths = viper.GetStringSlice("manifests")
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	logFormat := strings.ToLower(viper.GetString("log_format"))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", logFormat)
	}
	logLevel := strings.ToLower(viper.GetString("log_level"))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", logLevel)
	}

	return app.NewConfig(app.Config{
		ManifestPaths: paths,
		OutDir:        out,
		Check:         check,
		Strict:        strict,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		WorkerCount:   workers,
	})
}

// Execute runs the root command and handles process lifecycle. Exit code 1
// indicates error; cobra has already printed it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
