package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo holds the build metadata injected at compile time.
type BuildInfo struct {
	Version string
	AppName string
}

type cmdFlags struct {
	version    string
	appName    string
	ConfigPath string `mapstructure:"config"`
	LogLevel   string `mapstructure:"log_level"`
	TextFormat bool   `mapstructure:"log_text"`

	Port   int    `mapstructure:"port"`
	Addr   string `mapstructure:"addr"`
	PGConn string `mapstructure:"pgconn"`
}

type indexFlags struct {
	Root       string
	MinPages   int
	DryRun     bool
	RemoveURLs bool
}

// InitCommand initializes the root command of the CLI application with its subcommands and flags.
func InitCommand(build BuildInfo) cobra.Command {
	flags := cmdFlags{
		version: build.Version,
		appName: build.AppName,
	}

	cmd := cobra.Command{
		Use:   flags.appName,
		Short: "Full-text PDF search service",
		Long:  "lexicon walks a directory tree, indexes PDF page text into Postgres full-text search, and serves a small HTTP search API.",
	}

	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.TextFormat, "log-text", true, "log in text format, otherwise JSON")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to an optional configuration file")

	cmd.PersistentFlags().IntVarP(&flags.Port, "port", "p", 8080, "HTTP listen port")
	cmd.PersistentFlags().StringVarP(&flags.Addr, "addr", "a", "", "HTTP listen address (overrides --port when set)")
	cmd.PersistentFlags().StringVarP(&flags.PGConn, "pgconn", "c", "", "Postgres connection string (or PGCONN)")

	for _, name := range []string{"log_level", "log_text"} {
		if err := viper.BindEnv(name); err != nil {
			slog.Error("failed to bind env var", "name", name, "error", err)
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&flags); err != nil {
		slog.Error("failed to unmarshal env vars", "error", err)
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lexicon search API server",
		Long:  "Start the HTTP server exposing search, file listing, page text, and page rasterization endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunServe(cmd.Context(), &flags)
		},
	}

	indexCmd := newIndexCmd(&flags)
	healthCmd := newHealthCmd()
	statsCmd := newStatsCmd(&flags)

	cmd.AddCommand(serveCmd, indexCmd, healthCmd, statsCmd)

	return cmd
}

// newIndexCmd builds the `index` subcommand that walks a directory tree
// and indexes discovered PDFs into storage.
func newIndexCmd(flags *cmdFlags) *cobra.Command {
	idxFlags := &indexFlags{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Walk a directory tree and index PDF files",
		Long:  "Walk --root, extract and clean page text from every PDF found, and persist it into the full-text search store.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunIndex(cmd.Context(), flags, idxFlags)
		},
	}

	cmd.Flags().StringVarP(&idxFlags.Root, "root", "r", "", "root directory to walk (required)")
	cmd.Flags().IntVar(&idxFlags.MinPages, "min_pages", 4, "skip PDFs with fewer than this many pages")
	cmd.Flags().BoolVarP(&idxFlags.DryRun, "dryrun", "d", false, "walk and report without writing to storage")
	cmd.Flags().BoolVar(&idxFlags.RemoveURLs, "remove_urls", true, "strip URLs from extracted page text")

	_ = cmd.MarkFlagRequired("root")

	return cmd
}
