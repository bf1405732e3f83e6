// Package app wires the refcanon CLI: configuration loading, logger
// setup and the cobra command tree.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// App is the assembled CLI application.
type App struct {
	config *Config
	root   *cobra.Command

	version string
	commit  string
	date    string

	// flag storage, applied to config before any command runs
	flagVerbose  bool
	flagQuiet    bool
	flagNoColor  bool
	flagManifest string
	flagDatabase string
}

// New creates the application with its command tree.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  config,
		version: version,
		commit:  commit,
		date:    date,
	}
	a.root = a.buildCommands()
	return a, nil
}

// Execute parses args and runs the selected command.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

func (a *App) buildCommands() *cobra.Command {
	root := &cobra.Command{
		Use:           "refcanon",
		Short:         "Reference data registry ingestion pipeline",
		Long:          "refcanon ingests national reference data registries from file drops and remote APIs and reconciles them into a canonical store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			a.config.UpdateFromFlags(a.flagVerbose, a.flagQuiet, a.flagNoColor, a.flagManifest, a.flagDatabase)
			SetupLogger(a.config)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.flagVerbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&a.flagQuiet, "quiet", "q", false, "warnings and errors only")
	flags.BoolVar(&a.flagNoColor, "no-color", false, "plain log output")
	flags.StringVarP(&a.flagManifest, "manifest", "m", "", "source manifest file")
	flags.StringVarP(&a.flagDatabase, "database", "d", "", "sqlite database path (in-memory when unset)")

	root.AddCommand(a.ingestCommand(), a.statusCommand(), a.versionCommand())
	return root
}

// ExitOnError prints the error and exits non-zero.
func ExitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
