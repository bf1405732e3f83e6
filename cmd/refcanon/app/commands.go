package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refcanon/refcanon"
	"github.com/refcanon/refcanon/pkg/errors"
)

// ingestCommand runs one ingestion pass over every dataset.
func (a *App) ingestCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion pass over every dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.ManifestFile == "" {
				return errors.New("a source manifest is required (--manifest or REFCANON_MANIFEST)")
			}

			client, err := refcanon.New(
				refcanon.WithManifestFile(a.config.ManifestFile),
				refcanon.WithDatabase(a.config.DatabasePath),
				refcanon.WithDryRun(dryRun),
			)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			report, err := client.Run(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd, report)

			if failed := report.Failed(); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, d := range failed {
					names = append(names, d.Dataset)
				}
				return fmt.Errorf("%d dataset runs failed: %s", len(failed), strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile without writing entities or ledger rows")
	return cmd
}

func printReport(cmd *cobra.Command, report *refcanon.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tOUTCOME\tCREATED\tUPDATED\tUNCHANGED\tSKIPPED")
	for _, d := range report.Datasets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			d.Dataset, d.Outcome, d.Created, d.Updated, d.Unchanged, d.Skipped)
	}
	_ = w.Flush()
}

// statusCommand prints the ledger's run history.
func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [dataset]",
		Short: "Show recorded ingestion runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.config.DatabasePath == "" {
				return errors.New("a database path is required (--database or REFCANON_DATABASE)")
			}

			client, err := refcanon.New(refcanon.WithDatabase(a.config.DatabasePath))
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			datasets := refcanon.Datasets()
			if len(args) == 1 {
				datasets = []string{args[0]}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tSTATE\tVERSION\tSTARTED\tERROR")
			for _, dataset := range datasets {
				runs, err := client.Status(cmd.Context(), dataset)
				if err != nil {
					return err
				}
				for _, run := range runs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						run.Dataset, run.State, run.Version,
						run.Started.Format("2006-01-02 15:04:05"), run.Error)
				}
			}
			return w.Flush()
		},
	}
}

// versionCommand prints build information.
func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "refcanon %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
