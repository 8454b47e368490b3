package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/dialectlab/tweetsift/internal/model"
	"github.com/dialectlab/tweetsift/internal/store"
)

var (
	runsStatus string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived collection runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return eris.Wrap(err, "runs: open store")
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "runs: migrate store")
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "runs: list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tQUERIES\tKEPT\tOUTPUT\tCREATED")
		for _, r := range runs {
			kept := "-"
			output := "-"
			if r.Result != nil {
				kept = fmt.Sprintf("%d", r.Result.Kept)
				if r.Result.Output != "" {
					output = r.Result.Output
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				r.ID, r.Status, len(r.Queries), kept, output,
				r.CreatedAt.Local().Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by run status (running|complete|failed)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")

	rootCmd.AddCommand(runsCmd)
}
