package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dialectlab/tweetsift/internal/export"
	"github.com/dialectlab/tweetsift/internal/filter"
	"github.com/dialectlab/tweetsift/internal/model"
	"github.com/dialectlab/tweetsift/internal/pipeline"
	"github.com/dialectlab/tweetsift/internal/sentiment"
	"github.com/dialectlab/tweetsift/internal/store"
	"github.com/dialectlab/tweetsift/pkg/twitter"
)

var (
	collectNumber     int
	collectFile       string
	collectFormat     string
	collectDryRun     bool
	collectSkipVerify bool
	collectArchive    bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect, filter, and score tweets, then write them to a file",
	Long: `Runs the full pipeline: searches the configured queries, deduplicates
results, keeps tweets whose author location or description mentions a
filter term, scores sentiment, and writes the survivors.

Examples:
  # Default run: 1000 tweets per query into your_tweets.csv
  tweetsift collect

  # Smaller run to a custom file
  tweetsift collect -n 200 -f dc_accents.csv

  # Collect and filter only; print a summary without writing
  tweetsift collect --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// Flags win over config; config wins over the built-in defaults.
		if !cmd.Flags().Changed("number") && cfg.Search.MaxResults > 0 {
			collectNumber = cfg.Search.MaxResults
		}
		if !cmd.Flags().Changed("file") && cfg.Output.Path != "" {
			collectFile = cfg.Output.Path
		}
		if !cmd.Flags().Changed("format") && cfg.Output.Format != "" {
			collectFormat = cfg.Output.Format
		}

		client := newTwitterClient()
		if !collectSkipVerify {
			if err := client.VerifyCredentials(ctx); err != nil {
				return eris.Wrap(err, "collect: credential check failed (use --skip-verify to proceed anyway)")
			}
			zap.L().Info("credentials verified")
		}

		p := &pipeline.Pipeline{
			Client: client,
			Terms:  filter.NewTermSet(cfg.Filter.Terms),
			Scorer: sentiment.NewVader(),
		}

		var st store.Store
		var run *model.Run
		if collectArchive {
			var err error
			st, run, err = beginArchivedRun(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		res, err := p.Run(ctx, pipeline.Params{
			Queries:     cfg.Search.Queries,
			MaxPerQuery: collectNumber,
		})
		if err != nil {
			if st != nil && run != nil {
				finishRun(ctx, st, run.ID, &model.RunResult{Error: err.Error()})
			}
			return err
		}

		if collectDryRun {
			if st != nil && run != nil {
				finishRun(ctx, st, run.ID, &model.RunResult{
					Collected: res.Collected,
					Deduped:   res.Deduped,
					Kept:      res.Kept,
				})
			}
			fmt.Printf("collected %d, deduped %d, kept %d (dry run, nothing written)\n",
				res.Collected, res.Deduped, res.Kept)
			return nil
		}

		if err := writeOutput(res.Tweets); err != nil {
			if st != nil && run != nil {
				finishRun(ctx, st, run.ID, &model.RunResult{Error: err.Error()})
			}
			return err
		}
		fmt.Printf("All done! Your tweets have been saved to %s\n", collectFile)

		if st != nil && run != nil {
			if err := st.SaveTweets(ctx, run.ID, res.Tweets); err != nil {
				return eris.Wrap(err, "collect: archive tweets")
			}
			finishRun(ctx, st, run.ID, &model.RunResult{
				Collected: res.Collected,
				Deduped:   res.Deduped,
				Kept:      res.Kept,
				Output:    collectFile,
			})
		}

		return nil
	},
}

func newTwitterClient() twitter.Client {
	return twitter.NewClient(
		twitter.Credentials{
			APIKey:       cfg.Twitter.APIKey,
			APISecret:    cfg.Twitter.APISecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		},
		twitter.WithBaseURL(cfg.Twitter.BaseURL),
		twitter.WithPageSize(cfg.Twitter.PageSize),
		twitter.WithRateLimit(cfg.Twitter.RateLimitRPS),
	)
}

func writeOutput(tweets []model.ScoredTweet) error {
	switch collectFormat {
	case "csv":
		return export.WriteCSV(tweets, collectFile)
	case "json":
		return export.WriteJSON(tweets, collectFile)
	default:
		return eris.Errorf("collect: unknown output format %q", collectFormat)
	}
}

func beginArchivedRun(ctx context.Context) (store.Store, *model.Run, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, nil, eris.Wrap(err, "collect: open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "collect: migrate store")
	}
	run, err := st.CreateRun(ctx, cfg.Search.Queries)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "collect: create run")
	}
	return st, run, nil
}

// finishRun records the run outcome; archive bookkeeping failures are
// logged rather than masking the pipeline's own result.
func finishRun(ctx context.Context, st store.Store, runID string, result *model.RunResult) {
	if err := st.CompleteRun(ctx, runID, result); err != nil {
		zap.L().Warn("failed to record run outcome", zap.String("run_id", runID), zap.Error(err))
	}
}

func init() {
	collectCmd.Flags().IntVarP(&collectNumber, "number", "n", 1000, "maximum tweets to collect per query")
	collectCmd.Flags().StringVarP(&collectFile, "file", "f", "your_tweets.csv", "output file path")
	collectCmd.Flags().StringVar(&collectFormat, "format", "csv", "output format: csv or json")
	collectCmd.Flags().BoolVar(&collectDryRun, "dry-run", false, "collect and filter but do not write output")
	collectCmd.Flags().BoolVar(&collectSkipVerify, "skip-verify", false, "skip the credential pre-check")
	collectCmd.Flags().BoolVar(&collectArchive, "archive", false, "persist the run and results to the configured store")

	rootCmd.AddCommand(collectCmd)
}
