package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/solidgate"
	"github.com/dmitrymomot/solidgate/pkg/logger"
	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/sink"
)

var timeLayouts = []string{time.RFC3339, reconcile.DateLayout, time.DateOnly}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, %q or %q", s, reconcile.DateLayout, time.DateOnly)
}

func newReconcileCmd(a *app) *cobra.Command {
	var (
		from, to    string
		sinks       []string
		maxAttempts int
		maxPages    int
		migrate     bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <orders|chargebacks|alerts>",
		Short: "Drain a reconciliation feed into one or more sinks",
		Long: `Fetch every record of a reconciliation feed for a date range and write it
to the selected sinks. Without --from and --to the last 24 hours are fetched.

Examples:
  solidgate reconcile orders --from 2024-05-01 --to "2024-05-01 23:59:59"
  solidgate reconcile chargebacks --sink postgres --migrate
  solidgate reconcile alerts --sink stdout --sink s3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := solidgate.ParseFeed(args[0])
			if err != nil {
				return err
			}

			end := time.Now().UTC().Truncate(time.Second)
			if to != "" {
				if end, err = parseTime(to); err != nil {
					return err
				}
			}
			start := end.Add(-24 * time.Hour)
			if from != "" {
				if start, err = parseTime(from); err != nil {
					return err
				}
			}
			if end.Before(start) {
				return errors.New("--to is before --from")
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			set, err := a.openSinks(ctx, sinks, cmd.OutOrStdout(), migrate)
			if err != nil {
				return err
			}
			defer set.release()
			out := set.sink()

			var opts []reconcile.Option
			if maxAttempts > 0 {
				opts = append(opts, reconcile.WithMaxAttempts(maxAttempts))
			}
			if maxPages > 0 {
				opts = append(opts, reconcile.WithMaxPages(maxPages))
			}

			it := client.Reconcile(ctx, feed, start, end, opts...)
			stats, drainErr := sink.Drain(ctx, it, feed.Name, out)
			closeErr := out.Close(ctx)

			a.log.InfoContext(ctx, "reconciliation finished",
				logger.Feed(feed.Name),
				logger.Records(stats.Records),
				logger.Page(stats.Pages),
				logger.Duration(stats.Duration),
			)
			return errors.Join(drainErr, closeErr)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start of the range (default: 24h before --to)")
	cmd.Flags().StringVar(&to, "to", "", "end of the range (default: now, UTC)")
	cmd.Flags().StringSliceVar(&sinks, "sink", []string{"stdout"}, "where to write records: stdout, redis, postgres, mongo, opensearch, s3")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempts per page (default from SOLIDGATE_RECONCILIATION_MAX_ATTEMPTS)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = unlimited)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the postgres schema before writing")

	return cmd
}
