package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/solidgate/pkg/clientip"
	"github.com/dmitrymomot/solidgate/pkg/httpserver"
	"github.com/dmitrymomot/solidgate/pkg/sink"
	"github.com/dmitrymomot/solidgate/pkg/webhook"
)

// webhookFeed is the feed name webhook events are stored under.
const webhookFeed = "webhooks"

func newWebhooksCmd(a *app) *cobra.Command {
	var (
		sinks   []string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Receive and store signed SolidGate callbacks",
		Long: `Listen for SolidGate callbacks, verify their signature with the webhook
key pair (SOLIDGATE_WEBHOOK_MERCHANT_ID, SOLIDGATE_WEBHOOK_SECRET_KEY) and
write each event to the selected sinks. GET /healthz pings the sink backends.
SOLIDGATE_WEBHOOK_ALLOWED_IPS limits callbacks to a list of networks.

Examples:
  solidgate webhooks --sink postgres --migrate
  SOLIDGATE_WEBHOOK_HTTP_ADDR=:9000 solidgate webhooks --sink redis --sink stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			whCfg, err := loadConfig[webhook.Config](a)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			httpCfg, err := loadConfig[httpserver.Config](a)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ipCfg, err := loadConfig[clientip.Config](a)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			resolver, allowed, err := clientip.NewFromConfig(ipCfg)
			if err != nil {
				return err
			}

			verifier, err := webhook.NewFromConfig(whCfg, webhook.WithLogger(a.log))
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

			callbacks := clientip.Middleware(resolver, allowed, a.log)(verifier.Handler(storeEvents(out)))
			r := webhookRouter(whCfg.Path, callbacks, httpserver.HealthCheckHandler(a.log, set.checks...))

			opts := []httpserver.Option{httpserver.WithLogger(a.log)}
			if a.listening != nil {
				opts = append(opts, httpserver.WithStartHook(a.listening))
			}
			runErr := httpserver.NewFromConfig(httpCfg, opts...).Run(ctx, r)
			closeErr := out.Close(context.WithoutCancel(ctx))
			return errors.Join(runErr, closeErr)
		},
	}

	cmd.Flags().StringSliceVar(&sinks, "sink", []string{"stdout"}, "where to write events: stdout, redis, postgres, mongo, opensearch, s3")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the postgres schema before listening")

	return cmd
}

// webhookRouter accepts callbacks on path and any path below it, since
// SolidGate tells callback types apart by URL.
func webhookRouter(path string, callbacks http.Handler, health http.HandlerFunc) http.Handler {
	path = "/" + strings.Trim(path, "/")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", health)
	r.Handle(path, callbacks)
	r.Handle(path+"/*", callbacks)
	return r
}

// storeEvents writes each verified event to out. Writes are serialised
// because not every sink is safe for concurrent use.
func storeEvents(out sink.Sink) webhook.HandlerFunc {
	var mu sync.Mutex
	return func(ctx context.Context, e webhook.Event) error {
		fields, err := e.Fields()
		if err != nil {
			return fmt.Errorf("decode webhook event: %w", err)
		}
		mu.Lock()
		defer mu.Unlock()
		if err := out.Write(ctx, sink.Entry{Feed: webhookFeed, Record: fields, ReceivedAt: e.ReceivedAt}); err != nil {
			return fmt.Errorf("store webhook event: %w", err)
		}
		return nil
	}
}
