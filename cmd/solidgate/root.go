package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/solidgate"
	"github.com/dmitrymomot/solidgate/pkg/config"
	"github.com/dmitrymomot/solidgate/pkg/logger"
)

// app carries global flags and the state shared by subcommands.
type app struct {
	env       map[string]string // nil reads the process environment
	envFiles  []string
	logLevel  string
	logFormat string

	log       *slog.Logger
	listening func(net.Addr) // set by tests to learn the webhook listener address
}

func newRootCmd(env map[string]string) *cobra.Command {
	return (&app{env: env}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solidgate",
		Short: "SolidGate payment API client",
		Long: `solidgate signs and sends requests to the SolidGate payment API.

Credentials are read from SOLIDGATE_MERCHANT_ID and SOLIDGATE_SECRET_KEY,
or from a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "load variables from these .env files")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", string(logger.FormatText), "log format (text, json)")

	cmd.AddCommand(
		newReconcileCmd(a),
		newAntifraudCmd(a),
		newCallCmd(a),
		newSignCmd(a),
		newFormURLCmd(a),
		newWebhooksCmd(a),
	)
	return cmd
}

func (a *app) setupLogger(w io.Writer) error {
	format := logger.Format(a.logFormat)
	if format != logger.FormatJSON && format != logger.FormatText {
		return fmt.Errorf("invalid --log-format %q", a.logFormat)
	}
	a.log = logger.New(
		logger.WithOutput(w),
		logger.WithFormat(format),
		logger.WithLevel(logger.ParseLevel(a.logLevel)),
		logger.WithAttr(logger.Component("cli")),
	)
	return nil
}

func (a *app) configOptions() []config.Option {
	var opts []config.Option
	if len(a.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(a.envFiles...))
	}
	if a.env != nil {
		opts = append(opts, config.WithEnvironment(a.env))
	}
	return opts
}

// loadConfig parses an env-tagged config struct with the app's env sources.
func loadConfig[T any](a *app) (T, error) {
	var cfg T
	if err := config.Load(&cfg, a.configOptions()...); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (a *app) client() (*solidgate.Client, error) {
	cfg, err := solidgate.LoadConfig(a.configOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return solidgate.NewFromConfig(cfg, solidgate.WithLogger(a.log))
}

// readAttributes decodes a JSON object from r, keeping numbers exact.
func readAttributes(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read attributes: %w", err)
	}
	return attrs, nil
}
