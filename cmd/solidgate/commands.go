package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/solidgate"
)

func newAntifraudCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "antifraud <order-id>",
		Short: "Look up antifraud details of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			body := client.AntifraudOrder(cmd.Context(), args[0])
			if body == "" {
				if err := client.LastError(); err != nil {
					return err
				}
				return errors.New("empty response")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}
}

func newCallCmd(a *app) *cobra.Command {
	names := make([]string, 0, len(solidgate.Operations()))
	for _, op := range solidgate.Operations() {
		names = append(names, op.Path)
	}

	return &cobra.Command{
		Use:   "call <operation>",
		Short: "Send a direct API operation with JSON attributes from stdin",
		Long: `Send one direct operation and print the raw response body.
Attributes are read as a JSON object from stdin.

Operations: ` + strings.Join(names, ", ") + `

Example:
  echo '{"order_id":"order-1"}' | solidgate call status`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := solidgate.ParseOperation(args[0])
			if err != nil {
				return err
			}
			attrs, err := readAttributes(cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			body, err := client.Send(cmd.Context(), op, attrs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}
}

func newSignCmd(a *app) *cobra.Command {
	var verify string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payload read from stdin",
		Long: `Print the request signature of the exact bytes read from stdin.
With --verify, check a signature instead and fail if it does not match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			if verify != "" {
				if !client.Signer().Verify(payload, verify) {
					return errors.New("signature mismatch")
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.Signer().Sign(payload))
			return err
		},
	}

	cmd.Flags().StringVar(&verify, "verify", "", "signature to check against the payload")
	return cmd
}

func newFormURLCmd(a *app) *cobra.Command {
	var resign bool

	cmd := &cobra.Command{
		Use:   "form-url",
		Short: "Build a hosted payment form URL from JSON attributes on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs, err := readAttributes(cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			build := client.FormURL
			if resign {
				build = client.ResignFormURL
			}
			u, err := build(attrs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}

	cmd.Flags().BoolVar(&resign, "resign", false, "build a resign form URL")
	return cmd
}
