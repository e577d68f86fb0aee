// Command solidgate talks to the SolidGate API from the shell: it drains
// reconciliation feeds into a sink, signs payloads and builds form URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(nil)
	cmd.Version = Version
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
