// Command knowledge ingests the Nuxway knowledge corpus and serves
// retrieval over it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
