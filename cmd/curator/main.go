// Command curator reconciles Jira issues into a notes server's task tree.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/notewell/curator/cmd/curator/app"
)

// Build-time variables set by ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(version, commit, date)
	app.ExitOnError(err)

	app.ExitOnError(application.Execute(ctx, os.Args[1:]))
}
