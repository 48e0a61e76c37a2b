// Command scrut runs and generates CLI tests described by Cram (".t") or
// Markdown documents. Grounded on original_source/src/bin/main.go and
// opal-lang-opal/cli/main.go's entry-point structure.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := newCancellableContext()
	defer cancel()

	root := newRootCommand()
	root.SetContext(ctx)

	exitCode := 0
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			printError(os.Stderr, err)
		}
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newCancellableContext returns a context canceled on SIGINT/SIGTERM, so an
// interrupted test run can stop cleanly instead of leaving stray processes.
func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}
