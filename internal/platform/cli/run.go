// internal/platform/cli/run.go
package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	consoleout "solstarter/internal/adapters/out/console"
	"solstarter/internal/domain/operation"
	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// Action is the body of one command.
type Action func(ctx context.Context, cfg appcfg.Config, c *di.Container) error

// LocalAction is the body of a command that needs neither config nor network.
type LocalAction func(ctx context.Context) error

var stdout io.Writer = os.Stdout

// Run executes fn and exits the process with the error kind's code.
func Run(name string, needs shared.Needs, fn Action) {
	os.Exit(Execute(context.Background(), name, needs, fn))
}

// RunLocal executes a local-only command (stdin/stdout conversions) and exits.
func RunLocal(name string, fn LocalAction) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fn(ctx)
	stop()
	if err != nil {
		consoleout.PrintFailure(stdout, err)
	}
	os.Exit(exitCode(name, err))
}

// Execute loads and validates config, builds the container and runs fn under a
// signal-aware context. It returns the exit code instead of exiting.
func Execute(parent context.Context, name string, needs shared.Needs, fn Action) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := appcfg.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		err = operation.NewError("", operation.ErrorKindConfig, err)
		consoleout.PrintFailure(stdout, err)
		return exitCode(name, err)
	}

	c, err := di.NewContainer(ctx, cfg, needs)
	if err != nil {
		err = operation.NewError("", operation.ErrorKindConfig, err)
		consoleout.PrintFailure(stdout, err)
		return exitCode(name, err)
	}
	defer func() { _ = c.Close() }()

	return exitCode(name, fn(ctx, cfg, c))
}

func exitCode(name string, err error) int {
	code := operation.ExitCode(err)
	if err != nil {
		log.Printf("[%s] failed kind=%s exit=%d err=%v", name, operation.KindOf(err), code, err)
	}
	return code
}
