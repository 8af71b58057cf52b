package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
)

func main() {
	ctx := setupLogging(context.Background())

	o := &opts.RootOpts{UserLogger: log.NewUserLogger(ctx)}

	if err := newRootCmd(o).ExecuteContext(ctx); err != nil {
		o.UserLogger.LogValidation(false, "Command failed", err)
		os.Exit(operation.ExitCode(operation.OutcomeError, false))
	}

	os.Exit(o.ExitCode)
}

// setupLogging attaches a console zerolog logger to ctx. The level is raised
// to debug by --debug once flags are parsed.
func setupLogging(ctx context.Context) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
