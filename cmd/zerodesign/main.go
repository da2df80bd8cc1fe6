// Command zerodesign estimates garment carbon footprints.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rshade/zerodesign/internal/cli"
	"github.com/rshade/zerodesign/pkg/version"
)

func main() {
	os.Exit(extractExitCode(run()))
}

func run() error {
	// A missing .env is normal; variables already set win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(version.GetVersion()).ExecuteContext(ctx)
}

// extractExitCode maps a command error to the process exit status. Cobra
// has already printed the error.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var missed *cli.TargetMissedError
	if errors.As(err, &missed) {
		return missed.ExitCode
	}
	return 1
}
