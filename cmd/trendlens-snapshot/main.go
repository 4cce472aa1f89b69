// Command trendlens-snapshot runs one trajectory analysis over csv exports
// and prints the result as json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trendlens/internal/platform/config"
	"trendlens/internal/platform/logger"
)

func main() {
	config.LoadDotenv()

	lo := logger.FromEnv()
	lo.Service = "trendlens-snapshot"
	lo.Writer = os.Stderr
	logger.Init(lo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := Command(config.New().Prefix("TRENDLENS_SNAPSHOT_"))
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("snapshot failed")
		stop()
		os.Exit(1)
	}
}
