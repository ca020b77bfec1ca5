package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/commands"
)

func main() {
	os.Exit(submain())
}

func submain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	if err := commands.New().ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("daybook command failed")
		return 1
	}
	return 0
}
