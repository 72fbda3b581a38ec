// Command posts fetches posts through an async thunk and logs every state
// the posts store passes through.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/on-the-ground/effect_ive_store/effects/log"
	"github.com/on-the-ground/effect_ive_store/internal/config"
	"github.com/on-the-ground/effect_ive_store/internal/lesson"
)

func main() {
	runs := flag.Int("runs", 2, "number of concurrent fetches")
	flag.Parse()

	if err := run(*runs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(runs int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, endOfLog := log.WithZapEffectHandler(ctx, cfg.EffectLogBufferSize, logger)
	defer endOfLog()
	ctx, endOfConfig := lesson.WithConfig(ctx, cfg)
	defer endOfConfig()

	client, err := lesson.NewPostsClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := lesson.AsyncThunk(ctx, client, runs)
	if err != nil {
		return err
	}
	if res.Final.Error != nil {
		return res.Final.Error
	}
	return nil
}
