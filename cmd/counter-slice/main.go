// Command counter-slice runs the counter slice through increment, increment
// and incrementBy(30) and logs the final state.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/on-the-ground/effect_ive_store/effects/log"
	"github.com/on-the-ground/effect_ive_store/internal/config"
	"github.com/on-the-ground/effect_ive_store/internal/lesson"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, endOfLog := log.WithZapEffectHandler(context.Background(), cfg.EffectLogBufferSize, logger)
	defer endOfLog()
	ctx, endOfConfig := lesson.WithConfig(ctx, cfg)
	defer endOfConfig()

	_, err = lesson.CreateSlice(ctx)
	return err
}
