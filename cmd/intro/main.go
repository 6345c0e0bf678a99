// Package main runs the House of Letters intro: asset loading, the camera
// flight and the title orbit, rendered to a frame trace or the log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/game"
	"github.com/amrayach/house-of-letters/internal/intro"
	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/internal/trace"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	// Initialize logger
	logOpts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: os.Stderr,
	}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== House of Letters ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("intro error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("intro closed normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := assets.NewDirSource(cfg.Assets.Root)
	defer src.Close()

	var r intro.Renderer = trace.NewLogRenderer(logger.Named("frames"), cfg.Intro.FPS)
	if path := config.TracePath(); path != "" {
		w, err := trace.Create(path)
		if err != nil {
			return err
		}
		defer w.Close()
		r = trace.Tee(w, r)
		logger.Info("tracing frames", zap.String("path", path))
	}

	g, err := game.New(ctx, cfg, src, r)
	if err != nil {
		return err
	}
	defer g.Close()

	// Enter on stdin skips the flight.
	go g.Input().Watch(os.Stdin, logger.Named("input"))

	return g.Run(ctx)
}
