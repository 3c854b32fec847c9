// Package main is the entry point for the flakes sphere demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/flakesphere/internal/app"
	"github.com/Faultbox/flakesphere/internal/assets"
	"github.com/Faultbox/flakesphere/internal/config"
	"github.com/Faultbox/flakesphere/internal/engine/renderer"
	"github.com/Faultbox/flakesphere/internal/engine/window"
	"github.com/Faultbox/flakesphere/internal/logger"
	"github.com/Faultbox/flakesphere/internal/style"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== flakesphere ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("fatal", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The style sheet loads while the window comes up.
	styleCh := style.Fetch(ctx, cfg.Assets.StyleSheet)

	win, err := window.New(window.Config{
		Title:      "flakesphere",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
		Resizable:  cfg.Graphics.Responsive,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	// Renderer must be created AFTER the GL context exists
	dw, dh := win.DrawableSize()
	r, err := renderer.New(renderer.Config{
		Width:    dw,
		Height:   dh,
		MSAA:     cfg.Graphics.MSAA,
		Exposure: renderer.DefaultExposure,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer r.Close()

	st, err := style.Await(ctx, styleCh)
	if err != nil {
		return fmt.Errorf("loading style: %w", err)
	}

	loader := assets.NewDirLoader(assets.ConfigFrom(cfg.Assets), cfg.Assets.TexturesDir)
	a := app.New(cfg, win, r, loader)
	a.ApplyStyle(st)
	a.Start(ctx)
	return a.Run(ctx)
}
