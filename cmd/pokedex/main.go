package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/app"
	"github.com/Adda-Baaj/pokedex/internal/config"
	"github.com/Adda-Baaj/pokedex/internal/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex start failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pokedex", flag.ContinueOnError)
	format := fs.String("format", "", "output format: text, json or yaml (overrides OUTPUT_FORMAT)")
	history := fs.Bool("history", false, "print recorded launches instead of fetching the catalog")
	forget := fs.String("forget", "", "delete the recorded launch with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("pokedex starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pokedex, err := app.NewPokedex(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize pokedex", "error", err)
		return err
	}
	defer pokedex.Close()

	switch {
	case *forget != "":
		if err := pokedex.Forget(*forget); err != nil {
			return fmt.Errorf("forget launch: %w", err)
		}
		return nil
	case *history:
		items, err := pokedex.History()
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		for _, item := range items {
			fmt.Fprintf(stdout, "%s  %s\n", item.Timestamp.Local().Format(time.RFC3339), item.ID)
		}
		return nil
	}

	if err := pokedex.Run(ctx, stdout); err != nil {
		return fmt.Errorf("pokedex run: %w", err)
	}
	return nil
}
