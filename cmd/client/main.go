package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/cli"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/client"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/clientconfig"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/clipboard"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/logging"
)

func main() {
	cfg, err := clientconfig.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// Logs go to stderr so they do not interleave with the prompt.
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel))

	clip, err := clipboard.NewPlatform()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(client.New(cfg.APIURL, cfg.Timeout), clip, cfg.PollInterval, cfg.Username, os.Stdin, os.Stdout)
	defer app.Close()

	slog.Info("client starting", "api", cfg.APIURL)
	cli.Run(ctx, app)
}
