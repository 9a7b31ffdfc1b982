// Package main runs the embedded schema migrations against DATABASE_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/recipeshare/recipeshare/internal/database"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		verbose     = flag.Bool("v", false, "Log at debug level")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [flags] <up|down|reset|status|version>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(2)
	}

	command := database.CommandUp
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, *databaseURL, command, logger); err != nil {
		logger.Error("migration failed", slog.String("command", command), slog.String("error", err.Error()))
		os.Exit(1)
	}
}
