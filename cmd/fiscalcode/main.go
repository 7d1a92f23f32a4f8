// Command fiscalcode computes an Italian fiscal code interactively on the
// terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"fiscalcode/internal/console"
	"fiscalcode/internal/fiscalcode/service"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/store"
	"fiscalcode/internal/platform/config"
	"fiscalcode/internal/platform/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return console.ExitFailure
	}
	registryFile := flag.String("registry", cfg.Registry.File, "path to a name;code cadastral registry CSV (default: embedded registry)")
	flag.Parse()

	// Prompts own stdout; logs go to stderr and stay quiet unless asked for.
	cfg.Log.Format = "text"
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log)

	resolver, err := loadRegistry(*registryFile)
	if err != nil {
		log.Error("failed to load cadastral registry", "error", err)
		return console.ExitFailure
	}
	svc, err := service.New(resolver, service.WithLogger(log))
	if err != nil {
		log.Error("failed to initialize fiscal code service", "error", err)
		return console.ExitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = console.New(os.Stdin, os.Stdout, svc).Run(ctx)
	if err != nil && !municipality.IsNotFound(err) {
		log.Error("fiscal code computation failed", "error", err)
	}
	return console.ExitCode(err)
}

func loadRegistry(path string) (municipality.Resolver, error) {
	if path == "" {
		return store.Default()
	}
	return store.LoadFile(path)
}
