package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattjoyce/usergate/internal/config"
	"github.com/mattjoyce/usergate/internal/dispatch"
	"github.com/mattjoyce/usergate/internal/log"
	"github.com/mattjoyce/usergate/internal/projection"
	"github.com/mattjoyce/usergate/internal/storage"
	"github.com/mattjoyce/usergate/internal/tui/watch"
	"github.com/mattjoyce/usergate/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "system":
		os.Exit(runSystemNoun(args))
	case "config":
		os.Exit(runConfigNoun(args))

	// --- ROOT ALIASES ---
	case "start":
		os.Exit(runStart(args))
	case "watch":
		os.Exit(runWatch(args))
	case "version":
		fmt.Printf("usergate version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`usergate - Clerk user webhook ingestion gateway

Usage:
  usergate <noun> <action> [flags]

System Commands:
  system start      Start the webhook service in foreground
  start             Alias for system start

Config Commands:
  config check      Validate configuration and report the effective values

Other Commands:
  watch             Live terminal view of processed deliveries
  version           Show version information
  help              Show this help message

The webhook signing secret is read from $CLERK_WEBHOOK_SIGNING_SECRET unless
set in the config file.
`)
}

func runSystemNoun(args []string) int {
	if len(args) < 1 || args[0] != "start" {
		fmt.Fprintln(os.Stderr, "Usage: usergate system start [flags]")
		return 1
	}
	return runStart(args[1:])
}

func runConfigNoun(args []string) int {
	if len(args) < 1 || args[0] != "check" {
		fmt.Fprintln(os.Stderr, "Usage: usergate config check [flags]")
		return 1
	}
	return runConfigCheck(args[1:])
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file (optional)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.Setup(cfg.Log.Level)
	logger := log.WithComponent("main")

	if cfg.Webhook.Secret == "" {
		logger.Warn("no webhook signing secret configured; all deliveries will be rejected",
			"env_var", config.SecretEnvVar)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.OpenSQLite(ctx, cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open storage", "path", cfg.Storage.Path, "error", err)
		return 1
	}
	defer db.Close()

	webhookCfg, err := webhook.FromGlobalConfig(&cfg.Webhook)
	if err != nil {
		logger.Error("invalid webhook configuration", "error", err)
		return 1
	}

	applier := projection.NewApplier(storage.NewUserStore(db))
	dispatcher := dispatch.New(applier)
	server := webhook.New(webhookCfg, dispatcher, storage.NewDeliveryLog(db), log.WithComponent("webhook"))

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server failed", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file (optional)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration INVALID: %v\n", err)
		return 1
	}

	fmt.Println("Configuration OK")
	fmt.Printf("  listen:  %s\n", cfg.Webhook.Listen)
	fmt.Printf("  path:    %s\n", cfg.Webhook.Path)
	fmt.Printf("  storage: %s\n", cfg.Storage.Path)
	if cfg.Webhook.Secret == "" {
		fmt.Printf("  secret:  NOT SET (set %s)\n", config.SecretEnvVar)
	} else {
		fmt.Println("  secret:  set")
	}
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	apiURL := fs.String("url", "http://127.0.0.1:8080", "Base URL of the running usergate service")
	fs.Parse(args)

	p := tea.NewProgram(watch.New(*apiURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
