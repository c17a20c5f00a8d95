package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"github.com/toolbridge/toolbridge/config"
	"github.com/toolbridge/toolbridge/engine"
	l "github.com/toolbridge/toolbridge/logger"
	"github.com/toolbridge/toolbridge/registry"
	"github.com/toolbridge/toolbridge/transport"
)

// toolbridge reads generated model text on stdin, executes every embedded
// tool call against the configured servers, and writes the substituted text
// to stdout.
func main() {
	var cfg config.Config
	cfg, err := cfg.Load(envconfig.OsLookuper())
	if err != nil {
		log.Printf("Config load error: %v", err)
		os.Exit(1)
	}

	logger, err := l.NewLogger(cfg.Environment)
	if err != nil {
		log.Printf("Logger init error: %v", err)
		os.Exit(1)
	}

	if len(cfg.Servers) == 0 {
		logger.Warn("No tool servers configured, embedded calls will be reported as unknown")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients := make([]*transport.Client, 0, len(cfg.Servers))
	for _, server := range cfg.Servers {
		clients = append(clients, transport.NewClient(server.Name, server.URL, cfg.Client.RequestTimeout, logger))
	}

	reg := registry.New(clients, nil, logger)
	for _, result := range reg.InitializeAll(ctx) {
		if result.Err != nil {
			logger.Warn("Tool server unavailable", "server", result.Server, "error", result.Err.Error())
			continue
		}
		logger.Info("Tool server ready", "server", result.Server)
	}

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("Failed to read input", err)
		os.Exit(1)
	}

	if !cfg.EnableTools {
		fmt.Print(string(text))
		return
	}

	eng := engine.New(reg, logger)
	fmt.Print(eng.Process(ctx, string(text)))
}
