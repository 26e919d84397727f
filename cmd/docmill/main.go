// CLAUDE:SUMMARY docmill entrypoint: batch extraction, HTTP server, or MCP stdio server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/docmill"
	"github.com/hazyhaar/docmill/orchestrate"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to YAML config file")
		serve   = flag.Bool("serve", false, "run the HTTP API")
		mcpMode = flag.Bool("mcp", false, "run as an MCP server on stdio")
	)
	flag.Parse()

	cfg := docmill.DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = docmill.LoadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	svc, err := docmill.NewService(cfg, logger)
	if err != nil {
		logger.Error("init service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *mcpMode:
		err = runMCP(ctx, svc)
	case *serve:
		err = runHTTP(ctx, svc)
	default:
		err = runBatch(ctx, svc, flag.Args())
	}
	if err != nil {
		logger.Error("docmill", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. In MCP mode stdout carries the
// protocol, so logs always go to stderr.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// runBatch extracts the given files and writes one JSON result per line.
func runBatch(ctx context.Context, svc *docmill.Service, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no input files (usage: docmill [flags] file...)")
	}

	docs := make([]orchestrate.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, orchestrate.Document{Name: p, Data: data})
	}

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, res := range svc.Runner.Run(ctx, docs) {
		if res.Err != nil {
			failed++
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	return nil
}

var mcpImpl = &mcp.Implementation{Name: "docmill", Version: "0.1.0"}

// runMCP serves the extraction tools over stdio.
func runMCP(ctx context.Context, svc *docmill.Service) error {
	srv := mcp.NewServer(mcpImpl, nil)
	svc.Extractor.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
