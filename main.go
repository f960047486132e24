package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"postbot/agent"
	"postbot/config"
	"postbot/model"
	"postbot/tools"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := newLogger(os.Stderr, slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config", "err", err)
		return 1
	}
	logger = newLogger(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)

	// Cancelled on SIGINT/SIGTERM so the tool server session is closed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second signal falls back to the default handler and kills the process
	context.AfterFunc(ctx, stop)

	gemini, err := model.NewGemini(ctx, model.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
		Logger: logger,
	})
	if err != nil {
		logger.Error("creating inference client", "err", err)
		return 1
	}

	transport, err := tools.NewTransport(cfg.MCPServerURL, cfg.MCPTransport, cfg.MCPAuthToken)
	if err != nil {
		logger.Error("building tool server transport", "err", err)
		return 1
	}

	client, err := tools.Connect(ctx, transport, logger)
	if err != nil {
		logger.Error("connecting to tool server", "url", cfg.MCPServerURL, "err", err)
		return 1
	}
	defer client.Close()

	fmt.Println("Connected to mcp server")

	registry, err := tools.LoadRegistry(ctx, client)
	if err != nil {
		logger.Error("loading tools", "err", err)
		return 1
	}
	logger.Info("registered tools", "count", registry.Len(), "model", cfg.GeminiModel)

	chat := agent.New(agent.Config{
		Model:    gemini,
		Invoker:  client,
		Registry: registry,
		Input:    agent.NewLineReader(os.Stdin),
		Output:   os.Stdout,
		Logger:   logger,
		PostTool: cfg.PostTool,
		TopicArg: cfg.PostTopicArg,
	})

	if err := chat.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("shutting down")
			return 0
		}
		logger.Error("chat loop stopped", "err", err)
		return 1
	}
	return 0
}
