package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"job-ledger-go/internal/config"
	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/logger"
	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("hive-chat", flag.ContinueOnError)
	var (
		configFile = fs.String("config", "config.json", "Configuration file path")
		chatFile   = fs.String("file", "", "Chat file (default from config)")
		agent      = fs.String("agent", "TestAgent", "Agent posting the message")
		message    = fs.String("message", "Hello from the hive!", "Message text")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *chatFile != "" {
		cfg.Storage.ChatFile = *chatFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	log, closer, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer closer.Close()

	if envErr != nil {
		log.Debug("No .env file loaded", slog.Any("error", envErr))
	}

	msg := models.NewChatMessage(*agent, *message, time.Now())
	chat := storage.NewFileStore(cfg.Storage.ChatFile)

	if err := ledger.PostMessage(chat, msg, cfg.Chat.MaxHistory); err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}

	log.Info("Message posted",
		slog.String("file", cfg.Storage.ChatFile),
		slog.String("agent", msg.Agent),
		slog.String("timestamp", msg.Timestamp))

	fmt.Printf("[%s] %s: %s\n", msg.Timestamp, msg.Agent, msg.Message)
	return nil
}
