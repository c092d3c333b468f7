package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"draftsmith/internal/assistant"
	"draftsmith/internal/config"
	"draftsmith/internal/document"
	"draftsmith/internal/server"
	"draftsmith/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "draftsmith",
		Short: "Section-aware legal contract drafting server",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
}

// loadConfig falls back to defaults when no config file is present.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = config.Default()
	}
	return cfg
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the contract editing API server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := context.Background()

		provider, err := assistant.NewProvider(ctx, assistant.Options{
			Provider:   cfg.Assistant.Provider,
			BaseURL:    cfg.Assistant.BaseURL,
			Token:      cfg.Assistant.Token,
			APIKey:     cfg.Assistant.APIKey,
			Model:      cfg.Assistant.Model,
			IndexNames: cfg.Assistant.IndexNames,
		})
		if err != nil {
			log.Fatalf("Failed to create assistant provider: %v", err)
		}

		var store storage.TranscriptStore
		if cfg.Storage.Path != "" {
			s, err := storage.NewSQLiteStore(cfg.Storage.Path)
			if err != nil {
				log.Fatalf("Failed to open transcript database: %v", err)
			}
			defer s.Close()
			store = s
			fmt.Printf("💾 Transcript database: %s\n", cfg.Storage.Path)
		}

		srv := server.NewServer(cfg.Server.Addr, provider, store)

		go func() {
			fmt.Printf("🚀 Listening on %s (provider: %s)\n", cfg.Server.Addr, cfg.Assistant.Provider)
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Server failed: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		fmt.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Shutdown failed: %v", err)
		}
		fmt.Println("✅ Server stopped")
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a markdown contract and print its section table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}

		sections := document.Parse(string(data))
		fmt.Printf("📄 %s: %d sections\n", args[0], len(sections))
		for i, sec := range sections {
			fmt.Printf("  [%d] level=%d  [%d:%d)  %s\n", i, sec.Level, sec.Start, sec.End, sec.Title)
		}
	},
}
