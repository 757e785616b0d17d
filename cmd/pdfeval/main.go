package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/todmy/pdf-eval/internal/config"
	"github.com/todmy/pdf-eval/internal/storage"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pdfeval",
		Short:         "Compare JHOVE and veraPDF validation outcomes over a PDF corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newTablesCmd(),
		newAnalyzeCmd(),
		newExtractCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// loadConfig reads a fresh configuration for one command invocation
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// openRepository connects to PostgreSQL and makes sure the schema exists
func openRepository(ctx context.Context, cfg *config.Config) (*storage.PostgresRowRepository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, errNoDatabase
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	repo := storage.NewPostgresRowRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Printf("Connected to database")
	return repo, db, nil
}
