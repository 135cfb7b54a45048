// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stsysd/tenderbook/api"
	"github.com/stsysd/tenderbook/config"
	"github.com/stsysd/tenderbook/db"
	"github.com/stsysd/tenderbook/engine"
	"github.com/stsysd/tenderbook/store"
)

const (
	Version = "0.1.0"
	appName = "tenderbook"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags は環境変数の設定を上書きするフラグです。
type globalFlags struct {
	dataDir  string
	logLevel string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Construction budget proposal and tender tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "Data directory (overrides TENDERBOOK_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides TENDERBOOK_LOG_LEVEL)")

	cmd.AddCommand(serveCmd(&flags))
	cmd.AddCommand(migrateCmd(&flags))
	cmd.AddCommand(reportCmd(&flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// loadConfig は環境変数から設定を読み込み、フラグで上書きします。
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger は設定に従ってロガーを生成します。
func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the action API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides TENDERBOOK_SERVER_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	defer sqliteStore.Close()

	e := engine.New(sqliteStore,
		engine.WithLogger(logger),
		engine.WithStrictGrouping(cfg.StrictGrouping),
		engine.WithPhotoURLPrefix(cfg.PhotoURLPrefix))
	writer := engine.NewWriter(e, cfg.WriteBacklog)
	server := api.NewServer(e, writer, cfg, logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("tenderbook ready",
		"version", Version,
		"dataDir", cfg.DataDir,
		"strictGrouping", cfg.StrictGrouping)

	// サーバーとWriterを起動し、どちらかが終了したら両方を止める
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := writer.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer writer.Close()
		return server.Run(ctx, ":"+cfg.Port)
	})
	return g.Wait()
}
