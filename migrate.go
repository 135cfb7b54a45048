package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stsysd/tenderbook/db"
	"github.com/stsysd/tenderbook/store"
)

func migrateCmd(flags *globalFlags) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runMigrations(cmd, cfg.DataDir, statusOnly)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Print the current schema version without migrating")
	return cmd
}

// runMigrations はデータベースに対してマイグレーションを実行します。
func runMigrations(cmd *cobra.Command, dataDir string, statusOnly bool) error {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := store.Open(dataDir)
	if err != nil {
		return err
	}
	defer conn.Close()

	// マイグレーションを実行
	if !statusOnly {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}

	version, err := db.Version(conn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
