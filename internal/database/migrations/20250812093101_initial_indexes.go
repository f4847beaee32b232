package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_strikes_member_expiry ON strikes (member_id, expires_at)",
			"CREATE INDEX IF NOT EXISTS idx_strikes_expiry ON strikes (expires_at)",
			"CREATE INDEX IF NOT EXISTS idx_task_logs_member_type ON task_logs (member_id, task_type)",
			"CREATE INDEX IF NOT EXISTS idx_weekly_task_logs_member ON weekly_task_logs (member_id, logged_at)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_roblox_links_roblox_id ON roblox_links (roblox_id)",
		}

		for _, index := range indexes {
			if _, err := db.NewRaw(index).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_roblox_links_roblox_id",
			"DROP INDEX IF EXISTS idx_weekly_task_logs_member",
			"DROP INDEX IF EXISTS idx_task_logs_member_type",
			"DROP INDEX IF EXISTS idx_strikes_expiry",
			"DROP INDEX IF EXISTS idx_strikes_member_expiry",
		}

		for _, index := range indexes {
			if _, err := db.NewRaw(index).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop index: %w", err)
			}
		}

		return nil
	})
}
