package migrations

import (
	"context"
	"fmt"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Strike)(nil),
			(*types.Orientation)(nil),
			(*types.WeeklyTask)(nil),
			(*types.SiteTime)(nil),
			(*types.SiteSession)(nil),
			(*types.TaskLog)(nil),
			(*types.WeeklyTaskLog)(nil),
			(*types.ActivityExcuse)(nil),
			(*types.RobloxLink)(nil),
			(*types.MemberRank)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.MemberRank)(nil),
			(*types.RobloxLink)(nil),
			(*types.ActivityExcuse)(nil),
			(*types.WeeklyTaskLog)(nil),
			(*types.TaskLog)(nil),
			(*types.SiteSession)(nil),
			(*types.SiteTime)(nil),
			(*types.WeeklyTask)(nil),
			(*types.Orientation)(nil),
			(*types.Strike)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
