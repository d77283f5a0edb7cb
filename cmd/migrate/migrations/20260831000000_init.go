package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ray1047820-bit/discord-auth-bot/models"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*models.VerificationToken)(nil)).
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*models.VerificationToken)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
