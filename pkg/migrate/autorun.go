package migrate

import (
	"context"
	"database/sql"

	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on startup when running in dev mode
// with auto-migrate enabled. Production deploys run cmd/migrate explicitly,
// so this is a no-op everywhere else.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, db *sql.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !cfg.App.IsDev() || !cfg.DB.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, db, DefaultDir, "up"); err != nil {
		return err
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
