package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/railzwaylabs/storefront/internal/clock"
	plandraftdomain "github.com/railzwaylabs/storefront/internal/plandraft/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run brings the schema up to the latest embedded version. Postgres applies
// the versioned SQL files under an advisory lock; other drivers, used for
// local development and tests, get the same tables through AutoMigrate.
func Run(ctx context.Context, db *gorm.DB, clk clock.Clock, log *zap.Logger) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	latestVersion, err := LatestMigrationVersion()
	if err != nil {
		return err
	}
	checksum, err := MigrationsChecksum()
	if err != nil {
		return err
	}

	dialect := db.Dialector.Name()
	switch dialect {
	case "postgres":
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := runPostgres(ctx, sqlDB, latestVersion); err != nil {
			return err
		}
	default:
		if err := db.WithContext(ctx).AutoMigrate(&plandraftdomain.Draft{}, &SchemaState{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	if err := recordSchemaState(ctx, db, latestVersion, checksum, clk.Now(ctx)); err != nil {
		return err
	}

	log.Info("schema migrated",
		zap.String("dialect", dialect),
		zap.Uint("version", latestVersion),
		zap.String("checksum", checksum),
	)
	return nil
}

func runPostgres(ctx context.Context, db *sql.DB, latestVersion uint) error {
	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if _, err := ensureNotDirty(migrator); err != nil {
		return err
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	currentVersion, err := ensureNotDirty(migrator)
	if err != nil {
		return err
	}
	if currentVersion != latestVersion {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", currentVersion, latestVersion)
	}
	return nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
