package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/railzwaylabs/storefront/internal/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const schemaStateID = 1

// SchemaState records which embedded schema a database was last migrated to.
type SchemaState struct {
	ID            int       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SchemaVersion string    `gorm:"size:32;not null" json:"schema_version"`
	Checksum      string    `gorm:"size:64;not null" json:"checksum"`
	AppliedAt     time.Time `gorm:"not null" json:"applied_at"`
}

func (SchemaState) TableName() string {
	return "schema_state"
}

func recordSchemaState(ctx context.Context, db *gorm.DB, version uint, checksum string, now time.Time) error {
	state := SchemaState{
		ID:            schemaStateID,
		SchemaVersion: fmt.Sprintf("%d", version),
		Checksum:      checksum,
		AppliedAt:     now.UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"schema_version", "checksum", "applied_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("record schema state: %w", err)
	}
	return nil
}

// CurrentState reads the recorded schema state. It returns nil without an
// error when the database was never migrated.
func CurrentState(ctx context.Context, db *gorm.DB) (*SchemaState, error) {
	if !db.Migrator().HasTable(&SchemaState{}) {
		return nil, nil
	}
	var state SchemaState
	err := db.WithContext(ctx).Where("id = ?", schemaStateID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schema state: %w", err)
	}
	return &state, nil
}

// UpToDate reports whether the recorded state matches the embedded
// migrations.
func UpToDate(ctx context.Context, db *gorm.DB) (bool, error) {
	state, err := CurrentState(ctx, db)
	if err != nil || state == nil {
		return false, err
	}
	latest, err := LatestMigrationVersion()
	if err != nil {
		return false, err
	}
	checksum, err := MigrationsChecksum()
	if err != nil {
		return false, err
	}
	return state.SchemaVersion == fmt.Sprintf("%d", latest) && state.Checksum == checksum, nil
}

// ErrSchemaOutdated means the database has not been migrated to the embedded
// schema; run `storefront migrate`.
var ErrSchemaOutdated = errors.New("schema_outdated")

// EnforceSchemaGate refuses to start against a postgres database whose
// recorded schema does not match this build. Development drivers are
// migrated in place instead.
func EnforceSchemaGate(db *gorm.DB, clk clock.Clock, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if db.Dialector.Name() != "postgres" {
		return Run(ctx, db, clk, log.Named("migration"))
	}

	ok, err := UpToDate(ctx, db)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSchemaOutdated
	}
	return nil
}
