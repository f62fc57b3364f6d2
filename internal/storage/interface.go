package storage

import (
	"context"

	"github.com/julianstephens/timewise/internal/models"
)

// Provider is the durable store seen by the session. Loads never fail: any
// problem degrades to an empty collection and is logged. The bool reports
// whether the result reflects what is stored; when it is false the primary
// could not be read and saving the collection would overwrite data it never
// saw. Saves replace the whole collection and report failure.
type Provider interface {
	LoadActivities(ctx context.Context) ([]models.Activity, bool)
	SaveActivities(ctx context.Context, activities []models.Activity) error
	LoadGoals(ctx context.Context) ([]models.Goal, bool)
	SaveGoals(ctx context.Context, goals []models.Goal) error
}

// Primary is the durable medium every save goes to.
type Primary interface {
	LoadActivities(ctx context.Context) ([]models.Activity, error)
	SaveActivities(ctx context.Context, activities []models.Activity) error
	LoadGoals(ctx context.Context) ([]models.Goal, error)
	SaveGoals(ctx context.Context, goals []models.Goal) error
}

// ImportRecorder is implemented by primaries that keep a log of legacy
// migrations. A collection with a recorded import is never migrated again,
// even after every record in it has been deleted.
type ImportRecorder interface {
	RecordLegacyImport(ctx context.Context, collection, legacyKey string, records int) error
	HasLegacyImport(ctx context.Context, collection string) (bool, error)
}

// LegacySource is the read-only key-value store of earlier versions.
type LegacySource interface {
	Get(key string) (string, bool, error)
}
