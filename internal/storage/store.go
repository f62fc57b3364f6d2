// Package storage implements the durable store: full-snapshot saves to a
// primary medium, fail-soft loads, and the one-time migration out of the
// legacy key-value store.
package storage

import (
	"context"
	"encoding/json"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/models"
)

const (
	ActivitiesCollection = "activities"
	GoalsCollection      = "goals"
)

type Store struct {
	primary Primary
	legacy  LegacySource
}

var _ Provider = (*Store)(nil)

// New returns a store over primary. legacy may be nil when there is nothing
// to migrate from.
func New(primary Primary, legacy LegacySource) *Store {
	return &Store{
		primary: primary,
		legacy:  legacy,
	}
}

func (s *Store) LoadActivities(ctx context.Context) ([]models.Activity, bool) {
	return load(ctx, s, collectionIO[models.Activity]{
		name:      ActivitiesCollection,
		legacyKey: constants.LegacyActivitiesKey,
		read:      s.primary.LoadActivities,
		write:     s.primary.SaveActivities,
	})
}

func (s *Store) SaveActivities(ctx context.Context, activities []models.Activity) error {
	return save(ctx, ActivitiesCollection, activities, s.primary.SaveActivities)
}

func (s *Store) LoadGoals(ctx context.Context) ([]models.Goal, bool) {
	return load(ctx, s, collectionIO[models.Goal]{
		name:      GoalsCollection,
		legacyKey: constants.LegacyGoalsKey,
		read:      s.primary.LoadGoals,
		write:     s.primary.SaveGoals,
	})
}

func (s *Store) SaveGoals(ctx context.Context, goals []models.Goal) error {
	return save(ctx, GoalsCollection, goals, s.primary.SaveGoals)
}

type record interface {
	Validate() error
	GetID() string
}

type collectionIO[T record] struct {
	name      string
	legacyKey string
	read      func(context.Context) ([]T, error)
	write     func(context.Context, []T) error
}

func save[T record](ctx context.Context, name string, items []T, write func(context.Context, []T) error) error {
	if items == nil {
		items = []T{}
	}
	log := logger.Collection(name).Records(len(items))
	if err := write(ctx, items); err != nil {
		log.Error("Failed to save collection", "error", err)
		return err
	}
	log.Debug("Saved collection")
	return nil
}

// load reads the primary medium. Only when it holds nothing does it consult
// the legacy store, copying whatever parses into the primary so the legacy
// store is never read again. An unreadable primary yields an empty result
// and false.
func load[T record](ctx context.Context, s *Store, col collectionIO[T]) ([]T, bool) {
	log := logger.Collection(col.name)
	items, err := col.read(ctx)
	if err != nil {
		log.Error("Primary storage unavailable, starting empty", "error", err)
		return []T{}, false
	}
	items = validOnly(log.With("source", "primary"), items)
	if len(items) > 0 {
		return items, true
	}

	if s.alreadyImported(ctx, log, col.name) {
		return []T{}, true
	}

	log = log.With("key", col.legacyKey)
	migrated := decodeLegacy[T](log, s.legacyValue(log, col.legacyKey))
	if len(migrated) == 0 {
		return []T{}, true
	}

	// The primary was read and is empty, so a later save of this snapshot
	// completes the migration rather than losing anything.
	if err := col.write(ctx, migrated); err != nil {
		log.Records(len(migrated)).Error("Failed to migrate legacy data, will retry on next load", "error", err)
		return migrated, true
	}
	log.Records(len(migrated)).Info("Migrated legacy data")
	if rec, ok := s.primary.(ImportRecorder); ok {
		if err := rec.RecordLegacyImport(ctx, col.name, col.legacyKey, len(migrated)); err != nil {
			log.Warn("Failed to record legacy import", "error", err)
		}
	}
	return migrated, true
}

// alreadyImported reports whether the primary logged an earlier migration of
// the collection. An unreadable log counts as no import.
func (s *Store) alreadyImported(ctx context.Context, log logger.Scope, name string) bool {
	rec, ok := s.primary.(ImportRecorder)
	if !ok {
		return false
	}
	done, err := rec.HasLegacyImport(ctx, name)
	if err != nil {
		log.Warn("Failed to read legacy import log", "error", err)
		return false
	}
	if done {
		log.Debug("Legacy data already imported, skipping")
	}
	return done
}

// legacyValue returns the raw legacy value for key, or "" when there is none.
func (s *Store) legacyValue(log logger.Scope, key string) string {
	if s.legacy == nil {
		return ""
	}
	raw, found, err := s.legacy.Get(key)
	if err != nil {
		log.Warn("Legacy storage unreadable, treating as empty", "error", err)
		return ""
	}
	if !found {
		return ""
	}
	return raw
}

// decodeLegacy parses a serialized array. A value that is not an array is
// treated as empty; elements that fail to parse or validate are skipped.
func decodeLegacy[T record](log logger.Scope, raw string) []T {
	if raw == "" {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		log.Warn("Malformed legacy data, treating as empty", "error", err)
		return nil
	}

	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			log.Warn("Skipping unparsable legacy record", "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return validOnly(log.With("source", "legacy"), items)
}

// validOnly drops records that violate the model invariants or repeat an
// earlier ID.
func validOnly[T record](log logger.Scope, items []T) []T {
	out := items[:0:0]
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("Skipping invalid record", "id", item.GetID(), "error", err)
			continue
		}
		if _, dup := seen[item.GetID()]; dup {
			log.Warn("Skipping duplicate record", "id", item.GetID())
			continue
		}
		seen[item.GetID()] = struct{}{}
		out = append(out, item)
	}
	return out
}
