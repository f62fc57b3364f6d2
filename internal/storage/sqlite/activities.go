package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/timewise/internal/models"
)

// LoadActivities returns every stored activity in insertion order.
func (s *Store) LoadActivities(ctx context.Context) ([]models.Activity, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, duration_min, timestamp_ms
		FROM activities ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var category string
		var timestampMs int64
		if err := rows.Scan(&a.ID, &a.Name, &category, &a.DurationMin, &timestampMs); err != nil {
			return nil, err
		}
		a.Category = models.Category(category)
		a.Timestamp = time.UnixMilli(timestampMs)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// SaveActivities replaces the stored activities with the given snapshot.
func (s *Store) SaveActivities(ctx context.Context, activities []models.Activity) error {
	return s.replaceAll(ctx, "activities", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO activities (id, position, name, category, duration_min, timestamp_ms)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare activity insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range activities {
			if _, err := stmt.ExecContext(ctx, a.ID, i, a.Name, string(a.Category), a.DurationMin, a.Timestamp.UnixMilli()); err != nil {
				return fmt.Errorf("failed to insert activity %s: %w", a.ID, err)
			}
		}
		return nil
	})
}
