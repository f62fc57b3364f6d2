package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/timewise/internal/models"
)

// LoadGoals returns every stored goal in insertion order.
func (s *Store) LoadGoals(ctx context.Context) ([]models.Goal, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, target_type, target_category, target_minutes, ai_advice
		FROM goals ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var targetType string
		var category, advice sql.NullString
		var minutes sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &targetType, &category, &minutes, &advice); err != nil {
			return nil, err
		}
		g.TargetType = models.TargetType(targetType)
		g.Target = models.TargetFor(models.Category(category.String), int(minutes.Int64))
		g.AIAdvice = advice.String
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SaveGoals replaces the stored goals with the given snapshot.
func (s *Store) SaveGoals(ctx context.Context, goals []models.Goal) error {
	return s.replaceAll(ctx, "goals", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO goals (id, position, title, description, target_type, target_category, target_minutes, ai_advice)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare goal insert: %w", err)
		}
		defer stmt.Close()

		for i, g := range goals {
			category, minutes := targetColumns(g.Target)
			advice := sql.NullString{String: g.AIAdvice, Valid: g.AIAdvice != ""}
			if _, err := stmt.ExecContext(ctx, g.ID, i, g.Title, g.Description, string(g.TargetType), category, minutes, advice); err != nil {
				return fmt.Errorf("failed to insert goal %s: %w", g.ID, err)
			}
		}
		return nil
	})
}

func targetColumns(target models.Target) (sql.NullString, sql.NullInt64) {
	switch t := target.(type) {
	case models.CategoryTarget:
		return sql.NullString{String: string(t.Category), Valid: true}, sql.NullInt64{}
	case models.QuantifiedTarget:
		return sql.NullString{String: string(t.Category), Valid: true}, sql.NullInt64{Int64: int64(t.Minutes), Valid: true}
	}
	return sql.NullString{}, sql.NullInt64{}
}
