package sqlite

import (
	"context"
	"time"
)

// LegacyImport records one migration of a collection out of the legacy
// key-value store.
type LegacyImport struct {
	Collection string
	LegacyKey  string
	Records    int
	ImportedAt time.Time
}

func (s *Store) RecordLegacyImport(ctx context.Context, collection, legacyKey string, records int) error {
	if s.db == nil {
		return ErrNotOpen
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO legacy_imports (collection, legacy_key, records, imported_at)
		VALUES (?, ?, ?, ?)`,
		collection, legacyKey, records, time.Now().UTC().Format(time.RFC3339))
	return err
}

// HasLegacyImport reports whether collection was ever imported.
func (s *Store) HasLegacyImport(ctx context.Context, collection string) (bool, error) {
	if s.db == nil {
		return false, ErrNotOpen
	}
	ok, err := s.tableExists(ctx, "legacy_imports")
	if err != nil || !ok {
		return false, err
	}
	var count int
	err = s.db.QueryRowContext(ctx, "SELECT count(*) FROM legacy_imports WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LegacyImports lists recorded imports, oldest first.
func (s *Store) LegacyImports(ctx context.Context) ([]LegacyImport, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	ok, err := s.tableExists(ctx, "legacy_imports")
	if err != nil || !ok {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT collection, legacy_key, records, imported_at
		FROM legacy_imports ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []LegacyImport
	for rows.Next() {
		var imp LegacyImport
		var importedAt string
		if err := rows.Scan(&imp.Collection, &imp.LegacyKey, &imp.Records, &importedAt); err != nil {
			return nil, err
		}
		imp.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}
