package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/storage/legacy"
	"github.com/julianstephens/timewise/internal/storage/sqlite"
)

const legacyActivities = `[
	{"id":"a1","name":"Deep work","category":"Work","duration":120,"timestamp":1741168800000},
	{"id":"a2","name":"Gym","category":"Exercise","duration":45,"timestamp":1741172400000}
]`

const legacyGoals = `[
	{"id":"g1","title":"Read more","targetType":"MORE","targetCategory":"Study","targetMinutes":60}
]`

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.UseWriter(&buf, log.DebugLevel)
	return &buf
}

func setupPrimary(t *testing.T) *sqlite.Store {
	t.Helper()
	primary := sqlite.NewStore(filepath.Join(t.TempDir(), "timewise.db"))
	if err := primary.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = primary.Close() })
	return primary
}

// flakyPrimary wraps a real primary with injectable failures.
type flakyPrimary struct {
	Primary
	readErr  error
	writeErr error
	writes   int
}

func (f *flakyPrimary) LoadActivities(ctx context.Context) ([]models.Activity, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.Primary.LoadActivities(ctx)
}

func (f *flakyPrimary) SaveActivities(ctx context.Context, a []models.Activity) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Primary.SaveActivities(ctx, a)
}

func TestRoundTripPreservesOrder(t *testing.T) {
	store := New(setupPrimary(t), nil)
	ctx := context.Background()
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	want := []models.Activity{
		{ID: "z", Name: "Last alphabetically", Category: models.CategoryChores, DurationMin: 5, Timestamp: now},
		{ID: "a", Name: "First alphabetically", Category: models.CategorySleep, DurationMin: 480, Timestamp: now.Add(-8 * time.Hour)},
	}
	if err := store.SaveActivities(ctx, want); err != nil {
		t.Fatalf("SaveActivities() error = %v", err)
	}

	got, ok := store.LoadActivities(ctx)
	if !ok {
		t.Fatal("LoadActivities() reported an unreadable primary")
	}
	if len(got) != 2 || got[0].ID != "z" || got[1].ID != "a" {
		t.Errorf("LoadActivities() = %+v, want order z, a", got)
	}
}

func TestLoadMigratesLegacyOnce(t *testing.T) {
	captureLogs(t)
	primary := setupPrimary(t)
	old := legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: legacyActivities,
		constants.LegacyGoalsKey:      legacyGoals,
	})
	store := New(primary, old)
	ctx := context.Background()

	activities, ok := store.LoadActivities(ctx)
	if !ok {
		t.Fatal("LoadActivities() reported an unreadable primary")
	}
	if len(activities) != 2 || activities[0].ID != "a1" || activities[1].ID != "a2" {
		t.Fatalf("LoadActivities() = %+v, want legacy records in order", activities)
	}
	if !activities[0].Timestamp.Equal(time.UnixMilli(1741168800000)) {
		t.Errorf("timestamp = %v, want epoch ms 1741168800000", activities[0].Timestamp)
	}

	goals, _ := store.LoadGoals(ctx)
	if len(goals) != 1 {
		t.Fatalf("LoadGoals() returned %d goals, want 1", len(goals))
	}
	if target, ok := goals[0].Target.(models.QuantifiedTarget); !ok || target.Minutes != 60 {
		t.Errorf("goal target = %#v, want 60 minute quantified target", goals[0].Target)
	}

	// The primary now holds the data, so the legacy store is never consulted again.
	old.Set(constants.LegacyActivitiesKey, "{corrupt")
	again, _ := store.LoadActivities(ctx)
	if len(again) != 2 {
		t.Errorf("second LoadActivities() = %d records, want 2 from primary", len(again))
	}

	imports, err := primary.LegacyImports(ctx)
	if err != nil {
		t.Fatalf("LegacyImports() error = %v", err)
	}
	if len(imports) != 2 {
		t.Errorf("LegacyImports() = %d entries, want 2", len(imports))
	}
}

func TestLoadMigratesFromLegacyFile(t *testing.T) {
	captureLogs(t)
	path := filepath.Join(t.TempDir(), constants.LegacyFileName)
	content := `{"` + constants.LegacyActivitiesKey + `": ` + strconv.Quote(legacyActivities) + `}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write legacy file: %v", err)
	}

	store := New(setupPrimary(t), legacy.NewFile(path))
	got, _ := store.LoadActivities(context.Background())
	if len(got) != 2 {
		t.Errorf("LoadActivities() = %d records, want 2", len(got))
	}
	if goals, _ := store.LoadGoals(context.Background()); len(goals) != 0 {
		t.Errorf("LoadGoals() = %d goals, want 0 for a missing key", len(goals))
	}
}

func TestLoadMalformedLegacyIsEmpty(t *testing.T) {
	logs := captureLogs(t)
	primary := setupPrimary(t)
	store := New(primary, legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: `{"not": "an array"}`,
		constants.LegacyGoalsKey:      `[oops`,
	}))
	ctx := context.Background()

	if got, ok := store.LoadActivities(ctx); len(got) != 0 || !ok {
		t.Errorf("LoadActivities() = %d records, %v; want 0, true", len(got), ok)
	}
	if got, _ := store.LoadGoals(ctx); len(got) != 0 {
		t.Errorf("LoadGoals() = %d goals, want 0", len(got))
	}
	if !strings.Contains(logs.String(), "Malformed legacy data") {
		t.Errorf("expected malformed legacy data to be logged, got %q", logs.String())
	}

	stored, _ := primary.LoadActivities(ctx)
	if len(stored) != 0 {
		t.Error("nothing should be written to the primary for malformed legacy data")
	}
}

func TestLoadSkipsInvalidLegacyRecords(t *testing.T) {
	logs := captureLogs(t)
	store := New(setupPrimary(t), legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: `[
			{"id":"ok","name":"Nap","category":"Sleep","duration":20,"timestamp":1741168800000},
			{"id":"neg","name":"Bad","category":"Sleep","duration":-5,"timestamp":1741168800000},
			{"id":"cat","name":"Bad","category":"Gaming","duration":5,"timestamp":1741168800000},
			"not an object"
		]`,
	}))

	got, _ := store.LoadActivities(context.Background())
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("LoadActivities() = %+v, want only the valid record", got)
	}
	if !strings.Contains(logs.String(), "Skipping invalid record") {
		t.Error("expected skipped records to be logged")
	}
}

func TestLoadPrimaryUnavailableIsEmpty(t *testing.T) {
	logs := captureLogs(t)
	primary := &flakyPrimary{Primary: setupPrimary(t), readErr: errors.New("disk on fire")}
	store := New(primary, legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: legacyActivities,
	}))

	got, ok := store.LoadActivities(context.Background())
	if len(got) != 0 {
		t.Errorf("LoadActivities() = %d records, want 0", len(got))
	}
	if ok {
		t.Error("LoadActivities() should report the primary as unreadable")
	}
	if primary.writes != 0 {
		t.Error("legacy data must not be migrated when the primary cannot be read")
	}
	if !strings.Contains(logs.String(), "Primary storage unavailable") {
		t.Error("expected the read failure to be logged")
	}
}

func TestLoadUnopenedPrimaryIsEmpty(t *testing.T) {
	captureLogs(t)
	store := New(sqlite.NewStore(filepath.Join(t.TempDir(), "never-opened.db")), nil)

	got, ok := store.LoadGoals(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("LoadGoals() = %#v, want empty non-nil slice", got)
	}
	if ok {
		t.Error("LoadGoals() should report an unopened primary as unreadable")
	}
}

func TestMigrationWriteFailureStillReturnsData(t *testing.T) {
	captureLogs(t)
	inner := setupPrimary(t)
	primary := &flakyPrimary{Primary: inner, writeErr: errors.New("read-only")}
	store := New(primary, legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: legacyActivities,
	}))
	ctx := context.Background()

	if got, ok := store.LoadActivities(ctx); len(got) != 2 || !ok {
		t.Errorf("LoadActivities() = %d records, %v; want 2, true despite failed migration write", len(got), ok)
	}

	// Next load retries since the primary is still empty.
	primary.writeErr = nil
	if got, _ := store.LoadActivities(ctx); len(got) != 2 {
		t.Errorf("LoadActivities() retry = %d records, want 2", len(got))
	}
	if primary.writes != 2 {
		t.Errorf("writes = %d, want 2", primary.writes)
	}
	stored, _ := inner.LoadActivities(ctx)
	if len(stored) != 2 {
		t.Errorf("primary holds %d records after retry, want 2", len(stored))
	}
}

func TestSaveReportsFailure(t *testing.T) {
	captureLogs(t)
	primary := &flakyPrimary{Primary: setupPrimary(t), writeErr: errors.New("quota exceeded")}
	store := New(primary, nil)

	err := store.SaveActivities(context.Background(), []models.Activity{})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("SaveActivities() error = %v, want quota exceeded", err)
	}
}

func TestLoadDoesNotReimportAfterDeletingEverything(t *testing.T) {
	captureLogs(t)
	primary := setupPrimary(t)
	store := New(primary, legacy.NewMap(map[string]string{
		constants.LegacyActivitiesKey: legacyActivities,
	}))
	ctx := context.Background()

	if got, _ := store.LoadActivities(ctx); len(got) != 2 {
		t.Fatalf("LoadActivities() = %d records, want 2 migrated", len(got))
	}
	if err := store.SaveActivities(ctx, nil); err != nil {
		t.Fatalf("SaveActivities() error = %v", err)
	}

	got, ok := store.LoadActivities(ctx)
	if len(got) != 0 || !ok {
		t.Errorf("LoadActivities() after deleting all = %d records, %v; want 0, true", len(got), ok)
	}
	imports, _ := primary.LegacyImports(ctx)
	if len(imports) != 1 {
		t.Errorf("LegacyImports() = %d entries, want the single original import", len(imports))
	}
}
