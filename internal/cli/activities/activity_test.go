package activities

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/config"
	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var out bytes.Buffer
	ctx := &cli.Context{
		Config: &config.Config{
			DBPath:      store.GetConfigPath(),
			LegacyFile:  filepath.Join(dir, "localstorage.json"),
			Timezone:    "UTC",
			LoadTimeout: constants.DefaultLoadTimeout,
		},
		Store: store,
		Out:   &out,
	}
	return ctx, &out
}

func TestActivityAddAndList(t *testing.T) {
	ctx, out := setupTestContext(t)

	add := &ActivityAddCmd{Name: "Deep work", Category: "work", Duration: 1.5, Unit: "hours"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("activity add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged Deep work (Work, 1h 30m)") {
		t.Errorf("unexpected add output: %q", out.String())
	}

	stored, err := ctx.Store.LoadActivities(context.Background())
	if err != nil {
		t.Fatalf("LoadActivities failed: %v", err)
	}
	if len(stored) != 1 || stored[0].DurationMin != 90 {
		t.Fatalf("stored activities = %+v, want one 90 minute activity", stored)
	}

	out.Reset()
	if err := (&ActivityListCmd{}).Run(ctx); err != nil {
		t.Fatalf("activity list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deep work") || !strings.Contains(out.String(), stored[0].ID) {
		t.Errorf("list output missing activity: %q", out.String())
	}
}

func TestActivityAddRejectsBadInput(t *testing.T) {
	ctx, _ := setupTestContext(t)

	tests := []struct {
		name string
		cmd  ActivityAddCmd
	}{
		{"unknown category", ActivityAddCmd{Name: "x", Category: "gaming", Duration: 10, Unit: "minutes"}},
		{"zero duration", ActivityAddCmd{Name: "x", Category: "Work", Duration: 0, Unit: "minutes"}},
		{"blank name", ActivityAddCmd{Name: "  ", Category: "Work", Duration: 10, Unit: "minutes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	stored, _ := ctx.Store.LoadActivities(context.Background())
	if len(stored) != 0 {
		t.Errorf("nothing should be stored, got %d", len(stored))
	}
}

func TestActivityDelete(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&ActivityAddCmd{Name: "Nap", Category: "Sleep", Duration: 20, Unit: "minutes"}).Run(ctx); err != nil {
		t.Fatalf("activity add failed: %v", err)
	}
	stored, _ := ctx.Store.LoadActivities(context.Background())
	id := stored[0].ID

	ctx.Confirm = func(string) (bool, error) { return false, nil }
	if err := (&ActivityDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("activity delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("expected cancellation, got %q", out.String())
	}

	if err := (&ActivityDeleteCmd{ID: id, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("activity delete failed: %v", err)
	}
	stored, _ = ctx.Store.LoadActivities(context.Background())
	if len(stored) != 0 {
		t.Errorf("activity was not deleted")
	}

	if err := (&ActivityDeleteCmd{ID: "missing", Yes: true}).Run(ctx); err == nil {
		t.Error("deleting an unknown id should fail")
	}
}
