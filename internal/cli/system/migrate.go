package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/timewise/internal/cli"
	apperrors "github.com/julianstephens/timewise/internal/errors"
	"github.com/julianstephens/timewise/internal/storage/legacy"
)

// MigrateCmd applies pending schema migrations and reports the schema state
// together with any imports taken from the legacy store.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	count, err := ctx.Store.Migrate(bg)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("Successfully applied %d migration(s).\n", count)
	}

	version, err := ctx.Store.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	ctx.Printf("Schema version: %d\n", version)

	if ctx.Config != nil && ctx.Config.LegacyFile != "" {
		keys, err := legacy.NewFile(ctx.Config.LegacyFile).Keys()
		switch {
		case err != nil:
			ctx.Println(cli.WarningStyle.Render(apperrors.Warning(err)))
		case len(keys) > 0:
			ctx.Printf("Legacy file %s holds: %s\n", ctx.Config.LegacyFile, strings.Join(keys, ", "))
		}
	}

	imports, err := ctx.Store.LegacyImports(bg)
	if err != nil {
		return fmt.Errorf("failed to read legacy imports: %w", err)
	}
	if len(imports) == 0 {
		ctx.Println("No legacy data has been imported.")
		return nil
	}
	ctx.Println("\nLegacy imports:")
	for _, imp := range imports {
		ctx.Printf("  %s  %-10s %d record(s) from %s\n",
			imp.ImportedAt.Local().Format("2006-01-02 15:04:05"), imp.Collection, imp.Records, imp.LegacyKey)
	}
	return nil
}
