package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timewise/internal/backup"
	"github.com/julianstephens/timewise/internal/coach"
	"github.com/julianstephens/timewise/internal/config"
	apperrors "github.com/julianstephens/timewise/internal/errors"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/session"
	"github.com/julianstephens/timewise/internal/storage"
	"github.com/julianstephens/timewise/internal/storage/legacy"
	"github.com/julianstephens/timewise/internal/storage/sqlite"
)

type Context struct {
	Config *config.Config
	Store  *sqlite.Store
	// Out receives command output; nil means stdout.
	Out io.Writer
	// Coach overrides the coaching service built from configuration.
	Coach coach.Service
	// Confirm overrides the interactive confirmation prompt.
	Confirm func(title string) (bool, error)

	session *session.Session
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Println writes a line of output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Session returns the loaded session, loading it on first use.
func (c *Context) Session(ctx context.Context) (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}

	loc, err := c.Config.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Config.Timezone, err)
	}
	var legacySource storage.LegacySource
	if c.Config.LegacyFile != "" {
		legacySource = legacy.NewFile(c.Config.LegacyFile)
	}

	sess := session.New(storage.New(c.Store, legacySource),
		session.WithLocation(loc),
		session.WithLoadTimeout(c.Config.LoadTimeout),
	)
	sess.Load(ctx)
	if sess.Degraded() {
		c.Println(WarningStyle.Render(apperrors.Warning(errors.New("stored data could not be read; changes are disabled for this run"))))
	}
	c.session = sess
	return sess, nil
}

// CoachService returns the configured coaching service.
func (c *Context) CoachService() (coach.Service, error) {
	if c.Coach != nil {
		return c.Coach, nil
	}
	svc, err := coach.NewGeminiCoach(c.Config.ResolveAPIKey(), c.Config.Gemini.Model)
	if err != nil {
		return nil, err
	}
	c.Coach = svc
	return svc, nil
}

// ConfirmAction asks a yes/no question. yes skips the prompt.
func (c *Context) ConfirmAction(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title)
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}

// PerformAutomaticBackup takes at most one backup per day and never
// interrupts the command on failure.
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	created, err := mgr.CreateDailyBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if created {
		logger.Debug("Automatic backup created", "dir", mgr.GetBackupDir())
	}
}

// RequestContext bounds a single coaching request.
func RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// SaveOutcome downgrades a failed write-back to a printed warning, since the
// change still holds for this run. Every other error passes through.
func (c *Context) SaveOutcome(err error) error {
	if err == nil || !errors.Is(err, session.ErrSaveFailed) {
		return err
	}
	logger.Error("Save failed", "error", err)
	c.Println(WarningStyle.Render(apperrors.Warning(err)))
	return nil
}
