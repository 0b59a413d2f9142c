package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/profile"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/file"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/redis"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type Context struct {
	Store  storage.Provider
	Config config.Config

	// Out receives command output; nil means stdout
	Out io.Writer
	// In supplies confirmation answers; nil means stdin
	In io.Reader
	// Now overrides the clock in tests
	Now func() time.Time
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Stdin() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) Clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}

// Habits returns a habit store over the context's slots, already loaded.
func (c *Context) Habits() *habits.Store {
	s := habits.NewStore(c.Store, habits.WithClock(c.Clock()), habits.WithLocation(c.Config.Location()))
	s.Load()
	return s
}

func (c *Context) Profiles() *profile.Store {
	return profile.NewStore(c.Store)
}

// SQLitePath returns the database file when the store is SQLite.
func (c *Context) SQLitePath() (string, bool) {
	if s, ok := c.Store.(*sqlite.Store); ok {
		return s.GetConfigPath(), true
	}
	return "", false
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks the slot backend from a DSN: postgres:// and
// postgresql:// URLs, redis:// and rediss:// URLs, file://<dir>, and
// anything else as a SQLite file path.
func OpenStore(dsn string) (storage.Provider, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("storage location must not be empty")
	case postgres.IsConnString(dsn):
		if err := postgres.ValidateConnString(dsn); err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return redis.New(dsn), nil
	case strings.HasPrefix(dsn, "file://"):
		dir := config.ExpandHome(strings.TrimPrefix(dsn, "file://"))
		if dir == "" {
			return nil, fmt.Errorf("file:// storage needs a directory")
		}
		return file.NewStore(filepath.Clean(dir)), nil
	default:
		return sqlite.NewStore(config.ExpandHome(dsn)), nil
	}
}

// Confirm asks a yes/no question. With no input override it shows a huh
// confirm prompt; otherwise it reads a y/N line from In.
func (c *Context) Confirm(question, description string) bool {
	if c.In == nil {
		ok := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(question).
					Description(description).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		return err == nil && ok
	}

	if description != "" {
		c.Println(description)
	}
	c.Printf("%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(c.Stdin(), &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
