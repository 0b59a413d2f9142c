package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/account"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/cli/tracking"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to config.yaml." type:"string" default:"${config_file}"`
	Store   string `help:"Storage location: a SQLite file path, file://<dir>, redis:// URL or PostgreSQL connection string. Overrides the config file."`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init      system.InitCmd        `cmd:"" help:"Initialize habitual storage."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit     tracking.HabitCmd     `cmd:"" help:"Manage habits and mark completions."`
	Suggest   tracking.SuggestCmd   `cmd:"" help:"Suggest cue and action pairs for an identity."`
	Dashboard tracking.DashboardCmd `cmd:"" help:"Show progress metrics."`
	Profile   account.ProfileCmd    `cmd:"" help:"Manage your profile."`
	Keyring   system.KeyringCmd     `cmd:"" help:"Manage the API credential in the OS keyring."`
	Backup    backups.BackupCmd     `cmd:"" help:"Manage database backups."`
	Doctor    system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Inspect   system.DebugCmd       `cmd:"" name:"debug" hidden:"" help:"Debug commands for troubleshooting."`
}

func newParser(c *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Identity-based habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	}, options...)
	return kong.New(c, options...)
}

// run parses args and executes the selected command. out and in replace
// stdout and stdin when non-nil.
func run(args []string, out io.Writer, in io.Reader) error {
	var c CLI
	parser, err := newParser(&c)
	if err != nil {
		return err
	}
	if out != nil {
		parser.Stdout = out
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Store != "" {
		cfg.Storage = config.ExpandHome(c.Store)
	}
	if c.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
		Out:    out,
		In:     in,
	}

	command := "tui"
	if sel := ctx.Selected(); sel != nil {
		command = sel.Name
	}
	if err := prepareStore(store, command); err != nil {
		return err
	}

	return ctx.Run(appCtx)
}

// prepareStore opens existing storage before a command runs. init handles
// storage itself and the TUI creates it on first launch; every other command
// needs an initialized store.
func prepareStore(store storage.Provider, command string) error {
	if command == "init" {
		return nil
	}
	err := store.Load()
	if err == nil || !errors.Is(err, storage.ErrNotInitialized) {
		return err
	}
	if command != "tui" {
		return apperrors.WithHint(err, "Or point --store at existing storage.")
	}
	logger.Info("Creating storage on first launch", "path", store.GetConfigPath())
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], nil, nil); err != nil {
		apperrors.Fatal(err)
	}
}
