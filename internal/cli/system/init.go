package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
)

type InitCmd struct {
	Force       bool `help:"Erase existing habits and profile before initializing."`
	WriteConfig bool `help:"Also write a config.yaml with the current settings."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.WriteConfig {
		path := ctx.Config.Path()
		if path == "" {
			path = constants.DefaultConfigFile
		}
		if err := ctx.Config.Save(path); err != nil {
			return err
		}
		ctx.Printf("Wrote config to: %s\n", path)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if dbPath, ok := ctx.SQLitePath(); ok {
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
		return nil
	}

	if err := ctx.Store.Load(); err != nil {
		// Nothing to erase yet
		return nil
	}
	for _, key := range []string{constants.HabitsSlot, constants.ProfileSlot} {
		if err := ctx.Store.DeleteSlot(key); err != nil {
			return fmt.Errorf("failed to erase %s: %w", key, err)
		}
	}
	ctx.Printf("Erased existing data at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
