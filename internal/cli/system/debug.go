package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type DebugCmd struct {
	Path        DebugPathCmd        `cmd:"" help:"Show the storage location."`
	Slots       DebugSlotsCmd       `cmd:"" help:"List stored slot keys."`
	DumpHabit   DebugDumpHabitCmd   `cmd:"" help:"Dump habit data as JSON."`
	DumpProfile DebugDumpProfileCmd `cmd:"" help:"Dump the profile as JSON with the credential masked."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugSlotsCmd struct{}

func (cmd *DebugSlotsCmd) Run(ctx *cli.Context) error {
	lister, ok := ctx.Store.(storage.Lister)
	if !ok {
		return fmt.Errorf("storage backend cannot list slots")
	}
	keys, err := lister.ListSlots()
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return printJSON(ctx, keys)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" optional:"" help:"ID or unique prefix of the habit; all habits when omitted."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	if cmd.ID == "" {
		return printJSON(ctx, store.List())
	}
	h, err := store.Resolve(cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpProfileCmd struct{}

func (cmd *DebugDumpProfileCmd) Run(ctx *cli.Context) error {
	p, ok := ctx.Profiles().Load()
	if !ok {
		return errors.New("no profile stored")
	}
	if p.APICredential != "" {
		p.APICredential = p.MaskedCredential()
	}
	return printJSON(ctx, p)
}
