package account

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type ProfileCmd struct {
	Show  ProfileShowCmd  `cmd:"" help:"Show the profile." default:"1"`
	Set   ProfileSetCmd   `cmd:"" help:"Create or replace the profile."`
	Reset ProfileResetCmd `cmd:"" help:"Remove the profile (habits are kept)."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	p, ok := ctx.Profiles().Load()
	if !ok {
		ctx.Println("No profile yet. Create one with 'habitual profile set --name <name>' or open the TUI.")
		return nil
	}
	ctx.Printf("Name:           %s\n", p.DisplayName)
	ctx.Printf("API credential: %s\n", p.MaskedCredential())
	return nil
}

type ProfileSetCmd struct {
	Name       string `help:"Display name." required:""`
	Credential string `help:"Suggestion provider API credential (stored in the profile)." env:"HABITUAL_PROFILE_CREDENTIAL"`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	p := models.UserProfile{DisplayName: c.Name, APICredential: c.Credential}
	if err := ctx.Profiles().Save(p); err != nil {
		return err
	}
	saved, _ := ctx.Profiles().Load()
	ctx.Printf("✓ Profile saved for %s (credential: %s)\n", saved.DisplayName, saved.MaskedCredential())
	return nil
}

type ProfileResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ProfileResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes && !ctx.Confirm("Reset profile?", constants.ResetWarning) {
		ctx.Println("Reset cancelled.")
		return nil
	}
	if err := ctx.Profiles().Clear(); err != nil {
		return err
	}
	ctx.Println("✓ Profile removed")
	return nil
}
