package system

import (
	"errors"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the suggestion API credential in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the API credential from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
}

// KeyringSetCmd stores the suggestion provider credential in the OS keyring
type KeyringSetCmd struct {
	Credential string `arg:"" help:"API credential to store."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetAPICredential(cmd.Credential); err != nil {
		return err
	}
	masked := models.UserProfile{APICredential: cmd.Credential}.MaskedCredential()
	ctx.Printf("✓ API credential %s stored in OS keyring\n", masked)
	ctx.Println("  A credential saved in the profile still takes precedence")
	return nil
}

// KeyringDeleteCmd removes the credential from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPICredential(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API credential found in keyring")
		}
		return err
	}
	ctx.Println("✓ API credential deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	credential, err := keyring.GetAPICredential()
	switch {
	case err == nil:
		masked := models.UserProfile{APICredential: credential}.MaskedCredential()
		ctx.Printf("✓ API credential is stored in keyring (%s)\n", masked)
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No API credential stored in keyring")
	default:
		return err
	}
	return nil
}
