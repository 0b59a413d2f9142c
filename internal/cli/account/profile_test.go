package account

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/storage/file"
)

func setupTestContext(t *testing.T, input string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := file.NewStore(filepath.Join(t.TempDir(), "data"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:  store,
		Config: config.Default(),
		Out:    out,
		In:     strings.NewReader(input),
	}, out
}

func TestProfileLifecycle(t *testing.T) {
	ctx, out := setupTestContext(t, "y\n")

	if err := (&ProfileShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No profile yet") {
		t.Errorf("show without profile = %q", out.String())
	}

	out.Reset()
	if err := (&ProfileSetCmd{Name: " Ada Lovelace ", Credential: "sk-test-123456"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !strings.Contains(out.String(), "Ada Lovelace") || !strings.Contains(out.String(), "••••••••3456") {
		t.Errorf("set output = %q", out.String())
	}
	if strings.Contains(out.String(), "sk-test") {
		t.Error("credential must be masked in output")
	}

	out.Reset()
	if err := (&ProfileShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Name:           Ada Lovelace") {
		t.Errorf("show output = %q", out.String())
	}

	if err := (&ProfileResetCmd{}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, ok := ctx.Profiles().Load(); ok {
		t.Error("profile should be removed")
	}
}

func TestProfileSetRequiresName(t *testing.T) {
	ctx, _ := setupTestContext(t, "")
	if err := (&ProfileSetCmd{Name: "   "}).Run(ctx); err == nil {
		t.Error("expected an error for a blank name")
	}
}

func TestProfileResetDeclined(t *testing.T) {
	ctx, out := setupTestContext(t, "n\n")
	if err := (&ProfileSetCmd{Name: "Grace"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ProfileResetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := ctx.Profiles().Load(); !ok {
		t.Error("declined reset must keep the profile")
	}
	if !strings.Contains(out.String(), "Reset cancelled.") {
		t.Errorf("output = %q", out.String())
	}
}
