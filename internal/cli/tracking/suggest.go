package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/suggest"
)

type SuggestCmd struct {
	Identity string `arg:"" help:"Identity to build habits for (e.g. \"Runner\")."`
	Context  string `help:"Personal context or constraints to tailor the ideas."`
	Add      []int  `help:"Add the suggestions with these numbers as habits." sep:","`
}

// newProvider is swapped out in tests.
var newProvider = suggest.New

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	identity := strings.TrimSpace(c.Identity)
	if identity == "" {
		return fmt.Errorf("identity must not be empty")
	}

	p, _ := ctx.Profiles().Load()
	provider := newProvider(suggest.ResolveCredential(p), ctx.Config.Suggest)

	reqCtx := context.Background()
	if ctx.Config.Suggest.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, ctx.Config.Suggest.Timeout)
		defer cancel()
	}

	store := ctx.Habits()
	suggestions := suggest.Filter(provider.Suggest(reqCtx, identity, c.Context), store.List(), identity)
	if len(suggestions) == 0 {
		ctx.Println("No suggestions available right now. Try again or add a habit manually.")
		return nil
	}

	ctx.Printf("Habits for becoming a %s (%s):\n\n", identity, provider.Name())
	for i, s := range suggestions {
		ctx.Printf("  %d. %s → %s\n", i+1, s.Cue, s.Action)
	}

	if len(c.Add) == 0 {
		return nil
	}

	ctx.Println()
	for _, n := range c.Add {
		if n < 1 || n > len(suggestions) {
			return fmt.Errorf("no suggestion numbered %d", n)
		}
	}
	added := make(map[int]bool, len(c.Add))
	for _, n := range c.Add {
		if added[n] {
			continue
		}
		added[n] = true
		s := suggestions[n-1]
		h, err := store.Add(models.NewHabit(identity, s.Cue, s.Action))
		if err != nil {
			return err
		}
		ctx.Printf("✓ Added habit %s: %s\n", shortID(h.ID), h.Action)
	}
	return nil
}
