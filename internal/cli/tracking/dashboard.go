package tracking

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/tui/components/dashboard"
)

type DashboardCmd struct {
	Width int `help:"Render width in columns." default:"80"`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	store := ctx.Habits()
	p, _ := ctx.Profiles().Load()
	now := ctx.Clock()().In(store.Location())

	list := store.List()
	ctx.Println(dashboard.Render(metrics.Summarize(list, now), list, p.FirstName(), c.Width))
	return nil
}
