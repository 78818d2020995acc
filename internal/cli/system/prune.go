package system

import (
	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/retention"
	"github.com/julianstephens/levelup/internal/utils"
)

type PruneCmd struct{}

func (c *PruneCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	// opening the session already pruned once
	n, err := retention.NewPolicy(ctx.Store).Prune(ctx.Ctx(), s.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		if err := s.Refresh(ctx.Ctx()); err != nil {
			return err
		}
	}

	ctx.Printf("Pruned %d log(s) dated before %s\n", s.Pruned()+n, utils.RetentionCutoff(s.Now()))
	return nil
}
