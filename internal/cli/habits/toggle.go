package habits

import (
	"fmt"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/utils"
)

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = s.Today()
	} else if !utils.ValidateKey(day) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	if day > s.Today() {
		return fmt.Errorf("cannot mark %s: date is in the future", day)
	}
	if day < utils.FormatKey(s.Window()[0]) {
		return fmt.Errorf("cannot mark %s: only the last %d days are tracked", day, constants.WindowDays)
	}

	h, err := s.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	res, err := s.Toggle(ctx.Ctx(), h.ID, day)
	if err != nil {
		return err
	}

	if res.Completed {
		ctx.Printf("✓ %s done on %s\n", h.Name, day)
	} else {
		ctx.Printf("✗ %s cleared on %s\n", h.Name, day)
	}
	return nil
}
