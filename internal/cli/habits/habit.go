package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/constants"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Name []string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	h, err := s.AddHabit(ctx.Ctx(), strings.Join(c.Name, " "))
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s\n", h.Name)
	return nil
}

type HabitListCmd struct {
	IDs bool `name:"ids" help:"Show habit IDs."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	habits := s.Habits()
	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'levelup habit add <name>'.")
		return nil
	}

	today := s.Today()
	for _, h := range habits {
		mark := " "
		if s.IsCompleted(h.ID, today) {
			mark = "✓"
		}
		if c.IDs {
			ctx.Printf("[%s] %s  (%s, since %s)\n", mark, h.Name, h.ID, h.CreatedAt.In(s.Location()).Format(constants.DateFormat))
		} else {
			ctx.Printf("[%s] %s\n", mark, h.Name)
		}
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit    string `arg:"" help:"Habit name or ID."`
	Yes      bool   `short:"y" help:"Do not ask for confirmation."`
	KeepLogs bool   `help:"Keep the habit's completion logs."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	h, err := s.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete habit %q?", h.Name)).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if c.KeepLogs {
		if err := s.DeleteHabitKeepLogs(ctx.Ctx(), h.ID); err != nil {
			return err
		}
		ctx.Printf("Deleted habit: %s (logs kept)\n", h.Name)
		return nil
	}

	removed, err := s.DeleteHabit(ctx.Ctx(), h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s (%d log(s) removed)\n", h.Name, removed)
	return nil
}
