package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/gate"
)

type LockCmd struct {
	Set    LockSetCmd    `cmd:"" help:"Set or change the unlock password."`
	Clear  LockClearCmd  `cmd:"" help:"Remove the unlock password."`
	Status LockStatusCmd `cmd:"" help:"Show whether a password is set." default:"1"`
}

type LockSetCmd struct{}

func (c *LockSetCmd) Run(ctx *cli.Context) error {
	var password, confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return gate.ErrEmptyPassword
					}
					return nil
				}).
				Value(&password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := ctx.Gate.Set(password); err != nil {
		return err
	}
	ctx.Println("✓ Password set")
	return nil
}

type LockClearCmd struct{}

func (c *LockClearCmd) Run(ctx *cli.Context) error {
	err := ctx.Gate.Reset()
	if errors.Is(err, gate.ErrNotFound) {
		ctx.Println("No password is set.")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Println("✓ Password removed; the next unlock will set a new one")
	return nil
}

type LockStatusCmd struct{}

func (c *LockStatusCmd) Run(ctx *cli.Context) error {
	set, err := ctx.Gate.IsSet()
	if err != nil {
		return err
	}
	switch {
	case ctx.NoLock:
		ctx.Println("Lock disabled (--no-lock)")
	case set:
		ctx.Println("Password set")
	default:
		ctx.Println("No password set; the first unlock will create one")
	}
	return nil
}
