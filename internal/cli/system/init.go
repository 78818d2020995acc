package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/levelup/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.Path()

	if c.Force && dbPath != "" {
		// Close first to release the file before deleting it
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		ctx.ResetSession()

		if _, err := os.Stat(dbPath); err == nil {
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Open(ctx.Ctx()); err != nil {
		return err
	}

	if dbPath == "" {
		ctx.Println("Initialized in-memory levelup storage")
	} else {
		ctx.Printf("Initialized levelup storage at: %s\n", dbPath)
	}
	return nil
}
