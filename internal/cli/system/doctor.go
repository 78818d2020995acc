package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/levelup/internal/backup"
	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/session"
	"github.com/julianstephens/levelup/internal/utils"
	"github.com/julianstephens/levelup/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Delete logs that fail validation (orphaned, expired, mismatched)."`
}

// schemaChecker is implemented by stores with a versioned schema.
type schemaChecker interface {
	SchemaVersion(ctx context.Context) (int, error)
	ValidateSchema(ctx context.Context) error
}

type check struct {
	name    string
	run     func() error
	warning bool
	needsDB bool
	// detail, when set, is printed after OK
	detail *string
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	var s *session.Session
	var schema string
	checks := []check{
		{name: "Database reachable", run: func() error {
			var err error
			s, err = ctx.Session()
			return err
		}},
		{name: "Schema version", needsDB: true, detail: &schema, run: func() error {
			var err error
			schema, err = checkSchemaVersion(ctx)
			return err
		}},
		{name: "Data validation", needsDB: true, run: func() error {
			return cmd.checkValidation(ctx, s)
		}},
		{name: "Clock/timezone", needsDB: true, run: func() error {
			return checkClockTimezone(s)
		}},
		{name: "Backups present", warning: true, run: func() error {
			return checkBackupsPresent(ctx)
		}},
		{name: "Keyring", warning: true, run: checkKeyring},
	}

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run()
		switch {
		case err == nil && c.detail != nil && *c.detail != "":
			ctx.Printf("✓ %s: OK (%s)\n", c.name, *c.detail)
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if s == nil {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) (string, error) {
	sc, ok := ctx.Store.(schemaChecker)
	if !ok {
		// volatile stores have no schema
		return "", nil
	}
	if err := sc.ValidateSchema(ctx.Ctx()); err != nil {
		return "", err
	}
	v, err := sc.SchemaVersion(ctx.Ctx())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("v%d", v), nil
}

func (cmd *DoctorCmd) checkValidation(ctx *cli.Context, s *session.Session) error {
	result := validation.New().Validate(s.Habits(), s.Logs(), s.Today())
	if !result.HasConflicts() {
		return nil
	}

	if !cmd.Fix {
		return fmt.Errorf("%d conflict(s) found (run with --fix to repair logs)\n%s", len(result.Conflicts), result.FormatReport())
	}

	actions, err := validation.AutoFix(ctx.Ctx(), ctx.Store, result)
	if err != nil {
		return err
	}
	for _, a := range actions {
		ctx.Printf("   Fixed: %s\n", a.Action)
	}
	if err := s.Refresh(ctx.Ctx()); err != nil {
		return err
	}

	remaining := validation.New().Validate(s.Habits(), s.Logs(), s.Today())
	if remaining.HasConflicts() {
		return fmt.Errorf("%d conflict(s) need manual attention\n%s", len(remaining.Conflicts), remaining.FormatReport())
	}
	return nil
}

func checkClockTimezone(s *session.Session) error {
	tz := s.Settings().Timezone
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone setting: %q", tz)
	}

	now := s.Now()
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.Path()
	if path == "" {
		return fmt.Errorf("in-memory database, nothing to back up")
	}

	mgr := backup.NewManager(path)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'levelup backup create'")
	}
	return nil
}

func checkKeyring() error {
	if !gate.IsAvailable() {
		return fmt.Errorf("OS keyring unavailable; the lock screen needs --no-lock")
	}
	return nil
}
