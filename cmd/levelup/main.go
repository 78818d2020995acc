package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/cli/backups"
	"github.com/julianstephens/levelup/internal/cli/habits"
	"github.com/julianstephens/levelup/internal/cli/settings"
	"github.com/julianstephens/levelup/internal/cli/system"
	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/errors"
	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/storage/memory"
	"github.com/julianstephens/levelup/internal/storage/sqlite"
)

var CLI struct {
	Version   kong.VersionFlag
	DB        string `help:"Path to the SQLite database." type:"path" env:"LEVELUP_DB" default:"${db_path}"`
	Debug     bool   `help:"Log debug output to stderr as well as the log file." env:"LEVELUP_DEBUG"`
	NoLock    bool   `help:"Skip the password prompt in the TUI." env:"LEVELUP_NO_LOCK"`
	Ephemeral bool   `help:"Keep all data in memory for this run only."`

	Init     system.InitCmd       `cmd:"" help:"Initialize levelup storage."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Toggle   habits.ToggleCmd     `cmd:"" help:"Mark or clear a habit for a day."`
	Grid     habits.GridCmd       `cmd:"" help:"Show the completion grid."`
	Stats    habits.StatsCmd      `cmd:"" help:"Show completion scores and streaks."`
	Prune    system.PruneCmd      `cmd:"" help:"Delete logs older than the retention window."`
	Lock     system.LockCmd       `cmd:"" help:"Manage the TUI password."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("40-day habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"db_path": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.DB),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logger.Close()

	var store storage.Provider
	if CLI.Ephemeral {
		store = memory.NewStore()
	} else {
		store = sqlite.NewStore(CLI.DB)
	}

	appCtx := &cli.Context{
		Store:  store,
		Gate:   gate.New(),
		NoLock: CLI.NoLock,
	}

	err := ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	if err != nil {
		errors.Fatal(err)
	}
}
