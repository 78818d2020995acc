package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	settings := s.Settings()

	ctx.Println("Current Settings:")
	ctx.Printf("  %-16s %s (today is %s)\n", constants.SettingTimezone+":", settings.Timezone, s.Today())
	ctx.Printf("  %-16s %v\n", constants.SettingCascadeDelete+":", settings.CascadeDelete)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" enum:"timezone,cascade_delete" help:"Setting name (timezone, cascade_delete)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	settings := s.Settings()

	switch c.Key {
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(c.Value) {
			return fmt.Errorf("invalid timezone %q (use an IANA name such as Europe/Berlin, or Local)", c.Value)
		}
		settings.Timezone = c.Value
	case constants.SettingCascadeDelete:
		b, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q (expected true or false)", c.Key, c.Value)
		}
		settings.CascadeDelete = b
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := s.UpdateSettings(ctx.Ctx(), settings); err != nil {
		return err
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
