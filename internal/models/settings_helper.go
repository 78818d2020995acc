package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/levelup/internal/constants"
)

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{
		Timezone:      constants.DefaultTimezone,
		CascadeDelete: constants.DefaultCascadeDelete,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys that are absent keep their default value; unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCascadeDelete:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingCascadeDelete, err)
			}
			settings.CascadeDelete = b
		}
	}
	ApplyDefaultSettings(&settings)
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:      settings.Timezone,
		constants.SettingCascadeDelete: strconv.FormatBool(settings.CascadeDelete),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// SettingKeys lists the keys accepted by the settings command.
func SettingKeys() []string {
	return []string{constants.SettingTimezone, constants.SettingCascadeDelete}
}
