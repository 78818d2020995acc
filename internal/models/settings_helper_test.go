package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToSettings(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]string
		want    Settings
		wantErr bool
	}{
		{
			name: "empty map yields defaults",
			data: map[string]string{},
			want: Settings{Timezone: "Local", CascadeDelete: true},
		},
		{
			name: "explicit values",
			data: map[string]string{"timezone": "Europe/London", "cascade_delete": "false"},
			want: Settings{Timezone: "Europe/London", CascadeDelete: false},
		},
		{
			name: "empty timezone falls back to Local",
			data: map[string]string{"timezone": ""},
			want: Settings{Timezone: "Local", CascadeDelete: true},
		},
		{
			name:    "invalid bool",
			data:    map[string]string{"cascade_delete": "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapToSettings(tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsToMapRoundTrip(t *testing.T) {
	in := Settings{Timezone: "Asia/Tokyo", CascadeDelete: false}
	out, err := MapToSettings(SettingsToMap(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
