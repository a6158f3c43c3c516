package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team151/robotcore/internal/core/domain"
)

func TestSettingsCmd_RequiresService(t *testing.T) {
	orig := settingsService
	settingsService = nil
	defer func() { settingsService = orig }()

	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "set", "drive.deadzone", "0.1"},
		{"settings", "reset"},
		{"settings", "wizard"},
	} {
		_, err := runCommand(t, args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestSettingsShow_PrintsDefaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Mode: arcade")
	assert.Contains(t, out, "Turn gain: 0.75")
	assert.Contains(t, out, "Straight gain: 1.00")
	assert.Contains(t, out, "Deadzone: 0.04")
	assert.Contains(t, out, "Left vertical axis: 1")
	assert.Contains(t, out, "Period: 20ms")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.RobotSettings)
	}{
		{"drive.turn_gain", "0.5", func(t *testing.T, s *domain.RobotSettings) {
			assert.InDelta(t, 0.5, s.Drive.Gains.TurnGain, 1e-9)
			assert.InDelta(t, domain.DefaultStraightGain, s.Drive.Gains.StraightGain, 1e-9)
		}},
		{"drive.straight_gain", "0.8", func(t *testing.T, s *domain.RobotSettings) {
			assert.InDelta(t, 0.8, s.Drive.Gains.StraightGain, 1e-9)
		}},
		{"drive.deadzone", "0.1", func(t *testing.T, s *domain.RobotSettings) {
			assert.InDelta(t, 0.1, s.Drive.Deadzone, 1e-9)
		}},
		{"drive.mode", "TANK", func(t *testing.T, s *domain.RobotSettings) {
			assert.Equal(t, domain.DriveModeTank, s.Drive.Mode)
		}},
		{"drive.distance_per_pulse", "0.02", func(t *testing.T, s *domain.RobotSettings) {
			assert.InDelta(t, 0.02, s.Drive.DistancePerPulse, 1e-9)
		}},
		{"input.right_lateral", "2", func(t *testing.T, s *domain.RobotSettings) {
			assert.Equal(t, 2, s.Input.Axes.RightLateral)
		}},
		{"scheduler.period_ms", "10", func(t *testing.T, s *domain.RobotSettings) {
			assert.Equal(t, 10*time.Millisecond, s.Scheduler.Period)
		}},
		{"journal.keep", "5", func(t *testing.T, s *domain.RobotSettings) {
			assert.Equal(t, 5, s.Scheduler.JournalKeep)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			out, err := runCommand(t, "settings", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Contains(t, out, "Set "+tt.key)

			settings, err := settingsService.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown key", "drive.top_speed", "3", "unknown setting"},
		{"not a number", "drive.turn_gain", "fast", "invalid number"},
		{"not an integer", "journal.keep", "1.5", "invalid integer"},
		{"negative gain", "drive.turn_gain", "-1", "failed to set gains"},
		{"deadzone out of range", "drive.deadzone", "1", "failed to set deadzone"},
		{"bad mode", "drive.mode", "swerve", "failed to set drive mode"},
		{"zero period", "scheduler.period_ms", "0", "failed to save settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			_, err := runCommand(t, "settings", "set", tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			settings, err := settingsService.Get()
			require.NoError(t, err)
			assert.Equal(t, settingsService.GetDefaults(), *settings)
		})
	}
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	_, err := runCommand(t, "settings", "set", "drive.mode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsReset(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, settingsService.SetDeadzone(0.2))

	out, err := runCommand(t, "settings", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults.")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultDeadzone, settings.Drive.Deadzone, 1e-9)
}

func TestSettingsWizard(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("2\n0.6\n\n0.08\n"))
	rootCmd.SetArgs([]string{"settings", "wizard"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "Settings saved.")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DriveModeTank, settings.Drive.Mode)
	assert.InDelta(t, 0.6, settings.Drive.Gains.TurnGain, 1e-9)
	assert.InDelta(t, domain.DefaultStraightGain, settings.Drive.Gains.StraightGain, 1e-9)
	assert.InDelta(t, 0.08, settings.Drive.Deadzone, 1e-9)
}

func TestSettingsWizard_InvalidValueNotSaved(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader("\n\n\n1.5\n"))
	rootCmd.SetArgs([]string{"settings", "wizard"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save settings")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 2, 1, 1},
		{"Valid choice within range", "2", 2, 1, 2},
		{"Choice below minimum returns default", "0", 2, 1, 1},
		{"Choice above maximum returns default", "3", 2, 1, 1},
		{"Non-numeric returns default", "tank", 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestParseFloat(t *testing.T) {
	assert.InDelta(t, 0.75, parseFloat("", 0.75), 1e-9)
	assert.InDelta(t, 0.5, parseFloat("0.5", 0.75), 1e-9)
	assert.InDelta(t, 0.75, parseFloat("half", 0.75), 1e-9)
}
