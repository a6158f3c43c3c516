package driving

import "github.com/team151/robotcore/internal/core/domain"

// SettingsService manages robot settings.
type SettingsService interface {
	// Get retrieves current robot settings, falling back to defaults for
	// anything not configured.
	Get() (*domain.RobotSettings, error)

	// Save validates and persists robot settings.
	Save(settings *domain.RobotSettings) error

	// SetGains updates the mixer gains.
	SetGains(gains domain.DriveGains) error

	// SetDeadzone updates the joystick deadzone.
	SetDeadzone(threshold float64) error

	// SetDriveMode updates the default joystick drive mode.
	SetDriveMode(mode domain.DriveMode) error

	// GetDefaults returns default settings.
	GetDefaults() domain.RobotSettings
}
