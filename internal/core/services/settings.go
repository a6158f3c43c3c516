package services

import (
	"fmt"
	"time"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyTurnGain         = "drive.turn_gain"
	KeyStraightGain     = "drive.straight_gain"
	KeyDeadzone         = "drive.deadzone"
	KeyDistancePerPulse = "drive.distance_per_pulse"
	KeyDriveMode        = "drive.mode"
	KeyLeftVertical     = "input.left_vertical"
	KeyRightVertical    = "input.right_vertical"
	KeyRightLateral     = "input.right_lateral"
	KeyPeriodMS         = "scheduler.period_ms"
	KeyJournalKeep      = "journal.keep"
)

// SettingsService manages robot settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current robot settings. Missing or invalid values fall back
// to defaults.
func (s *SettingsService) Get() (*domain.RobotSettings, error) {
	defaults := domain.DefaultRobotSettings()

	gains := domain.DriveGains{
		TurnGain:     s.getFloat(KeyTurnGain, defaults.Drive.Gains.TurnGain),
		StraightGain: s.getFloat(KeyStraightGain, defaults.Drive.Gains.StraightGain),
	}
	if gains.Validate() != nil {
		gains = defaults.Drive.Gains
	}

	deadzone := s.getFloat(KeyDeadzone, defaults.Drive.Deadzone)
	if domain.ValidateDeadzone(deadzone) != nil {
		deadzone = defaults.Drive.Deadzone
	}

	dpp := s.getFloat(KeyDistancePerPulse, defaults.Drive.DistancePerPulse)
	if !(dpp > 0) {
		dpp = defaults.Drive.DistancePerPulse
	}

	period := time.Duration(s.getInt(KeyPeriodMS, int(defaults.Scheduler.Period/time.Millisecond))) * time.Millisecond
	if period <= 0 {
		period = defaults.Scheduler.Period
	}

	keep := s.getInt(KeyJournalKeep, defaults.Scheduler.JournalKeep)
	if keep < 0 {
		keep = defaults.Scheduler.JournalKeep
	}

	settings := &domain.RobotSettings{
		Drive: domain.DriveSettings{
			Gains:            gains,
			Deadzone:         deadzone,
			Mode:             s.getDriveMode(defaults.Drive.Mode),
			DistancePerPulse: dpp,
		},
		Input: domain.InputSettings{
			Axes: domain.AxisMap{
				LeftVertical:  s.getAxis(KeyLeftVertical, defaults.Input.Axes.LeftVertical),
				RightVertical: s.getAxis(KeyRightVertical, defaults.Input.Axes.RightVertical),
				RightLateral:  s.getAxis(KeyRightLateral, defaults.Input.Axes.RightLateral),
			},
		},
		Scheduler: domain.SchedulerSettings{
			Period:      period,
			JournalKeep: keep,
		},
	}

	return settings, nil
}

// Save validates and persists robot settings.
func (s *SettingsService) Save(settings *domain.RobotSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyTurnGain, settings.Drive.Gains.TurnGain},
		{KeyStraightGain, settings.Drive.Gains.StraightGain},
		{KeyDeadzone, settings.Drive.Deadzone},
		{KeyDistancePerPulse, settings.Drive.DistancePerPulse},
		{KeyDriveMode, settings.Drive.Mode.String()},
		{KeyLeftVertical, settings.Input.Axes.LeftVertical},
		{KeyRightVertical, settings.Input.Axes.RightVertical},
		{KeyRightLateral, settings.Input.Axes.RightLateral},
		{KeyPeriodMS, int(settings.Scheduler.Period / time.Millisecond)},
		{KeyJournalKeep, settings.Scheduler.JournalKeep},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetGains updates the mixer gains.
func (s *SettingsService) SetGains(gains domain.DriveGains) error {
	if err := gains.Validate(); err != nil {
		return err
	}
	return s.update(func(settings *domain.RobotSettings) {
		settings.Drive.Gains = gains
	})
}

// SetDeadzone updates the joystick deadzone.
func (s *SettingsService) SetDeadzone(threshold float64) error {
	if err := domain.ValidateDeadzone(threshold); err != nil {
		return err
	}
	return s.update(func(settings *domain.RobotSettings) {
		settings.Drive.Deadzone = threshold
	})
}

// SetDriveMode updates the default joystick drive mode.
func (s *SettingsService) SetDriveMode(mode domain.DriveMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown drive mode %q", domain.ErrInvalidInput, mode)
	}
	return s.update(func(settings *domain.RobotSettings) {
		settings.Drive.Mode = mode
	})
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.RobotSettings {
	return domain.DefaultRobotSettings()
}

func (s *SettingsService) update(apply func(*domain.RobotSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	apply(settings)
	return s.Save(settings)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getAxis(key string, defaultVal int) int {
	id := s.getInt(key, defaultVal)
	if id < 0 {
		return defaultVal
	}
	return id
}

func (s *SettingsService) getDriveMode(defaultVal domain.DriveMode) domain.DriveMode {
	val := s.configStore.GetString(KeyDriveMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.DriveMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
