package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage robot settings",
	Long: `View and tune drive gains, deadzone, input axes and scheduler timing.

Use subcommands to change a single value or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its config key.

Available keys:
  drive.turn_gain           - arcade turn authority (>= 0)
  drive.straight_gain       - output scale applied to both sides (>= 0)
  drive.deadzone            - joystick noise threshold in [0, 1)
  drive.mode                - default joystick mixing: arcade or tank
  drive.distance_per_pulse  - encoder conversion factor (> 0)
  input.left_vertical       - axis id of the left stick Y
  input.right_vertical      - axis id of the right stick Y
  input.right_lateral       - axis id of the right stick X
  scheduler.period_ms       - tick period in milliseconds (> 0)
  journal.keep              - runs kept per task when pruning (>= 0)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive tuning wizard",
	Long:  `Walk through the drive settings one prompt at a time. Press enter to keep a value.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(renderTitle("Current Settings"))
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Drive]")
	cmd.Printf("  Mode: %s\n", settings.Drive.Mode)
	cmd.Printf("  Turn gain: %.2f\n", settings.Drive.Gains.TurnGain)
	cmd.Printf("  Straight gain: %.2f\n", settings.Drive.Gains.StraightGain)
	cmd.Printf("  Deadzone: %.2f\n", settings.Drive.Deadzone)
	cmd.Printf("  Distance per pulse: %.6f\n", settings.Drive.DistancePerPulse)
	cmd.Println()

	cmd.Println("[Input]")
	cmd.Printf("  Left vertical axis: %d\n", settings.Input.Axes.LeftVertical)
	cmd.Printf("  Right vertical axis: %d\n", settings.Input.Axes.RightVertical)
	cmd.Printf("  Right lateral axis: %d\n", settings.Input.Axes.RightLateral)
	cmd.Println()

	cmd.Println("[Scheduler]")
	cmd.Printf("  Period: %s\n", settings.Scheduler.Period)
	cmd.Printf("  Journal keep: %d\n", settings.Scheduler.JournalKeep)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'robotcore settings reset' to restore defaults.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], strings.TrimSpace(args[1])

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch key {
	case services.KeyTurnGain, services.KeyStraightGain:
		v, err := parseFloatArg(key, value)
		if err != nil {
			return err
		}
		gains := settings.Drive.Gains
		if key == services.KeyTurnGain {
			gains.TurnGain = v
		} else {
			gains.StraightGain = v
		}
		err = settingsService.SetGains(gains)
		if err != nil {
			return fmt.Errorf("failed to set gains: %w", err)
		}
	case services.KeyDeadzone:
		v, err := parseFloatArg(key, value)
		if err != nil {
			return err
		}
		if err := settingsService.SetDeadzone(v); err != nil {
			return fmt.Errorf("failed to set deadzone: %w", err)
		}
	case services.KeyDriveMode:
		if err := settingsService.SetDriveMode(domain.DriveMode(strings.ToLower(value))); err != nil {
			return fmt.Errorf("failed to set drive mode: %w", err)
		}
	default:
		if err := setGeneric(settings, key, value); err != nil {
			return err
		}
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// setGeneric updates a key that has no dedicated service setter.
func setGeneric(settings *domain.RobotSettings, key, value string) error {
	switch key {
	case services.KeyDistancePerPulse:
		v, err := parseFloatArg(key, value)
		if err != nil {
			return err
		}
		settings.Drive.DistancePerPulse = v
	case services.KeyLeftVertical, services.KeyRightVertical, services.KeyRightLateral:
		v, err := parseIntArg(key, value)
		if err != nil {
			return err
		}
		switch key {
		case services.KeyLeftVertical:
			settings.Input.Axes.LeftVertical = v
		case services.KeyRightVertical:
			settings.Input.Axes.RightVertical = v
		default:
			settings.Input.Axes.RightLateral = v
		}
	case services.KeyPeriodMS:
		v, err := parseIntArg(key, value)
		if err != nil {
			return err
		}
		settings.Scheduler.Period = time.Duration(v) * time.Millisecond
	case services.KeyJournalKeep:
		v, err := parseIntArg(key, value)
		if err != nil {
			return err
		}
		settings.Scheduler.JournalKeep = v
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Robotcore Tuning Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Select Drive Mode")
	cmd.Println("-------------------------")
	modes := []domain.DriveMode{domain.DriveModeArcade, domain.DriveModeTank}
	current := 1
	for i, mode := range modes {
		if mode == settings.Drive.Mode {
			current = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, mode)
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Drive.Mode = modes[parseChoice(readLine(reader), len(modes), current)-1]
	cmd.Println()

	cmd.Println("Step 2: Mixer Gains")
	cmd.Println("-------------------")
	cmd.Printf("Turn gain [%.2f]: ", settings.Drive.Gains.TurnGain)
	settings.Drive.Gains.TurnGain = parseFloat(readLine(reader), settings.Drive.Gains.TurnGain)
	cmd.Printf("Straight gain [%.2f]: ", settings.Drive.Gains.StraightGain)
	settings.Drive.Gains.StraightGain = parseFloat(readLine(reader), settings.Drive.Gains.StraightGain)
	cmd.Println()

	cmd.Println("Step 3: Deadzone")
	cmd.Println("----------------")
	cmd.Printf("Deadzone [%.2f]: ", settings.Drive.Deadzone)
	settings.Drive.Deadzone = parseFloat(readLine(reader), settings.Drive.Deadzone)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseFloat(input string, defaultVal float64) float64 {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

func parseFloatArg(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return v, nil
}

func parseIntArg(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return v, nil
}
