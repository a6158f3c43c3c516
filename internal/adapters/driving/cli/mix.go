package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/services"
)

var (
	mixMode     string
	mixThrottle float64
	mixTurn     float64
	mixLeft     float64
	mixRight    float64
	mixRaw      bool
)

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Preview drive mixer output",
	Long: `Runs joystick values through the drive mixer with the configured gains
and deadzone, and prints the raw and clamped wheel powers.

Arcade mode mixes --throttle and --turn. Tank mode passes --left and
--right through unchanged.`,
	Args: cobra.NoArgs,
	RunE: runMix,
}

func init() {
	mixCmd.Flags().StringVarP(&mixMode, "mode", "m", "", "drive mode: arcade or tank (default from settings)")
	mixCmd.Flags().Float64Var(&mixThrottle, "throttle", 0, "arcade throttle in [-1, 1]")
	mixCmd.Flags().Float64Var(&mixTurn, "turn", 0, "arcade turn in [-1, 1]")
	mixCmd.Flags().Float64Var(&mixLeft, "left", 0, "tank left power in [-1, 1]")
	mixCmd.Flags().Float64Var(&mixRight, "right", 0, "tank right power in [-1, 1]")
	mixCmd.Flags().BoolVar(&mixRaw, "raw", false, "skip the deadzone")
	rootCmd.AddCommand(mixCmd)
}

func runMix(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	mode := settings.Drive.Mode
	if mixMode != "" {
		mode = domain.DriveMode(strings.ToLower(mixMode))
		if !mode.IsValid() {
			return fmt.Errorf("unknown drive mode %q", mixMode)
		}
	}

	deadzone := settings.Drive.Deadzone
	if mixRaw {
		deadzone = 0
	}

	mixer := services.NewMixer(settings.Drive.Gains)
	var mixed domain.WheelPowers

	cmd.Printf("Mode: %s (turn gain %.2f, straight gain %.2f, deadzone %.2f)\n",
		mode, mixer.Gains.TurnGain, mixer.Gains.StraightGain, deadzone)

	switch mode {
	case domain.DriveModeTank:
		left := services.Deadzone(mixLeft, deadzone)
		right := services.Deadzone(mixRight, deadzone)
		cmd.Printf("Input:  left=%.3f right=%.3f\n", left, right)
		mixed = mixer.Tank(left, right)
	default:
		throttle := services.Deadzone(mixThrottle, deadzone)
		turn := services.Deadzone(mixTurn, deadzone)
		cmd.Printf("Input:  throttle=%.3f turn=%.3f\n", throttle, turn)
		mixed = mixer.Arcade(throttle, turn)
	}

	cmd.Printf("Mixed:  left=%.3f right=%.3f\n", mixed.Left, mixed.Right)
	cmd.Printf("Output: left=%.3f right=%.3f\n", services.Clamp(mixed.Left), services.Clamp(mixed.Right))
	return nil
}
