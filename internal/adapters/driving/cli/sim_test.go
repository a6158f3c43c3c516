package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team151/robotcore/internal/adapters/driven/storage/memory"
	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/services"
)

func resetSimFlags() {
	simDuration = 2 * time.Second
	simMode = ""
	simLeftY, simRightY, simRightX = 0, 0, 0
	simDistance, simPower = 0, 0.5
	simClaw = ""
	simNoGyro, simRealtime, simWatch = false, false, false
}

// fakeWatcher sends preloaded reload signals and closes on cancel.
type fakeWatcher struct {
	reloads chan struct{}
	err     error
}

func newFakeWatcher(signals int) *fakeWatcher {
	w := &fakeWatcher{reloads: make(chan struct{}, signals)}
	for i := 0; i < signals; i++ {
		w.reloads <- struct{}{}
	}
	return w
}

func (w *fakeWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w.err != nil {
		return nil, w.err
	}
	go func() {
		<-ctx.Done()
		close(w.reloads)
	}()
	return w.reloads, nil
}

func defaultSettings() *domain.RobotSettings {
	s := domain.DefaultRobotSettings()
	return &s
}

func TestSimCmd_Use(t *testing.T) {
	assert.Equal(t, "sim", simCmd.Use)
	assert.Equal(t, "Run the scheduler against a simulated robot", simCmd.Short)
}

func TestSimCmd_Flags(t *testing.T) {
	flag := simCmd.Flags().Lookup("duration")
	require.NotNil(t, flag)
	assert.Equal(t, "d", flag.Shorthand)
	assert.Equal(t, "2s", flag.DefValue)

	assert.Equal(t, "0.5", simCmd.Flags().Lookup("power").DefValue)
	for _, name := range []string{"mode", "left-y", "right-y", "right-x", "distance", "claw", "no-gyro", "realtime", "watch"} {
		assert.NotNil(t, simCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestSimCmd_RequiresService(t *testing.T) {
	orig := settingsService
	settingsService = nil
	defer func() { settingsService = orig }()
	defer resetSimFlags()

	_, err := runCommand(t, "sim")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSimCmd_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero duration", []string{"sim", "--duration", "0s"}, "duration must be positive"},
		{"unknown mode", []string{"sim", "--mode", "swerve"}, "unknown drive mode"},
		{"unknown claw action", []string{"sim", "--claw", "wave"}, "unknown claw action"},
		{"watch without watcher", []string{"sim", "--watch", "--duration", "20ms"}, "config watcher not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()
			defer resetSimFlags()

			_, err := runCommand(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSimCmd_DrivesStraight(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	out, err := runCommand(t, "sim", "--duration", "1s", "--left-y", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Heading: 0.00")
	assert.Contains(t, out, "drive=drive-with-joysticks")
	assert.Contains(t, out, "Running: physics, drive-with-joysticks")
	assert.Contains(t, out, "Faults: 0")
}

func TestSimCmd_DriveDistanceIsJournaled(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	_, err := runCommand(t, "sim", "--duration", "1s", "--distance", "24")
	require.NoError(t, err)

	runs, err := ts.journal.ListByTask(context.Background(), services.TaskDriveDistance, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.OutcomeFinished, runs[0].Outcome)
	assert.Equal(t, []domain.Resource{domain.ResourceDrivetrain}, runs[0].Resources)
	assert.Positive(t, runs[0].Ticks)
}

func TestSimCmd_ClawAndMissingGyro(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	out, err := runCommand(t, "sim", "--duration", "100ms", "--claw", "open", "--no-gyro")

	require.NoError(t, err)
	assert.Contains(t, out, "Claw: open")
	assert.Contains(t, out, "Heading: unavailable")
}

func TestSimCmd_TankModeOverride(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	out, err := runCommand(t, "sim", "--duration", "1s", "--mode", "tank", "--left-y", "0.5", "--right-y", "-0.5")

	require.NoError(t, err)
	assert.Contains(t, out, "power L=+0.50 R=-0.50")
	assert.NotContains(t, out, "Heading: 0.00")
}

func TestSimCmd_RealtimeWithReload(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	configWatcher = newFakeWatcher(1)
	require.NoError(t, settingsService.SetDeadzone(0.2))

	_, err := runCommand(t, "sim", "--watch", "--duration", "300ms")
	require.NoError(t, err)

	ctx := context.Background()
	applied, err := ts.journal.ListByTask(ctx, services.TaskApplySettings, 0)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, domain.OutcomeFinished, applied[0].Outcome)

	physics, err := ts.journal.ListByTask(ctx, taskPhysics, 0)
	require.NoError(t, err)
	require.Len(t, physics, 1)
	assert.Equal(t, domain.OutcomeInterrupted, physics[0].Outcome, "shutdown interrupts running tasks")
}

func TestSimCmd_WatchError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetSimFlags()

	configWatcher = &fakeWatcher{err: errors.New("inotify limit")}

	_, err := runCommand(t, "sim", "--watch", "--duration", "20ms")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch config")
}

func TestSimRig_DriveDistanceHandsBackToJoystick(t *testing.T) {
	journal := memory.NewTaskJournal()
	rig, err := newSimRig(defaultSettings(), journal, false)
	require.NoError(t, err)

	require.NoError(t, rig.scheduler.Schedule(services.NewDriveDistance(rig.drive, 24, 0.5)))
	require.NoError(t, rig.runStepped(context.Background(), new(bytes.Buffer), time.Second))

	assert.InDelta(t, 24, rig.drive.AveragedEncoderDistance(), 1.5)
	owner, ok := rig.scheduler.Owner(domain.ResourceDrivetrain)
	require.True(t, ok)
	assert.Equal(t, services.TaskDriveWithJoysticks, owner.Name())
	assert.Equal(t, domain.WheelPowers{}, rig.drive.LastOutput())
}

func TestSimRig_ApplySwitchesDriveMode(t *testing.T) {
	rig, err := newSimRig(defaultSettings(), nil, false)
	require.NoError(t, err)
	ctx := context.Background()
	rig.setSticks(domain.DefaultAxisMap(), 0.5, -0.5, 0)

	require.NoError(t, rig.runStepped(ctx, new(bytes.Buffer), 3*rig.period))
	arcade, ok := rig.scheduler.Owner(domain.ResourceDrivetrain)
	require.True(t, ok)
	assert.InDelta(t, 0.5, rig.drive.LastOutput().Left, 1e-9)
	assert.InDelta(t, 0.5, rig.drive.LastOutput().Right, 1e-9)

	tank := defaultSettings()
	tank.Drive.Mode = domain.DriveModeTank
	require.NoError(t, rig.scheduler.Schedule(services.NewApplySettings(rig, tank)))
	require.NoError(t, rig.runStepped(ctx, new(bytes.Buffer), 3*rig.period))

	owner, ok := rig.scheduler.Owner(domain.ResourceDrivetrain)
	require.True(t, ok)
	assert.NotSame(t, arcade, owner)
	assert.Equal(t, domain.TaskInterrupted, arcade.Lifecycle().State())
	assert.Equal(t, domain.WheelPowers{Left: 0.5, Right: -0.5}, rig.drive.LastOutput())
}

func TestSimRig_ApplyRejectsInvalidGains(t *testing.T) {
	rig, err := newSimRig(defaultSettings(), nil, false)
	require.NoError(t, err)

	bad := defaultSettings()
	bad.Drive.Gains.TurnGain = -1

	assert.ErrorIs(t, rig.Apply(bad), domain.ErrInvalidInput)
}

func TestSimStatus_String(t *testing.T) {
	s := simStatus{
		Elapsed:       1500 * time.Millisecond,
		LeftPower:     0.5,
		RightPower:    -0.25,
		LeftDistance:  12,
		RightDistance: -6,
		Heading:       45,
		ClawOpen:      true,
		DriveOwner:    "drive-distance",
	}

	line := s.String()

	assert.Contains(t, line, "t= 1.50s")
	assert.Contains(t, line, "power L=+0.50 R=-0.25")
	assert.Contains(t, line, "heading=  45.00")
	assert.Contains(t, line, "claw=open")
	assert.Contains(t, line, "drive=drive-distance")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}
