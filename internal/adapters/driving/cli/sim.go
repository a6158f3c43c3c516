package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/team151/robotcore/internal/adapters/driven/faults"
	"github.com/team151/robotcore/internal/adapters/driven/sim"
	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
	"github.com/team151/robotcore/internal/core/services"
	"github.com/team151/robotcore/internal/logger"
)

// taskPhysics advances the simulated robot once per tick.
const taskPhysics = "physics"

// statusInterval is how often progress is printed.
const statusInterval = 500 * time.Millisecond

var (
	simDuration time.Duration
	simMode     string
	simLeftY    float64
	simRightY   float64
	simRightX   float64
	simDistance float64
	simPower    float64
	simClaw     string
	simNoGyro   bool
	simRealtime bool
	simWatch    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the scheduler against a simulated robot",
	Long: `Drives a simulated differential drive robot with the task scheduler.

The joystick task owns the drivetrain by default and reads the stick
values given by --left-y, --right-y and --right-x. --distance schedules a
drive-distance task that displaces it until the distance is covered.

By default the simulation runs as fast as possible. --realtime ticks on the
configured period, and --watch also reloads settings when the config file
changes.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().DurationVarP(&simDuration, "duration", "d", 2*time.Second, "simulated time to run")
	simCmd.Flags().StringVarP(&simMode, "mode", "m", "", "drive mode: arcade or tank (default from settings)")
	simCmd.Flags().Float64Var(&simLeftY, "left-y", 0, "left stick vertical axis")
	simCmd.Flags().Float64Var(&simRightY, "right-y", 0, "right stick vertical axis")
	simCmd.Flags().Float64Var(&simRightX, "right-x", 0, "right stick lateral axis")
	simCmd.Flags().Float64Var(&simDistance, "distance", 0, "drive this distance first (negative drives backward)")
	simCmd.Flags().Float64Var(&simPower, "power", 0.5, "power magnitude for --distance")
	simCmd.Flags().StringVar(&simClaw, "claw", "", "open or close the claw")
	simCmd.Flags().BoolVar(&simNoGyro, "no-gyro", false, "simulate a missing heading sensor")
	simCmd.Flags().BoolVar(&simRealtime, "realtime", false, "tick on the wall clock")
	simCmd.Flags().BoolVar(&simWatch, "watch", false, "reload settings on config change (implies --realtime)")
	rootCmd.AddCommand(simCmd)
}

// simRig is a simulated robot wired to subsystems and a scheduler.
type simRig struct {
	robot     *sim.Robot
	drive     *services.DriveSubsystem
	claw      *services.ClawSubsystem
	scheduler *services.Scheduler
	faults    *faults.Sink
	period    time.Duration

	// mode is read and written on the scheduler thread only.
	mode domain.DriveMode
}

func newSimRig(settings *domain.RobotSettings, journal driven.TaskJournal, gyroMissing bool) (*simRig, error) {
	robot := sim.NewRobot(settings.Drive.DistancePerPulse)
	robot.GyroMissing = gyroMissing

	drive, err := services.NewDriveSubsystem(services.DriveHardware{
		Left:          robot.LeftMotor,
		Right:         robot.RightMotor,
		LeftDistance:  robot.LeftEncoder,
		RightDistance: robot.RightEncoder,
		Heading:       robot.HeadingFactory(),
		Input:         robot.Joystick,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create drivetrain: %w", err)
	}
	if err := drive.Apply(settings); err != nil {
		return nil, fmt.Errorf("failed to apply settings: %w", err)
	}

	sink := faults.NewSink()
	opts := []services.SchedulerOption{services.WithFaultSink(sink)}
	if journal != nil {
		opts = append(opts, services.WithJournal(journal))
	}

	r := &simRig{
		robot:     robot,
		drive:     drive,
		claw:      services.NewClawSubsystem(robot.Claw),
		scheduler: services.NewScheduler(opts...),
		faults:    sink,
		period:    settings.Scheduler.Period,
		mode:      settings.Drive.Mode,
	}

	err = r.scheduler.SetDefaultTask(domain.ResourceDrivetrain, func() driving.Task {
		return services.NewDriveWithJoysticks(r.drive, r.mode)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set default drive task: %w", err)
	}

	physics := services.NewContinuous(taskPhysics, func() error {
		r.robot.Step(r.period)
		return nil
	})
	if err := r.scheduler.Schedule(physics); err != nil {
		return nil, fmt.Errorf("failed to schedule physics: %w", err)
	}

	return r, nil
}

// Apply reconfigures the drivetrain from reloaded settings. A drive mode
// change restarts the joystick task so the new instance picks it up.
func (r *simRig) Apply(settings *domain.RobotSettings) error {
	if err := r.drive.Apply(settings); err != nil {
		return err
	}
	r.robot.LeftEncoder.SetDistancePerPulse(settings.Drive.DistancePerPulse)
	r.robot.RightEncoder.SetDistancePerPulse(settings.Drive.DistancePerPulse)

	if settings.Drive.Mode != r.mode {
		r.mode = settings.Drive.Mode
		if owner, ok := r.scheduler.Owner(domain.ResourceDrivetrain); ok && owner.Name() == services.TaskDriveWithJoysticks {
			r.scheduler.Cancel(owner)
		}
	}
	logger.Info("sim: settings applied (mode %s)", r.mode)
	return nil
}

// setSticks writes stick positions to the simulated joystick.
func (r *simRig) setSticks(axes domain.AxisMap, leftY, rightY, rightX float64) {
	r.robot.Joystick.SetAxis(axes.LeftVertical, leftY)
	r.robot.Joystick.SetAxis(axes.RightVertical, rightY)
	r.robot.Joystick.SetAxis(axes.RightLateral, rightX)
}

// runStepped ticks the scheduler without waiting on the wall clock.
func (r *simRig) runStepped(ctx context.Context, out io.Writer, duration time.Duration) error {
	ticks := int(duration / r.period)
	every := int(statusInterval / r.period)
	if every < 1 {
		every = 1
	}

	for i := 1; i <= ticks; i++ {
		if err := r.scheduler.Tick(ctx); err != nil {
			return err
		}
		if i%every == 0 {
			fmt.Fprintln(out, r.status(time.Duration(i)*r.period))
		}
	}
	return nil
}

// runRealtime runs the scheduler loop for duration of wall time.
func (r *simRig) runRealtime(ctx context.Context, out io.Writer, duration time.Duration, watcher ConfigWatcher) error {
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	if watcher != nil {
		reloads, err := watcher.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		go r.applyReloads(reloads)
	}

	live := isTerminal(out)
	start := time.Now()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		interval := statusInterval
		if live {
			interval = 100 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				if live {
					fmt.Fprintln(out)
				}
				return
			case <-ticker.C:
				if live {
					fmt.Fprintf(out, "\r%s", r.status(time.Since(start)))
				} else {
					fmt.Fprintln(out, r.status(time.Since(start)))
				}
			}
		}
	}()

	err := r.scheduler.Start(ctx, r.period)
	close(done)
	wg.Wait()

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyReloads schedules a settings update for each config change.
func (r *simRig) applyReloads(reloads <-chan struct{}) {
	for range reloads {
		settings, err := settingsService.Get()
		if err != nil {
			logger.Warn("sim: reload failed: %v", err)
			continue
		}
		if err := settings.Validate(); err != nil {
			logger.Warn("sim: ignoring invalid settings: %v", err)
			continue
		}
		if err := r.scheduler.Schedule(services.NewApplySettings(r, settings)); err != nil {
			logger.Warn("sim: failed to schedule settings update: %v", err)
		}
	}
}

// simStatus is a snapshot of the simulated robot.
type simStatus struct {
	Elapsed       time.Duration
	LeftPower     float64
	RightPower    float64
	LeftDistance  float64
	RightDistance float64
	Heading       float64
	ClawOpen      bool
	DriveOwner    string
}

// status reads the robot's thread-safe components.
func (r *simRig) status(elapsed time.Duration) simStatus {
	s := simStatus{
		Elapsed:       elapsed,
		LeftPower:     r.robot.LeftMotor.Power(),
		RightPower:    r.robot.RightMotor.Power(),
		LeftDistance:  r.robot.LeftEncoder.Distance(),
		RightDistance: r.robot.RightEncoder.Distance(),
		Heading:       r.robot.Gyro.Heading(),
		ClawOpen:      r.robot.Claw.IsOpen(),
		DriveOwner:    "-",
	}
	if owner, ok := r.scheduler.Owner(domain.ResourceDrivetrain); ok {
		s.DriveOwner = owner.Name()
	}
	return s
}

func (s simStatus) String() string {
	claw := "closed"
	if s.ClawOpen {
		claw = "open"
	}
	return fmt.Sprintf("t=%5.2fs  power L=%+.2f R=%+.2f  dist L=%8.2f R=%8.2f  heading=%7.2f  claw=%-6s  drive=%s",
		s.Elapsed.Seconds(), s.LeftPower, s.RightPower, s.LeftDistance, s.RightDistance, s.Heading, claw, s.DriveOwner)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runSim(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if simDuration <= 0 {
		return errors.New("duration must be positive")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if simMode != "" {
		mode := domain.DriveMode(strings.ToLower(simMode))
		if !mode.IsValid() {
			return fmt.Errorf("unknown drive mode %q", simMode)
		}
		settings.Drive.Mode = mode
	}

	rig, err := newSimRig(settings, taskJournal, simNoGyro)
	if err != nil {
		return err
	}
	rig.setSticks(settings.Input.Axes, simLeftY, simRightY, simRightX)

	if simDistance != 0 {
		if err := rig.scheduler.Schedule(services.NewDriveDistance(rig.drive, simDistance, simPower)); err != nil {
			return fmt.Errorf("failed to schedule drive distance: %w", err)
		}
	}
	switch strings.ToLower(simClaw) {
	case "":
	case "open":
		err = rig.scheduler.Schedule(services.NewOpenClaw(rig.claw))
	case "close":
		err = rig.scheduler.Schedule(services.NewCloseClaw(rig.claw))
	default:
		return fmt.Errorf("unknown claw action %q (want open or close)", simClaw)
	}
	if err != nil {
		return fmt.Errorf("failed to schedule claw task: %w", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger.Section("Simulation")
	if simRealtime || simWatch {
		var watcher ConfigWatcher
		if simWatch {
			if configWatcher == nil {
				return errors.New("config watcher not configured")
			}
			watcher = configWatcher
		}
		err = rig.runRealtime(ctx, out, simDuration, watcher)
	} else {
		err = rig.runStepped(ctx, out, simDuration)
	}
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printSimSummary(cmd, rig)

	if journalService != nil && settings.Scheduler.JournalKeep > 0 {
		if err := journalService.Prune(ctx, settings.Scheduler.JournalKeep); err != nil {
			logger.Warn("sim: failed to prune journal: %v", err)
		}
	}
	return nil
}

func printSimSummary(cmd *cobra.Command, rig *simRig) {
	cmd.Println()
	cmd.Println(renderTitle("Summary"))
	cmd.Println("=======")
	cmd.Printf("  Period: %s\n", rig.period)
	cmd.Printf("  Left distance: %.2f\n", rig.drive.SideDistance(domain.SideLeft))
	cmd.Printf("  Right distance: %.2f\n", rig.drive.SideDistance(domain.SideRight))
	cmd.Printf("  Averaged distance: %.2f\n", rig.drive.AveragedEncoderDistance())
	if heading, err := rig.drive.Heading(); err == nil {
		cmd.Printf("  Heading: %.2f\n", heading)
	} else {
		cmd.Println("  Heading: unavailable")
	}
	claw := "closed"
	if rig.claw.IsOpen() {
		claw = "open"
	}
	cmd.Printf("  Claw: %s\n", claw)

	if running := rig.scheduler.Running(); len(running) > 0 {
		names := make([]string, 0, len(running))
		for _, task := range running {
			names = append(names, task.Name())
		}
		cmd.Printf("  Running: %s\n", strings.Join(names, ", "))
	}

	cmd.Printf("  Faults: %s\n", renderFaults(rig.faults.Total()))
	for _, fault := range rig.faults.Recent() {
		cmd.Printf("    %s\n", fault.Error())
	}
}
