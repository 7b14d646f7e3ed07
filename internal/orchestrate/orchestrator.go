package orchestrate

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/roomrun/roomrun/internal/proc"
	"github.com/roomrun/roomrun/internal/ui"
)

// Console role labels.
const (
	RoleHost   = "HOST"
	RoleJoiner = "CLIENT"
)

// Host and joiner subcommands of the application under test.
const (
	hostCommand   = "host-room"
	joinCommand   = "join-room"
	joinTokenFlag = "-r"
)

// Handle is the awaitable for one supervised process: Wait returns once
// the process has exited and its stderr is fully drained.
type Handle interface {
	Wait() error
}

// Launcher starts a supervised process. Production code uses
// ProcLauncher; tests substitute fakes.
type Launcher interface {
	Launch(path string, args []string, role string, onLine func(line string)) (Handle, error)
}

// ProcLauncher launches real OS processes through the proc package.
type ProcLauncher struct{}

// Launch implements Launcher.
func (ProcLauncher) Launch(path string, args []string, role string, onLine func(line string)) (Handle, error) {
	return proc.Launch(proc.Spec{
		Path:   path,
		Args:   args,
		Role:   role,
		OnLine: onLine,
	})
}

// Options configures an Orchestrator.
type Options struct {
	// Binary is the application binary used for host and joiners.
	Binary string

	// Detector recognizes room announcements on the host's stderr.
	Detector Detector

	// Relay receives every process's stderr lines for console output.
	Relay *ui.Relay

	// HostStyle and JoinerStyle color the console role labels.
	HostStyle   lipgloss.Style
	JoinerStyle lipgloss.Style

	// Build runs the build step before anything is launched. Optional;
	// a build failure aborts the run with zero launches.
	Build func() error

	// Launcher starts processes; defaults to ProcLauncher.
	Launcher Launcher

	// Logger receives harness diagnostics; defaults to log.Default().
	Logger *log.Logger
}

// Orchestrator drives one run: build, host the room, join every
// announced room, wait for everything to finish.
//
// The host's stderr is drained on a single goroutine; each detected room
// spawns a joiner on its own goroutine so the host's detection loop never
// blocks on joiner startup. New joiners can only appear while the host is
// still emitting, so once the host handle resolves the task set is closed
// and the final wait cannot race an addition.
type Orchestrator struct {
	binary      string
	detector    Detector
	relay       *ui.Relay
	hostStyle   lipgloss.Style
	joinerStyle lipgloss.Style
	build       func() error
	launcher    Launcher
	logger      *log.Logger
	tasks       taskSet
}

// New creates an Orchestrator. Each run is tagged with a fresh run ID in
// the diagnostic log.
func New(opts Options) *Orchestrator {
	launcher := opts.Launcher
	if launcher == nil {
		launcher = ProcLauncher{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		binary:      opts.Binary,
		detector:    opts.Detector,
		relay:       opts.Relay,
		hostStyle:   opts.HostStyle,
		joinerStyle: opts.JoinerStyle,
		build:       opts.Build,
		launcher:    launcher,
		logger:      logger.With("run", uuid.NewString()),
	}
}

// Run executes one full orchestration cycle. It returns an error for a
// failed build step or a host that could not be started; joiner failures
// are logged and never change the run's outcome.
func (o *Orchestrator) Run() error {
	if o.build != nil {
		o.logger.Debug("running build step")
		if err := o.build(); err != nil {
			return fmt.Errorf("build step failed: %w", err)
		}
	}

	o.logger.Debug("starting host", "binary", o.binary)
	host, err := o.launcher.Launch(o.binary, []string{hostCommand}, RoleHost, o.hostLine)
	if err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}

	if err := host.Wait(); err != nil {
		o.logger.Warn("host exited with error", "err", err)
	}

	o.logger.Debug("host finished, draining joiners", "spawned", o.tasks.Len())
	o.tasks.Wait()
	return nil
}

// hostLine handles one line of host stderr: detection first, then the
// console relay, win or lose.
func (o *Orchestrator) hostLine(line string) {
	if token, ok := o.detector.Detect(line); ok {
		o.logger.Debug("room announced", "token", token)
		o.spawnJoiner(token)
	}
	o.relay.Line(RoleHost, o.hostStyle, line)
}

// spawnJoiner launches a joiner for token on its own task. Launch and
// exit failures are logged and contained to the joiner.
func (o *Orchestrator) spawnJoiner(token string) {
	o.tasks.Go(func() {
		h, err := o.launcher.Launch(o.binary, []string{joinCommand, joinTokenFlag, token}, RoleJoiner, func(line string) {
			o.relay.Line(RoleJoiner, o.joinerStyle, line)
		})
		if err != nil {
			o.logger.Warn("joiner failed to start", "token", token, "err", err)
			return
		}
		if err := h.Wait(); err != nil {
			o.logger.Warn("joiner exited with error", "token", token, "err", err)
		}
	})
}
