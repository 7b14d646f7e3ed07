// Package main provides the run command that drives a full harness cycle.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roomrun/roomrun/internal/build"
	"github.com/roomrun/roomrun/internal/config"
	"github.com/roomrun/roomrun/internal/orchestrate"
	"github.com/roomrun/roomrun/internal/ui"
	"github.com/roomrun/roomrun/internal/watch"
)

var (
	runRelease bool
	runWatch   bool
)

// runCmd builds the application, hosts a room, and joins every room the
// host announces. Arguments after "--" are passed through to the build
// command; "--release" among them also selects the release binary.
var runCmd = &cobra.Command{
	Use:   "run [-- build args...]",
	Short: "Build the app, host a room, and join announced rooms",
	Long: `Run one orchestration cycle: execute the build command, start the host
process, and for every room the host announces on stderr start a joiner
process with that room's identifier. The run finishes when the host and
every joiner have exited.`,
	RunE: runHarness,
}

func init() {
	runCmd.Flags().BoolVar(&runRelease, "release", false, "Use the release build output")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Rerun on source changes after the run finishes")
}

// runHarness executes the run command.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Passthrough build arguments (a leading "--" is stripped)
func runHarness(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}

	passthrough := stripSeparator(args)
	release := runRelease || contains(passthrough, "--release")
	binary := cfg.Binary(release)

	cycle := func() error {
		return runOnce(cfg, binary, passthrough)
	}

	if err := cycle(); err != nil {
		return err
	}

	if !runWatch {
		return nil
	}

	w, err := watch.New(cfg.Watch)
	if err != nil {
		return err
	}
	defer w.Close()

	for {
		ui.PrintDim("Watching %v for changes...", cfg.Watch)
		changed, err := w.WaitForChange()
		if err != nil {
			return err
		}
		ui.PrintInfo("Change in %s, rerunning", changed)
		if err := cycle(); err != nil {
			// In watch mode a broken build is part of the loop, not the end of it.
			ui.PrintError("%v", err)
		}
	}
}

// runOnce performs a single build + orchestration cycle.
func runOnce(cfg *config.Config, binary string, buildArgs []string) error {
	ui.PrintInfo("Building (%s)...", cfg.Build.Command)
	runner := build.NewRunner(".")

	orch := orchestrate.New(orchestrate.Options{
		Binary: binary,
		Detector: orchestrate.Detector{
			RoomMarker:  cfg.Trigger.RoomMarker,
			TokenMarker: cfg.Trigger.TokenMarker,
		},
		Relay:       ui.NewRelay(os.Stdout),
		HostStyle:   ui.RoleStyle(cfg.Roles.HostColor),
		JoinerStyle: ui.RoleStyle(cfg.Roles.JoinerColor),
		Build: func() error {
			return runner.Run(cfg.Build.Command, buildArgs, func(line string) {
				ui.PrintDim("%s", line)
			})
		},
		Logger: log.Default(),
	})

	if err := orch.Run(); err != nil {
		return err
	}
	ui.PrintSuccess("All processes finished")
	return nil
}

// stripSeparator drops a leading "--" token from passthrough args.
func stripSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

// contains reports whether list has an element equal to s.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
