// Package main provides the doctor command for environment checks.
package main

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/roomrun/roomrun/internal/build"
	"github.com/roomrun/roomrun/internal/config"
	"github.com/roomrun/roomrun/internal/ui"
)

// doctorCmd checks that the harness can do its job in this directory:
// config resolves, the build tool is installed, and the application
// binaries are where the configuration says they are.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check harness prerequisites",
	Run:   runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		ui.PrintError("Config: %v", err)
		os.Exit(1)
	}
	ui.PrintSuccess("Config: app %q, build %q", cfg.App.Name, cfg.Build.Command)

	tool := build.Tool(cfg.Build.Command)
	if _, err := exec.LookPath(tool); err != nil {
		ui.PrintWarning("Build tool %q not found on PATH", tool)
	} else {
		ui.PrintSuccess("Build tool %q found", tool)
	}

	checkBinary(cfg.Binary(false), "debug")
	checkBinary(cfg.Binary(true), "release")

	if ui.ColorEnabled() {
		ui.PrintSuccess("Terminal: colored output enabled")
	} else {
		ui.PrintDim("Terminal: colored output disabled")
	}
}

// checkBinary reports whether the binary for one build profile exists.
// A missing binary is fine before the first build, so it only warns.
func checkBinary(path, profile string) {
	info, err := os.Stat(path)
	if err != nil {
		ui.PrintWarning("%s binary %s not built yet", profile, path)
		return
	}
	if info.Mode()&0o111 == 0 {
		ui.PrintWarning("%s binary %s is not executable", profile, path)
		return
	}
	ui.PrintSuccess("%s binary %s", profile, path)
}
