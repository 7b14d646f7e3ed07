// Package build runs the application build step before orchestration.
package build

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes the build command in a specified working directory.
type Runner struct {
	// workDir is the working directory for the build command.
	workDir string
}

// NewRunner creates a new build runner.
//
// Parameters:
//   - workDir: The working directory for the build command
//
// Returns:
//   - *Runner: A new Runner instance
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir}
}

// Run executes the build command with extra arguments appended and streams
// output to the callback. The run must succeed before any process is
// launched; a non-zero exit is returned as an error.
//
// Parameters:
//   - command: The build command (can include shell operators)
//   - extraArgs: Passthrough arguments appended to the command
//   - onOutput: Callback called for each line of output, may be nil
//
// Returns:
//   - error: Any error that occurred during execution
//
// The command is executed via /bin/sh -c to support shell features.
func (r *Runner) Run(command string, extraArgs []string, onOutput func(line string)) error {
	full := command
	if len(extraArgs) > 0 {
		full = command + " " + strings.Join(extraArgs, " ")
	}

	cmd := exec.Command("/bin/sh", "-c", full)
	cmd.Dir = r.workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start build command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}()

	// Stream stderr and capture for error classification
	var stderrLines []string
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			stderrLines = append(stderrLines, line)
			if onOutput != nil {
				onOutput(line)
			}
		}
	}()

	// Wait for goroutines to finish reading all output before calling
	// cmd.Wait, which closes the pipes and would drop unread output.
	wg.Wait()
	cmdErr := cmd.Wait()

	if cmdErr != nil {
		stderrOutput := strings.Join(stderrLines, "\n")
		if buildErr := classifyBuildError(full, stderrOutput); buildErr != nil {
			return buildErr
		}
		return fmt.Errorf("build command failed: %w", cmdErr)
	}

	return nil
}

// Error represents a recognized build failure with guidance.
type Error struct {
	// Message is the error message.
	Message string

	// Guidance provides instructions on how to fix the error.
	Guidance string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// classifyBuildError checks stderr output for known failure patterns and
// returns an Error with guidance if one matches.
//
// Parameters:
//   - command: The full build command that was run
//   - stderr: The stderr output from the build command
//
// Returns:
//   - *Error: A recognized error with guidance, or nil
func classifyBuildError(command, stderr string) *Error {
	lower := strings.ToLower(stderr)
	tool := Tool(command)

	if strings.Contains(lower, tool+": not found") ||
		strings.Contains(lower, tool+": command not found") {
		return &Error{
			Message: fmt.Sprintf("%s not found", tool),
			Guidance: fmt.Sprintf(`The build tool %q is not on your PATH.
Install it, or set a different command in %s:

  build:
    command: <your build command>`, tool, ".roomrun.yaml"),
		}
	}

	if strings.Contains(lower, "could not find `cargo.toml`") {
		return &Error{
			Message: "Cargo.toml not found",
			Guidance: `Run roomrun from the application's project root,
or set build.command in .roomrun.yaml to a command that works from here.`,
		}
	}

	if strings.Contains(lower, "error[e") || strings.Contains(lower, "error:") {
		return &Error{
			Message:  "build failed with compiler errors",
			Guidance: "Fix the errors above and run again.",
		}
	}

	return nil
}

// Tool returns the executable name of a build command line, the first
// whitespace-separated token.
func Tool(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}
