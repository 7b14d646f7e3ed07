// Package proc supervises child processes and streams their stderr lines.
//
// Each supervised process has its stdout and stderr captured. stderr is
// decoded line by line and handed to the caller in emission order; stdout
// is drained and discarded so a chatty child can never block on a full
// pipe. A Handle resolves once the process has exited and its stderr has
// been read to EOF.
package proc

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Spec describes one child process launch.
type Spec struct {
	// Path is the executable path.
	Path string

	// Args is the argument list, not including the executable itself.
	Args []string

	// Role names the process in launch diagnostics (e.g. "HOST", "CLIENT").
	Role string

	// OnLine is called for every stderr line, in emission order. The next
	// line is not read until the callback returns. May be nil.
	OnLine func(line string)
}

// Handle represents a supervised process. It resolves when the process
// has exited and its stderr stream has been fully drained.
type Handle struct {
	done chan struct{}
	err  error
}

// Wait blocks until the process has exited and its stderr is drained.
//
// Returns:
//   - error: The process's exit error, or nil on a clean exit
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Launch starts a child process with stdout and stderr captured.
//
// stderr is scanned line by line on a dedicated goroutine; a scan error
// (malformed or truncated input) ends that stream's sequence early and is
// not treated as a process failure. stdout is created and drained to
// io.Discard: the stream is captured but unread, without the deadlock a
// full unread pipe would cause.
//
// Parameters:
//   - spec: The launch specification
//
// Returns:
//   - *Handle: Handle resolving on exit + drain
//   - error: Launch failure (missing executable, permission denied)
func Launch(spec Spec) (*Handle, error) {
	cmd := exec.Command(spec.Path, spec.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to capture stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to capture stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s (%s): %w", spec.Role, spec.Path, err)
	}

	h := &Handle{
		done: make(chan struct{}),
	}

	var drained sync.WaitGroup
	drained.Add(2)

	go func() {
		defer drained.Done()
		io.Copy(io.Discard, stdout)
	}()

	go func() {
		defer drained.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if spec.OnLine != nil {
				spec.OnLine(scanner.Text())
			}
		}
	}()

	go func() {
		// Both pipes must hit EOF before Wait releases the process.
		drained.Wait()
		h.err = cmd.Wait()
		close(h.done)
	}()

	return h, nil
}
