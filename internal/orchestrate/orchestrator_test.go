package orchestrate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/roomrun/roomrun/internal/ui"
)

type fakeHandle struct {
	done     chan struct{}
	err      error
	finished atomic.Bool
}

func (h *fakeHandle) Wait() error {
	<-h.done
	return h.err
}

// fakeLauncher simulates a host emitting scripted stderr lines and
// joiners that take a little while to exit.
type fakeLauncher struct {
	mu        sync.Mutex
	hostLines []string
	joinerErr error
	launches  [][]string
	joiners   []*fakeHandle
}

func (f *fakeLauncher) Launch(path string, args []string, role string, onLine func(string)) (Handle, error) {
	f.mu.Lock()
	f.launches = append(f.launches, append([]string{path}, args...))
	f.mu.Unlock()

	h := &fakeHandle{done: make(chan struct{})}

	if role == RoleHost {
		go func() {
			for _, line := range f.hostLines {
				onLine(line)
			}
			h.finished.Store(true)
			close(h.done)
		}()
		return h, nil
	}

	if f.joinerErr != nil {
		return nil, f.joinerErr
	}

	f.mu.Lock()
	f.joiners = append(f.joiners, h)
	f.mu.Unlock()

	go func() {
		time.Sleep(20 * time.Millisecond)
		onLine("joined room")
		h.finished.Store(true)
		close(h.done)
	}()
	return h, nil
}

func (f *fakeLauncher) joinerArgs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, l := range f.launches {
		if len(l) > 1 && l[1] == joinCommand {
			out = append(out, l[1:])
		}
	}
	return out
}

func newTestOrchestrator(launcher Launcher, buildFn func() error) (*Orchestrator, *bytes.Buffer) {
	var console bytes.Buffer
	o := New(Options{
		Binary:      "./target/debug/app",
		Detector:    newTestDetector(),
		Relay:       ui.NewRelay(&console),
		HostStyle:   lipgloss.NewStyle(),
		JoinerStyle: lipgloss.NewStyle(),
		Build:       buildFn,
		Launcher:    launcher,
		Logger:      log.New(io.Discard),
	})
	return o, &console
}

func TestRun_SpawnsOneJoinerPerAnnouncement(t *testing.T) {
	launcher := &fakeLauncher{
		hostLines: []string{
			"starting up",
			"got free room ID r: A1",
			"still serving",
			"got free room ID r: B2",
		},
	}
	o, console := newTestOrchestrator(launcher, nil)

	if err := o.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := launcher.joinerArgs()
	if len(got) != 2 {
		t.Fatalf("joiner launches = %d (%v), want 2", len(got), got)
	}
	wantA := fmt.Sprintf("%s %s %s", joinCommand, joinTokenFlag, "A1")
	wantB := fmt.Sprintf("%s %s %s", joinCommand, joinTokenFlag, "B2")
	if strings.Join(got[0], " ") != wantA {
		t.Fatalf("first joiner args = %v, want %q", got[0], wantA)
	}
	if strings.Join(got[1], " ") != wantB {
		t.Fatalf("second joiner args = %v, want %q", got[1], wantB)
	}

	// Run must not return before every joiner handle resolved.
	for i, j := range launcher.joiners {
		if !j.finished.Load() {
			t.Fatalf("joiner %d still running when Run returned", i)
		}
	}

	out := console.String()
	if !strings.Contains(out, "HOST     got free room ID r: A1\n") {
		t.Fatalf("host announcement line missing from console:\n%s", out)
	}
	if strings.Count(out, "CLIENT   joined room\n") != 2 {
		t.Fatalf("expected two joiner lines in console:\n%s", out)
	}
}

func TestRun_NoAnnouncementsMeansNoJoiners(t *testing.T) {
	launcher := &fakeLauncher{
		hostLines: []string{"starting up", "nothing to see", "bye"},
	}
	o, _ := newTestOrchestrator(launcher, nil)

	if err := o.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := launcher.joinerArgs(); len(got) != 0 {
		t.Fatalf("joiner launches = %v, want none", got)
	}
	if len(launcher.launches) != 1 {
		t.Fatalf("total launches = %d, want 1 (host only)", len(launcher.launches))
	}
}

func TestRun_BuildFailureLaunchesNothing(t *testing.T) {
	launcher := &fakeLauncher{hostLines: []string{"got free room ID r: A1"}}
	buildErr := errors.New("compile error")
	o, _ := newTestOrchestrator(launcher, func() error { return buildErr })

	err := o.Run()
	if err == nil {
		t.Fatalf("Run() = nil, want build error")
	}
	if !errors.Is(err, buildErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, buildErr)
	}
	if len(launcher.launches) != 0 {
		t.Fatalf("launches = %v, want none after build failure", launcher.launches)
	}
}

func TestRun_JoinerLaunchFailureDoesNotAbortRun(t *testing.T) {
	launcher := &fakeLauncher{
		hostLines: []string{
			"got free room ID r: A1",
			"got free room ID r: B2",
		},
		joinerErr: errors.New("no such file"),
	}
	o, _ := newTestOrchestrator(launcher, nil)

	if err := o.Run(); err != nil {
		t.Fatalf("Run() error = %v, joiner failures must not abort the run", err)
	}
	// Both joiners were still attempted.
	if got := launcher.joinerArgs(); len(got) != 2 {
		t.Fatalf("joiner attempts = %d, want 2", len(got))
	}
}

type failingHostLauncher struct{}

func (failingHostLauncher) Launch(path string, args []string, role string, onLine func(string)) (Handle, error) {
	return nil, errors.New("exec format error")
}

func TestRun_HostLaunchFailureIsFatal(t *testing.T) {
	o, _ := newTestOrchestrator(failingHostLauncher{}, nil)

	if err := o.Run(); err == nil {
		t.Fatalf("Run() = nil, want host launch error")
	}
}
