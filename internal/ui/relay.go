package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// LabelWidth is the fixed column width of a role label.
const LabelWidth = 8

// Relay writes child-process output lines to one writer with a colored,
// fixed-width role label. Writes are serialized so a label and its line
// body are never split by output from another role; lines from different
// roles may interleave at line granularity only.
type Relay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRelay creates a relay writing to w.
func NewRelay(w io.Writer) *Relay {
	return &Relay{w: w}
}

// Line writes one labeled line. The text's own trailing newline is
// preserved; exactly one newline terminates the output either way.
//
// Parameters:
//   - label: The role label, left-justified to LabelWidth columns
//   - style: The lipgloss style applied to the label
//   - text: The raw line text, with or without a trailing newline
func (r *Relay) Line(label string, style lipgloss.Style, text string) {
	prefix := style.Render(fmt.Sprintf("%-*s", LabelWidth, label))
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s", prefix, text)
}
