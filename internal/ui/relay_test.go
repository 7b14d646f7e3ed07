package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRelay_LabelPaddedToEightColumns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRelay(&buf)

	r.Line("HOST", lipgloss.NewStyle(), "hello")

	got := buf.String()
	if got != "HOST     hello\n" {
		t.Fatalf("output = %q, want %q", got, "HOST     hello\n")
	}
}

func TestRelay_PreservesTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	r := NewRelay(&buf)

	r.Line("CLIENT", lipgloss.NewStyle(), "joined\n")

	got := buf.String()
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("output = %q, want exactly one newline", got)
	}
}

func TestRelay_RepeatOutputIsByteIdentical(t *testing.T) {
	var first, second bytes.Buffer

	NewRelay(&first).Line("HOST", lipgloss.NewStyle(), "same line")
	NewRelay(&second).Line("HOST", lipgloss.NewStyle(), "same line")

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("outputs differ: %q vs %q", first.String(), second.String())
	}
}

func TestRelay_SingleStreamOrderPreserved(t *testing.T) {
	var buf bytes.Buffer
	r := NewRelay(&buf)

	for _, line := range []string{"a", "b", "c"} {
		r.Line("HOST", lipgloss.NewStyle(), line)
	}

	want := "HOST     a\nHOST     b\nHOST     c\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
