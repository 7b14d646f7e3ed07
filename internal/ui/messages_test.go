package ui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestPrintDim_PercentSignsPassedVerbatim(t *testing.T) {
	// Build tools emit lines with % in them; relayed through the "%s"
	// format they must come out untouched.
	line := "warning: unused result of `a % b` (100% sure)"

	out := captureStdout(t, func() {
		PrintDim("%s", line)
	})

	if !strings.Contains(out, line) {
		t.Fatalf("output = %q, want it to contain %q", out, line)
	}
	if strings.Contains(out, "MISSING") || strings.Contains(out, "%!") {
		t.Fatalf("output = %q, contains mangled format verbs", out)
	}
}

func TestPrintError_PrintsInQuietMode(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	out := captureStdout(t, func() {
		PrintError("%s", "host failed to start")
	})
	if !strings.Contains(out, "host failed to start") {
		t.Fatalf("output = %q, errors must print in quiet mode", out)
	}
}

func TestPrintInfo_SuppressedInQuietMode(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	out := captureStdout(t, func() {
		PrintInfo("building")
	})
	if out != "" {
		t.Fatalf("output = %q, want nothing in quiet mode", out)
	}
}
