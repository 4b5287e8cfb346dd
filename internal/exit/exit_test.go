package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	result := Success("all checks passed\n")

	if result.ExitCode != 0 {
		t.Errorf("Success() ExitCode = %d, want 0", result.ExitCode)
	}
	if result.Message != "all checks passed\n" {
		t.Errorf("Success() Message = %q, want %q", result.Message, "all checks passed\n")
	}
	if result.Output != os.Stdout {
		t.Error("Success() expected output to stdout")
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	result := Error("suite file not found")

	if result.ExitCode != 1 {
		t.Errorf("Error() ExitCode = %d, want 1", result.ExitCode)
	}
	if result.Message != "suite file not found" {
		t.Errorf("Error() Message = %q, want %q", result.Message, "suite file not found")
	}
	if result.Output != os.Stderr {
		t.Error("Error() expected output to stderr")
	}
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	result := Errorf("failed to read %s: %v", "suite.yaml", os.ErrNotExist)

	if result.ExitCode != 1 {
		t.Errorf("Errorf() ExitCode = %d, want 1", result.ExitCode)
	}

	want := "failed to read suite.yaml: file does not exist"
	if result.Message != want {
		t.Errorf("Errorf() Message = %q, want %q", result.Message, want)
	}
	if result.Output != os.Stderr {
		t.Error("Errorf() expected output to stderr")
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &Result{
		Output:   &buf,
		ExitCode: 0,
		Message:  "checks: 3 passed",
	}

	result.Print()

	if buf.String() != "checks: 3 passed" {
		t.Errorf("Print() output = %q, want %q", buf.String(), "checks: 3 passed")
	}
}
