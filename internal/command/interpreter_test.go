package command

import (
	"bytes"
	"errors"
	"testing"
)

// failingWriter fails on the nth call to Write (1-indexed); 0 means never.
type failingWriter struct {
	bytes.Buffer
	failOn int
	calls  int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return 0, errors.New("simulated transport failure")
	}
	return f.Buffer.Write(p)
}

func TestRunEmitsInitAndPrintCut(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Run(&buf, []Command{{Name: Writeln, Str: "hello"}}, nil, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := buf.Bytes()
	if len(got) < 2 || got[0] != 0x1B || got[1] != '@' {
		t.Errorf("expected output to begin with ESC @ (init), got %v", got[:min(4, len(got))])
	}
	if !bytes.Contains(got, []byte("hello\n")) {
		t.Errorf("expected text content in output, got %q", got)
	}
}

func TestRunStopsOnFirstDispatchFailure(t *testing.T) {
	t.Parallel()

	// failOn=2: Init succeeds (call 1), first Writeln's text write (call 2) fails.
	fw := &failingWriter{failOn: 2}
	cmds := []Command{
		{Name: Writeln, Str: "first"},
		{Name: Writeln, Str: "second"},
	}
	err := Run(fw, cmds, nil, "")
	if err == nil {
		t.Fatal("expected error from failing transport")
	}
	if bytes.Contains(fw.Bytes(), []byte("second")) {
		t.Errorf("should not have dispatched commands after the failure")
	}
}

func TestRunRejectsUnhandledVariant(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Run(&buf, []Command{{Name: "NotARealCommand"}}, nil, "")
	if err == nil {
		t.Fatal("expected error for unknown command variant")
	}
}

func TestDispatchListAddsNoImplicitCommands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := DispatchList(&buf, []Command{{Name: Writeln, Str: "hi"}}, nil, "")
	if err != nil {
		t.Fatalf("DispatchList: %v", err)
	}
	if got := buf.Bytes(); bytes.Contains(got, []byte{0x1B, '@'}) {
		t.Errorf("DispatchList should not add an implicit init, got %v", got)
	}
}

func TestCheckConnectionReflectsWriteOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if !CheckConnection(&buf) {
		t.Error("expected CheckConnection to succeed against a healthy writer")
	}

	fw := &failingWriter{failOn: 1}
	if CheckConnection(fw) {
		t.Error("expected CheckConnection to fail against a failing writer")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
