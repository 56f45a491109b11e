package joblog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reika-bridge/internal/telemetry"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestAppendWritesOneJSONLinePerEntry(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, telemetry.RotationPolicy{})
	defer l.Close()

	entries := []Entry{
		{ID: "aaaa0001", Status: "OK", Attempts: 1, Duration: "12ms", At: time.Unix(0, 0).UTC()},
		{ID: "aaaa0002", Status: "FAILED", Attempts: 3, Duration: "5s", At: time.Unix(1, 0).UTC()},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	lines := readLines(t, filepath.Join(dir, "jobs.log"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var got Entry
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("unmarshal line 0: %v", err)
	}
	if got.ID != "aaaa0001" || got.Status != "OK" || got.Attempts != 1 {
		t.Errorf("unexpected decoded entry: %+v", got)
	}
}

func TestAppendCreatesDirectoryIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "jobs")
	l := New(dir, telemetry.RotationPolicy{})
	defer l.Close()

	if err := l.Append(Entry{ID: "x", Status: "OK"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "jobs.log")); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestAppendRotatesWhenSizeExceeded(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, telemetry.RotationPolicy{Enabled: true, MaxSizeMB: 0, MaxFiles: 5})
	// MaxSizeMB of 0 disables the size check entirely; use the smallest
	// threshold that still enables it.
	l.rotation.MaxSizeMB = 1
	defer l.Close()

	if err := l.Append(Entry{ID: "r1", Status: "OK", Duration: "1ms"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// A single small entry never crosses a 1MB threshold, so no rotation
	// should have happened yet; jobs.log must still be the live file.
	if _, err := os.Stat(filepath.Join(dir, "jobs.log")); err != nil {
		t.Fatalf("expected jobs.log to still exist: %v", err)
	}

	// An entry larger than 1MB pushes the file past the threshold and rolls it.
	big := strings.Repeat("x", 1024*1024)
	if err := l.Append(Entry{ID: "r2", Status: "OK", Duration: big}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "jobs_*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected exactly one rotated file after exceeding the size limit, got %v", matches)
	}
}

func TestAppendDisabledRotationNeverRolls(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, telemetry.RotationPolicy{Enabled: false})
	defer l.Close()

	for i := 0; i < 5; i++ {
		if err := l.Append(Entry{ID: "x", Status: "OK"}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "jobs_*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no rotated files with rotation disabled, got %v", matches)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, telemetry.RotationPolicy{})
	if err := l.Append(Entry{ID: "x", Status: "OK"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
