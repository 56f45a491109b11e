// Package joblog is the persistent print-job history this service keeps
// alongside the core pipeline (spec.md §1 names "persistent print-job
// history" as an external collaborator concern; this package is the
// supplemental on-disk store that collaborator would write to). Rotation is
// modeled directly on internal/telemetry's RotationPolicy, the same
// size/count-bounded rollover the house logger already uses.
package joblog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reika-bridge/internal/telemetry"
)

// Entry is one completed (non-reprint) print job record. Reprint executions
// are explicitly excluded per spec.md §4.4 "No logging".
type Entry struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	Attempts int       `json:"attempts"`
	Duration string    `json:"duration"`
	At       time.Time `json:"at"`
}

// Log is a bounded, append-only JSON-lines job history file.
type Log struct {
	mu       sync.Mutex
	dir      string
	file     *os.File
	path     string
	rotation telemetry.RotationPolicy
}

// New creates a Log writing ndjson entries under dir/jobs.log, rotating per
// policy.
func New(dir string, policy telemetry.RotationPolicy) *Log {
	return &Log{dir: dir, rotation: policy}
}

// Append writes one Entry as a JSON line. Reprint jobs must never be passed
// here (spec.md §4.4).
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("joblog: create directory: %w", err)
	}
	if l.file == nil {
		path := filepath.Join(l.dir, "jobs.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("joblog: open file: %w", err)
		}
		l.file = f
		l.path = path
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("joblog: marshal entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("joblog: write entry: %w", err)
	}
	_ = l.file.Sync()

	if l.shouldRotate() {
		l.rotate()
	}
	return nil
}

func (l *Log) shouldRotate() bool {
	if !l.rotation.Enabled || l.file == nil || l.rotation.MaxSizeMB <= 0 {
		return false
	}
	stat, err := l.file.Stat()
	if err != nil {
		return false
	}
	return stat.Size() >= int64(l.rotation.MaxSizeMB)*1024*1024
}

func (l *Log) rotate() {
	_ = l.file.Close()
	l.file = nil

	backup := filepath.Join(l.dir, fmt.Sprintf("jobs_%s.log", time.Now().Format("20060102_150405")))
	_ = os.Rename(l.path, backup)

	if l.rotation.MaxFiles <= 0 {
		return
	}
	files, err := filepath.Glob(filepath.Join(l.dir, "jobs_*.log"))
	if err != nil || len(files) <= l.rotation.MaxFiles {
		return
	}
	for i := 0; i < len(files)-l.rotation.MaxFiles; i++ {
		_ = os.Remove(files[i])
	}
}

// Close closes the underlying file, if open.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
