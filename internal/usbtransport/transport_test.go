package usbtransport

import (
	"errors"
	"testing"
	"time"

	"reika-bridge/internal/bridgeerr"
)

// fakeEndpoint lets the write-exactness invariant (spec.md §8 property 1) be
// tested without a real USB stack.
type fakeEndpoint struct {
	n     int
	err   error
	delay time.Duration
}

func (f *fakeEndpoint) Write(p []byte) (int, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.n, f.err
	}
	if f.n == 0 && f.err == nil {
		return len(p), nil // default: full write
	}
	return f.n, nil
}

func (f *fakeEndpoint) String() string { return "fake-out-endpoint" }

func TestWriteExactSucceedsOnFullWrite(t *testing.T) {
	t.Parallel()

	ep := &fakeEndpoint{}
	if err := writeExact(ep, []byte("hello"), time.Second); err != nil {
		t.Fatalf("expected success on full write, got %v", err)
	}
}

func TestWriteExactFailsOnZeroByteSuccess(t *testing.T) {
	t.Parallel()

	// The zero-write anomaly: Write reports success (nil error) but 0 bytes,
	// which must never be treated as success (spec.md §4.1).
	zw := zeroWriteEndpoint{}
	if err := writeExact(zw, []byte("hello"), time.Second); err == nil {
		t.Fatal("expected error for zero-byte success, got nil")
	} else if !errors.Is(err, bridgeerr.ErrPartialWrite) {
		t.Errorf("expected ErrPartialWrite, got %v", err)
	}
}

type zeroWriteEndpoint struct{}

func (zeroWriteEndpoint) Write(p []byte) (int, error) { return 0, nil }
func (zeroWriteEndpoint) String() string              { return "zero-write-endpoint" }

func TestWriteExactFailsOnPartialWrite(t *testing.T) {
	t.Parallel()

	ep := &fakeEndpoint{n: 2}
	if err := writeExact(ep, []byte("hello"), time.Second); err == nil {
		t.Fatal("expected error for partial write")
	} else if !errors.Is(err, bridgeerr.ErrPartialWrite) {
		t.Errorf("expected ErrPartialWrite, got %v", err)
	}
}

func TestWriteExactFailsOnTransportError(t *testing.T) {
	t.Parallel()

	ep := &fakeEndpoint{err: errors.New("libusb: device disconnected")}
	if err := writeExact(ep, []byte("hello"), time.Second); err == nil {
		t.Fatal("expected error when the endpoint reports a transport error")
	}
}

func TestWriteExactFailsOnTimeout(t *testing.T) {
	t.Parallel()

	ep := &fakeEndpoint{delay: 50 * time.Millisecond}
	err := writeExact(ep, []byte("hello"), 10*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, bridgeerr.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestWriteExactSucceedsWithinDeadline(t *testing.T) {
	t.Parallel()

	ep := &fakeEndpoint{delay: 5 * time.Millisecond}
	if err := writeExact(ep, []byte("hello"), 200*time.Millisecond); err != nil {
		t.Fatalf("expected success within deadline, got %v", err)
	}
}
