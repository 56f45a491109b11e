// Package usbtransport owns the USB device handle: opening by vendor/product
// id, claiming an interface, discovering bulk endpoints, and exposing a
// single write operation that completes only when every byte has transferred
// (spec.md §4.1). It is grounded on this codebase's Windows WinUSB transport
// (which first established the "partial write is always an error" invariant
// this package exists to enforce) but targets github.com/google/gousb so the
// same code runs on every platform libusb supports, rather than only Windows.
package usbtransport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/gousb"

	"reika-bridge/internal/bridgeerr"
	"reika-bridge/internal/config"
	"reika-bridge/internal/telemetry"
)

const (
	writeTimeout    = 5 * time.Second
	claimRetries    = 5
	claimRetryPause = 100 * time.Millisecond
)

// bulkEndpoint is the minimal surface Transport needs from an OUT endpoint;
// satisfied by *gousb.OutEndpoint in production and by a fake in tests.
type bulkEndpoint interface {
	io.Writer
	String() string
}

// Transport owns one opened, interface-claimed USB device and serializes
// writes to it. The zero value is not usable; construct with Open.
type Transport struct {
	mu  sync.Mutex
	cfg config.UsbConfig
	log *telemetry.Logger

	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface
	ep   bulkEndpoint

	closeIntf func()
	closeDev  func()
}

// Open enumerates devices for cfg.VendorID/cfg.ProductID, claims an
// interface, and discovers (or accepts the configured) bulk-OUT endpoint
// (spec.md §4.1 "Open protocol").
func Open(cfg config.UsbConfig, log *telemetry.Logger) (*Transport, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID))
	if err != nil || dev == nil {
		ctx.Close()
		return nil, bridgeerr.Printer("open usb device", fmt.Errorf("%w: vid=%#04x pid=%#04x (%v)", bridgeerr.ErrDeviceNotFound, cfg.VendorID, cfg.ProductID, err))
	}

	dev.SetAutoDetach(true)

	cfgNum, ifNum, epOut, epIn, err := discoverEndpoints(dev, cfg)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, bridgeerr.Printer("discover usb endpoints", err)
	}

	devCfg, err := dev.Config(cfgNum)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, bridgeerr.Printer("select usb configuration", fmt.Errorf("%w: %v", bridgeerr.ErrClaimFailed, err))
	}

	intf, err := claimInterfaceWithRetry(devCfg, ifNum, log)
	if err != nil {
		devCfg.Close()
		dev.Close()
		ctx.Close()
		return nil, err
	}

	ep, err := intf.OutEndpoint(epOut)
	if err != nil {
		intf.Close()
		devCfg.Close()
		dev.Close()
		ctx.Close()
		return nil, bridgeerr.Printer("open bulk out endpoint", fmt.Errorf("%w: %v", bridgeerr.ErrDeviceNotFound, err))
	}
	_ = epIn // recorded during discovery for symmetry/logging only; writes are OUT-only.

	if err := clearHalt(dev, epOut, log); err != nil && log != nil {
		log.Warn("clear-halt on bulk out endpoint failed, continuing anyway", "endpoint", fmt.Sprintf("%#02x", epOut), "error", err.Error())
	}

	return &Transport{
		cfg:       cfg,
		log:       log,
		ctx:       ctx,
		dev:       dev,
		intf:      intf,
		ep:        ep,
		closeIntf: intf.Close,
		closeDev:  func() { devCfg.Close() },
	}, nil
}

// discoverEndpoints resolves the (config, interface, out-endpoint,
// in-endpoint) tuple to use. If cfg names an explicit endpoint, it is used as
// OUT and IN is synthesized as out|0x80 per spec.md §4.1; otherwise every
// interface's every alt setting is scanned for the first bulk-OUT/bulk-IN
// pair.
func discoverEndpoints(dev *gousb.Device, cfg config.UsbConfig) (cfgNum, ifNum int, epOut, epIn uint8, err error) {
	desc := dev.Desc

	if cfg.Endpoint != nil {
		ifNumber := 0
		if cfg.Interface != nil {
			ifNumber = int(*cfg.Interface)
		}
		activeCfg, cErr := dev.ActiveConfigNum()
		if cErr != nil {
			activeCfg = 1
		}
		return activeCfg, ifNumber, *cfg.Endpoint, *cfg.Endpoint | 0x80, nil
	}

	for _, c := range desc.Configs {
		for ifaceNum, iface := range c.Interfaces {
			for _, alt := range iface.AltSettings {
				var out, in uint8
				var haveOut, haveIn bool
				for _, ep := range alt.Endpoints {
					if ep.Direction == gousb.EndpointDirectionOut && ep.TransferType == gousb.TransferTypeBulk {
						out, haveOut = uint8(ep.Number), true
					}
					if ep.Direction == gousb.EndpointDirectionIn && ep.TransferType == gousb.TransferTypeBulk {
						in, haveIn = uint8(ep.Number), true
					}
				}
				if haveOut && haveIn {
					return c.Number, ifaceNum, out, in, nil
				}
			}
		}
	}

	return 0, 0, 0, 0, fmt.Errorf("%w: no bulk in/out endpoint pair found", bridgeerr.ErrDeviceNotFound)
}

// claimInterfaceWithRetry claims ifNum, retrying up to claimRetries times
// with claimRetryPause between attempts: Windows releases a previous owner's
// USB handle asynchronously, so an immediately-following claim can transiently
// fail (spec.md §4.1).
func claimInterfaceWithRetry(devCfg *gousb.Config, ifNum int, log *telemetry.Logger) (*gousb.Interface, error) {
	var lastErr error
	for attempt := 1; attempt <= claimRetries; attempt++ {
		intf, err := devCfg.Interface(ifNum, 0)
		if err == nil {
			return intf, nil
		}
		lastErr = err
		if log != nil {
			log.Warn("usb interface claim attempt failed", "interface", ifNum, "attempt", attempt, "error", err.Error())
		}
		if attempt < claimRetries {
			time.Sleep(claimRetryPause)
		}
	}
	return nil, bridgeerr.Printer("claim usb interface", fmt.Errorf("%w: %v", bridgeerr.ErrClaimFailed, lastErr))
}

// clearHalt issues a best-effort clear-halt on the OUT endpoint after claim.
// Its failure is logged but never aborts Open (spec.md §4.1).
func clearHalt(dev *gousb.Device, epOut uint8, log *telemetry.Logger) error {
	return dev.ClearHalt(uint8(epOut))
}

// Write serializes the caller against any other in-flight write and performs
// a single bulk-OUT transfer with a 5-second deadline. The only accepted
// outcome is a byte count exactly equal to len(data); a transport error,
// timeout, zero-byte write, or any partial count is always an error — this is
// the system's critical invariant (spec.md §4.1, §8 property 1). Write
// implements io.Writer so a Transport can be handed directly to
// internal/command's dispatcher.
func (t *Transport) Write(data []byte) (int, error) {
	lockStart := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	lockWait := time.Since(lockStart)

	xferStart := time.Now()
	err := writeExact(t.ep, data, writeTimeout)
	xferElapsed := time.Since(xferStart)

	if t.log != nil {
		fields := []interface{}{
			"endpoint", t.ep.String(),
			"requested_bytes", len(data),
			"lock_wait", lockWait.String(),
			"transfer_time", xferElapsed.String(),
			"total_elapsed", time.Since(lockStart).String(),
		}
		if err != nil {
			t.log.Error("[PRINT_FAILURE] bulk write failed", append(fields, "error", err.Error())...)
		} else {
			t.log.Debug("bulk write succeeded", fields...)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// writeExact performs the write/deadline/byte-count check in isolation so it
// can be unit-tested against a fake endpoint without a real USB stack.
// gousb's OutEndpoint.Write has no native per-call context, so the timeout is
// enforced by racing the blocking write against a timer in a goroutine; the
// goroutine is abandoned (not killed) on timeout, matching the same
// best-effort cleanup tradeoff the teacher's WinUSB transport makes around
// blocked pipe calls.
func writeExact(ep bulkEndpoint, data []byte, timeout time.Duration) error {
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := ep.Write(data)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return bridgeerr.Printer("bulk write", r.err)
		}
		if r.n != len(data) {
			return bridgeerr.Printer("bulk write", fmt.Errorf("%w: wrote %d of %d bytes", bridgeerr.ErrPartialWrite, r.n, len(data)))
		}
		return nil
	case <-time.After(timeout):
		return bridgeerr.Printer("bulk write", bridgeerr.ErrTimeout)
	}
}

// Close releases the claimed interface, configuration, device handle, and
// USB context, in that order.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closeIntf != nil {
		t.closeIntf()
	}
	if t.closeDev != nil {
		t.closeDev()
	}
	if t.dev != nil {
		t.dev.Close()
	}
	if t.ctx != nil {
		t.ctx.Close()
	}
	return nil
}
