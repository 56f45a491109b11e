// Command reika-bridge is the entry point that wires the USB transport,
// retry coordinator, status broadcaster, job log, sensor reporter, and HTTP
// API into a running service. It follows this codebase's http.Server +
// signal-driven graceful shutdown shape (agent/main.go, server/main.go): a
// Shutdown call bounded at 10 seconds, after which the live USB transport is
// closed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reika-bridge/internal/config"
	"reika-bridge/internal/httpapi"
	"reika-bridge/internal/joblog"
	"reika-bridge/internal/retry"
	"reika-bridge/internal/sensorclient"
	"reika-bridge/internal/statusbus"
	"reika-bridge/internal/telemetry"
	"reika-bridge/internal/usbtransport"
)

const configFileName = "bridge.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "reika-bridge:", err)
		os.Exit(1)
	}
}

func run() error {
	path, cfg, err := config.FindAndDecode(configFileName)
	if err != nil {
		path = "(defaults)"
		cfg = config.Default()
	}

	log := telemetry.New(telemetry.INFO, defaultLogDir(), 2000)
	defer log.Close()
	log.Info("starting reika-bridge", "config_path", path, "port", cfg.ServerPort)

	transport, err := usbtransport.Open(cfg.USB, log)
	if err != nil {
		log.Error("initial usb open failed, continuing degraded until reconnect loop recovers it",
			"vendor_id", cfg.USB.VendorID, "product_id", cfg.USB.ProductID, "error", err.Error())
	}

	bus := statusbus.NewConnectivityBus(log)
	defer bus.Close()
	events := statusbus.NewEventQueue(256, log)

	coordinator := retry.New(transport, cfg.USB, log, bus, events)

	jobs := joblog.New(defaultJobLogDir(), telemetry.RotationPolicy{Enabled: true, MaxSizeMB: 20, MaxFiles: 5})
	defer jobs.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reporter := sensorclient.New(cfg.SensorReporter, log)
	go reporter.RunHeartbeat(ctx, bus)
	go reporter.RunEventReporter(ctx, events)

	server := httpapi.New(coordinator, bus, events, log, jobs)
	mux := http.NewServeMux()
	handler := server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "error", err.Error())
	}
	if t := coordinator.Transport().Get(); t != nil {
		_ = t.Close()
	}

	log.Info("reika-bridge stopped")
	return nil
}

func defaultLogDir() string {
	return configDirJoin("logs")
}

func defaultJobLogDir() string {
	return configDirJoin("jobs")
}

func configDirJoin(sub string) string {
	base := "."
	if home, err := os.UserHomeDir(); err == nil {
		base = home + "/.reika-bridge"
	}
	return base + "/" + sub
}
