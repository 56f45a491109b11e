// Package config holds the shape of the bridge's startup configuration and a
// platform-appropriate search path helper, adapted from this codebase's shared
// config-location convention. Decode turns TOML bytes into a Config, and
// FindAndDecode reads the first file found on SearchPaths and decodes it; the
// process entry point calls FindAndDecode once at startup. Nothing here
// watches the file or reloads it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// UsbConfig identifies the target USB device and, optionally, a specific
// endpoint/interface pair. Immutable for the lifetime of a process (spec.md §3).
type UsbConfig struct {
	VendorID  uint16 `toml:"vendor_id"`
	ProductID uint16 `toml:"product_id"`
	Endpoint  *uint8 `toml:"endpoint,omitempty"`
	Interface *uint8 `toml:"interface,omitempty"`
}

// SensorReporterConfig configures the optional outbound sensor-event client
// (spec.md §6). If either field is empty the reporter is disabled.
type SensorReporterConfig struct {
	APIKey    string `toml:"api_key"`
	ServerURL string `toml:"server_url"`
}

// Config is the full set of startup inputs the bridge reads once (spec.md §6).
type Config struct {
	USB           UsbConfig             `toml:"usb"`
	ServerPort    int                   `toml:"server_port"`
	SensorReporter SensorReporterConfig `toml:"sensor_reporter"`
}

// DefaultServerPort is the bridge's well-known localhost port (spec.md §6).
const DefaultServerPort = 55000

// Default returns a Config with the documented default server port and no
// sensor reporter configured. VendorID/ProductID are left zero; the caller
// that owns configuration loading is expected to fill those in.
func Default() Config {
	return Config{ServerPort: DefaultServerPort}
}

// Decode parses TOML bytes into a Config, applying DefaultServerPort when the
// file omits server_port.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ServerPort == 0 {
		cfg.ServerPort = DefaultServerPort
	}
	return cfg, nil
}

// SearchPaths returns an ordered list of platform-appropriate locations to
// look for filename, highest priority first. This mirrors the search order
// used elsewhere in this codebase for per-component config files.
func SearchPaths(filename string) []string {
	var paths []string

	switch runtime.GOOS {
	case "windows":
		paths = append(paths, filepath.Join(os.Getenv("ProgramData"), "REIKA", "bridge", filename))
	case "darwin":
		paths = append(paths, filepath.Join("/Library/Application Support", "REIKA", "bridge", filename))
	default:
		paths = append(paths, filepath.Join("/etc/reika-bridge", filename))
	}

	if home, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "windows":
			paths = append(paths, filepath.Join(home, "AppData", "Local", "REIKA", "bridge", filename))
		case "darwin":
			paths = append(paths, filepath.Join(home, "Library", "Application Support", "REIKA", "bridge", filename))
		default:
			paths = append(paths, filepath.Join(home, ".config", "reika-bridge", filename))
		}
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), filename))
	}

	paths = append(paths, filepath.Join(".", filename))
	return paths
}

// FindAndDecode searches SearchPaths for filename and decodes the first one
// found. Returns the resolved path alongside the Config for diagnostics.
func FindAndDecode(filename string) (string, Config, error) {
	for _, path := range SearchPaths(filename) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg, err := Decode(data)
		return path, cfg, err
	}
	return "", Config{}, fmt.Errorf("%s not found in any search path", filename)
}
