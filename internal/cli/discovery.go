package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/errors"
)

const (
	// MinimumVersion is the minimum known-good gemini CLI version.
	MinimumVersion = "0.4.0"

	// VersionCheckTimeout is the timeout for the CLI version check command.
	VersionCheckTimeout = 2 * time.Second
)

// Config holds configuration for CLI discovery.
type Config struct {
	// BinPath is an explicit CLI path that skips PATH search.
	// If empty, discovery will search PATH and common locations.
	BinPath string

	// SkipVersionCheck skips version validation during discovery.
	// Can also be controlled via the GEMINI_SDK_SKIP_VERSION_CHECK env var.
	SkipVersionCheck bool

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates and validates the gemini CLI binary.
type Discoverer interface {
	// Discover locates the gemini CLI binary and probes its version.
	// Returns the path to the CLI binary or an error.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new CLI discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the gemini CLI binary and probes its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	d.log.Debug("Discovering gemini CLI binary")

	binPath, err := d.findCLI()
	if err != nil {
		d.log.Error("Failed to find gemini CLI", "error", err)

		return "", err
	}

	d.log.Debug("Found gemini CLI binary", "bin_path", binPath)

	d.checkVersion(ctx, binPath)

	return binPath, nil
}

// findCLI locates the gemini CLI binary.
func (d *discoverer) findCLI() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.BinPath != "" {
		d.log.Debug("Using explicit CLI path", "bin_path", d.cfg.BinPath)

		if _, err := os.Stat(d.cfg.BinPath); err == nil {
			return d.cfg.BinPath, nil
		}

		d.log.Debug("Explicit CLI path not found", "bin_path", d.cfg.BinPath)

		return "", &errors.CLINotFoundError{SearchedPaths: []string{d.cfg.BinPath}}
	}

	searchedPaths := make([]string, 0, 4)

	// Search in PATH
	d.log.Debug("Searching for 'gemini' in PATH")

	if path, err := exec.LookPath("gemini"); err == nil {
		d.log.Debug("Found 'gemini' in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	// Check common locations
	commonPaths := []string{
		"/usr/local/bin/gemini",
		"/usr/bin/gemini",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin/gemini"))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)
		d.log.Debug("Checking common path", "path", path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found CLI at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("gemini CLI not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.CLINotFoundError{SearchedPaths: searchedPaths}
}

// checkVersion checks if the gemini CLI version meets minimum requirements.
// Logs a warning if the version is below minimum. Errors are silently ignored.
func (d *discoverer) checkVersion(ctx context.Context, binPath string) {
	if d.cfg.SkipVersionCheck {
		d.log.Debug("Skipping CLI version check (configured)")

		return
	}

	if os.Getenv("GEMINI_SDK_SKIP_VERSION_CHECK") != "" {
		d.log.Debug("Skipping CLI version check (GEMINI_SDK_SKIP_VERSION_CHECK set)")

		return
	}

	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, "--version")

	output, err := cmd.Output()
	if err != nil {
		// Silently ignore errors
		d.log.Debug("CLI version check failed", "error", err)

		return
	}

	// Parse version with regex: extract "X.Y.Z"
	versionStr := strings.TrimSpace(string(output))
	re := regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)

	match := re.FindStringSubmatch(versionStr)
	if match == nil {
		d.log.Debug("Could not parse CLI version", "output", versionStr)

		return
	}

	version := match[1]
	if compareVersions(version, MinimumVersion) < 0 {
		d.log.Warn("gemini CLI version is below the minimum known-good version",
			"version", version,
			"minimum_required", MinimumVersion,
		)

		fmt.Fprintf(os.Stderr,
			"Warning: gemini CLI version %s is below the minimum known-good version %s. "+
				"Some output formats may not work correctly.\n",
			version, MinimumVersion,
		)
	} else {
		d.log.Debug("CLI version check passed", "version", version, "minimum", MinimumVersion)
	}
}

// compareVersions compares two semantic versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := range 3 {
		aNum := 0
		bNum := 0

		if i < len(aParts) {
			aNum, _ = strconv.Atoi(aParts[i])
		}

		if i < len(bParts) {
			bNum, _ = strconv.Atoi(bParts[i])
		}

		if aNum < bNum {
			return -1
		}

		if aNum > bNum {
			return 1
		}
	}

	return 0
}
