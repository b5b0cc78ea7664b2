package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/compatscan/internal/config"
	"github.com/nao1215/compatscan/internal/database"
	"github.com/nao1215/compatscan/internal/engine"
	"github.com/nao1215/compatscan/internal/log"
	"github.com/nao1215/compatscan/internal/model"
	"github.com/nao1215/compatscan/internal/report"
	"github.com/nao1215/compatscan/internal/verify"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Analyze a web page for cross-browser and cross-device compatibility",
		Long: `Scan fetches the target page under simulated client identities, extracts
compatibility signals from the markup, cross-references a feature-support
table, and builds a browser×device compatibility matrix.

With --real, each combination is additionally verified in a live headless
Chrome session (requires a Chrome/Chromium binary on PATH).

Examples:
  # Scan with the default browser and device sets
  compatscan scan https://example.com

  # Scan specific browsers and devices
  compatscan scan --browser Chrome:120 --browser Safari:17 \
    --device Mobile:375x667 https://example.com

  # Verify with real browser sessions and capture screenshots
  compatscan scan --real --screenshot https://example.com

  # Use named profile sets from .compatscan.yml
  compatscan scan --browser-set evergreen --device-set handhelds https://example.com

  # Output JSON and save the run to history
  compatscan scan --json --save https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Profile flags
	cmd.Flags().StringArrayP("browser", "b", nil,
		"Browser profile as Name[:Version] (repeatable)")
	cmd.Flags().StringArrayP("device", "d", nil,
		"Device profile as Name:WIDTHxHEIGHT (repeatable)")
	cmd.Flags().StringP("profiles", "c", "",
		"Profile file path (default: .compatscan.yml in current or home directory)")
	cmd.Flags().String("browser-set", "",
		"Named browser set from the profile file")
	cmd.Flags().String("device-set", "",
		"Named device set from the profile file")

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each fetch and each live navigation")
	cmd.Flags().Bool("no-matrix", false,
		"Skip the browser×device matrix pass")
	cmd.Flags().Bool("no-features", false,
		"Skip feature-support detection")
	cmd.Flags().Bool("real", false,
		"Verify combinations with real headless browser sessions")
	cmd.Flags().Bool("screenshot", false,
		"Capture full-page screenshots during real verification")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save the finished report to the run-history database")
	cmd.Flags().String("db-dir", "",
		"Run-history database directory (default: XDG data directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return errors.New("conflicting report formats: --json and --markdown cannot be used together")
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(verbose)
	slog.SetDefault(logger)

	// Cancel the run on interrupt; the engine stops at the next
	// pipeline checkpoint.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	// The automation capability is a constructor-time fact: probe for a
	// browser binary here and hand the engine a driver or nothing.
	var driver verify.Driver
	if cfg.RealVerification {
		if verify.DetectChrome() {
			driver = verify.NewChromeDriver()
		} else {
			logger.Warn("no Chrome/Chromium binary found; real verification will be reported as unavailable")
		}
	}

	store := engine.NewRunStore(engine.WithObserver(func(ev model.ProgressEvent) {
		if verbose {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s: %s\n", ev.Progress, ev.Status, ev.Message)
		}
	}))

	eng := engine.New(
		engine.WithHTTPClient(http.DefaultClient),
		engine.WithDriver(driver),
		engine.WithRunStore(store),
		engine.WithEngineLogger(logger),
	)

	result, err := eng.Execute(ctx, cfg)
	if err != nil {
		return err
	}

	if err := writeReport(cmd, result, jsonOut, markdownOut); err != nil {
		return err
	}

	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}
	if save {
		if err := saveReport(cmd, result); err != nil {
			return err
		}
	}

	return nil
}

// writeReport renders the report in the selected format, to stdout or the
// --output path.
func writeReport(cmd *cobra.Command, result *model.CompatReport, jsonOut, markdownOut bool) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	dest := cmd.OutOrStdout()
	if output != "" {
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(output) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort on close
		dest = f
	}

	var w report.Writer
	switch {
	case jsonOut:
		w = report.NewJSONWriter(dest, report.WithPrettyPrint())
	case markdownOut:
		w = report.NewMarkdownWriter(dest)
	default:
		w = report.NewSimpleWriter(dest, report.WithVerbose(getVerboseFlag(cmd)))
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveReport persists the report to the run-history database.
func saveReport(cmd *cobra.Command, result *model.CompatReport) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Best effort on close

	if err := db.SaveReport(cmd.Context(), result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved run %s\n", result.RunID)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig(args[0])

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	noMatrix, err := cmd.Flags().GetBool("no-matrix")
	if err != nil {
		return nil, err
	}
	cfg.EnableMatrix = !noMatrix

	noFeatures, err := cmd.Flags().GetBool("no-features")
	if err != nil {
		return nil, err
	}
	cfg.FeatureDetection = !noFeatures

	cfg.RealVerification, err = cmd.Flags().GetBool("real")
	if err != nil {
		return nil, err
	}

	cfg.CaptureScreenshot, err = cmd.Flags().GetBool("screenshot")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyProfileFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyProfileFlags resolves the browser/device lists from --browser and
// --device flags and from named sets in the profile file. Explicit flags
// and named sets combine; an empty result falls back to the defaults at
// validation time.
func applyProfileFlags(cmd *cobra.Command, cfg *config.Config) error {
	browserFlags, err := cmd.Flags().GetStringArray("browser")
	if err != nil {
		return err
	}
	for _, spec := range browserFlags {
		profile, err := parseBrowserSpec(spec)
		if err != nil {
			return err
		}
		cfg.Browsers = append(cfg.Browsers, profile)
	}

	deviceFlags, err := cmd.Flags().GetStringArray("device")
	if err != nil {
		return err
	}
	for _, spec := range deviceFlags {
		profile, err := parseDeviceSpec(spec)
		if err != nil {
			return err
		}
		cfg.Devices = append(cfg.Devices, profile)
	}

	browserSet, err := cmd.Flags().GetString("browser-set")
	if err != nil {
		return err
	}
	deviceSet, err := cmd.Flags().GetString("device-set")
	if err != nil {
		return err
	}
	if browserSet == "" && deviceSet == "" {
		return nil
	}

	profilesPath, err := cmd.Flags().GetString("profiles")
	if err != nil {
		return err
	}
	found := config.FindProfileFile(profilesPath)
	if found == "" {
		return fmt.Errorf("%w: named profile sets require a profile file", config.ErrProfileFileNotFound)
	}

	pf, err := config.LoadProfileFile(found)
	if err != nil {
		return err
	}

	if browserSet != "" {
		set, ok := pf.Browsers[browserSet]
		if !ok {
			return fmt.Errorf("browser set %q not found in %s", browserSet, found)
		}
		cfg.Browsers = append(cfg.Browsers, set...)
	}
	if deviceSet != "" {
		set, ok := pf.Devices[deviceSet]
		if !ok {
			return fmt.Errorf("device set %q not found in %s", deviceSet, found)
		}
		cfg.Devices = append(cfg.Devices, set...)
	}

	return nil
}

// parseBrowserSpec parses "Name[:Version]" into a browser profile.
func parseBrowserSpec(spec string) (model.BrowserProfile, error) {
	name, version, _ := strings.Cut(spec, ":")
	if strings.TrimSpace(name) == "" {
		return model.BrowserProfile{}, fmt.Errorf("invalid browser spec %q: want Name[:Version]", spec)
	}
	return model.BrowserProfile{
		Name:    strings.TrimSpace(name),
		Version: strings.TrimSpace(version),
	}, nil
}

// parseDeviceSpec parses "Name:WIDTHxHEIGHT" into a device profile.
func parseDeviceSpec(spec string) (model.DeviceProfile, error) {
	name, size, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return model.DeviceProfile{}, fmt.Errorf("invalid device spec %q: want Name:WIDTHxHEIGHT", spec)
	}

	widthStr, heightStr, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return model.DeviceProfile{}, fmt.Errorf("invalid device spec %q: want Name:WIDTHxHEIGHT", spec)
	}

	width, err := strconv.Atoi(strings.TrimSpace(widthStr))
	if err != nil {
		return model.DeviceProfile{}, fmt.Errorf("invalid device width in %q: %w", spec, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(heightStr))
	if err != nil {
		return model.DeviceProfile{}, fmt.Errorf("invalid device height in %q: %w", spec, err)
	}

	return model.DeviceProfile{
		Name:     strings.TrimSpace(name),
		Viewport: model.Viewport{Width: width, Height: height},
	}, nil
}
