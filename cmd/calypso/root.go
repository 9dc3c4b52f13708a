package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/calypso/internal/calypso"
	"github.com/JonMunkholm/calypso/internal/clipboard"
	"github.com/JonMunkholm/calypso/internal/config"
	"github.com/JonMunkholm/calypso/internal/core"
	"github.com/JonMunkholm/calypso/internal/logging"
	"github.com/JonMunkholm/calypso/internal/terminal"
)

// globalFlags override the matching config values when set.
type globalFlags struct {
	baseURL   string
	timeout   time.Duration
	logLevel  string
	logFormat string
}

// runtime is what every command needs once configuration is loaded.
type runtime struct {
	cfg       *config.Config
	client    *calypso.Client
	app       *core.App
	presenter *terminal.Presenter
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "calypso",
		Short: "Upload Calypso measurement PDFs and export the extracted data",
		Long: `calypso sends Calypso measurement report PDFs to the extraction service,
shows a preview of the measurements with out-of-tolerance rows highlighted,
and exports the dataset as CSV or copies the service's JSON to the clipboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.baseURL, "calypso-url", "", "extraction service base URL (env CALYPSO_BASE_URL)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout, 0 for none (env CALYPSO_REQUEST_TIMEOUT)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&flags.logFormat, "log-format", "", "text or json (env LOG_FORMAT)")

	root.AddCommand(
		newServeCmd(rt),
		newProcessCmd(rt),
		newExportCSVCmd(rt),
		newCopyJSONCmd(rt),
	)
	return root
}

// init loads and validates configuration, applies flag overrides and wires
// the app.
func (rt *runtime) init(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("calypso-url") {
		cfg.Calypso.BaseURL = flags.baseURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Calypso.RequestTimeout = flags.timeout
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	client, err := calypso.New(cfg.Calypso.BaseURL, calypso.WithTimeout(cfg.Calypso.RequestTimeout))
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.client = client
	rt.app = core.NewApp(core.AppConfig{
		Backend:       client,
		Clipboard:     clipboard.System{},
		MaxBatchBytes: cfg.Upload.MaxBatchBytes,
		NotifyUnit:    cfg.Notify.TimeUnit,
	})
	rt.presenter = terminal.New(os.Stdout)
	return nil
}

// pick opens paths from disk and offers them as a file-picker selection.
func (rt *runtime) pick(ctx context.Context, paths []string) error {
	files := make([]core.FileHandle, 0, len(paths))
	for _, p := range paths {
		f, err := core.OpenDiskFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	return rt.app.Handle(ctx, core.PickFiles{Files: files})
}
