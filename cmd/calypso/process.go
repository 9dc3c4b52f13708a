package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/calypso/internal/core"
)

type exportFlags struct {
	csv   bool
	stats bool
	json  bool
	out   string
}

func newProcessCmd(rt *runtime) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "process FILE...",
		Short: "Upload PDF files and show the measurement preview",
		Long: `process uploads the given PDF files as one batch, prints the file listing,
the preview table and the outcome. Non-PDF arguments are skipped.
With --csv or --json the dataset is exported in the same session.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.process(cmd, args); err != nil {
				return err
			}
			if flags.csv {
				if err := rt.exportCSV(cmd, flags); err != nil {
					return err
				}
			}
			if flags.json {
				return rt.copyJSON(cmd, false)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.csv, "csv", false, "download the CSV after processing")
	cmd.Flags().BoolVar(&flags.json, "json", false, "copy the JSON to the clipboard after processing")
	addCSVFlags(cmd, &flags)
	return cmd
}

func newExportCSVCmd(rt *runtime) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export-csv FILE...",
		Short: "Process PDF files and save the measurements as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.process(cmd, args); err != nil {
				return err
			}
			return rt.exportCSV(cmd, flags)
		},
	}

	addCSVFlags(cmd, &flags)
	return cmd
}

func addCSVFlags(cmd *cobra.Command, flags *exportFlags) {
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "include the statistics section (env EXPORT_INCLUDE_STATS)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "download directory (env EXPORT_DOWNLOAD_DIR)")
}

// process selects paths, uploads them and prints the result.
func (rt *runtime) process(cmd *cobra.Command, paths []string) error {
	rt.presenter.Attach(rt.app.Session.Notifications)

	if err := rt.pick(cmd.Context(), paths); err != nil {
		return err
	}
	rt.presenter.Listing(rt.app.Session.Listing())
	rt.presenter.Status(core.ControlState{Name: "upload", Label: core.LabelProcessing, Disabled: true})

	if err := rt.app.Handle(cmd.Context(), core.ClickUpload{}); err != nil {
		return err
	}

	if table, ok := rt.app.Session.Preview(); ok {
		rt.presenter.Preview(table)
	}
	return nil
}

// exportCSV downloads the held dataset into the download directory.
func (rt *runtime) exportCSV(cmd *cobra.Command, flags exportFlags) error {
	includeStats := rt.cfg.Export.IncludeStats
	if cmd.Flags().Changed("stats") {
		includeStats = flags.stats
	}
	dir := rt.cfg.Export.DownloadDir
	if flags.out != "" {
		dir = flags.out
	}

	name, err := rt.app.Exports.ExportCSV(cmd.Context(), includeStats, core.DirSink{Dir: dir})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", name)
	return nil
}
