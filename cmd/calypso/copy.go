package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/calypso/internal/clipboard"
	"github.com/JonMunkholm/calypso/internal/core"
)

func newCopyJSONCmd(rt *runtime) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "copy-json",
		Short: "Copy the service's JSON for the last processed batch to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries only the JSON document in --stdout mode
			if !stdout {
				rt.presenter.Attach(rt.app.Session.Notifications)
			}
			return rt.copyJSON(cmd, stdout)
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the JSON instead of using the clipboard")
	return cmd
}

// copyJSON presses Copy JSON. With toStdout the document is printed to the
// command's output instead of the clipboard (headless hosts have none).
func (rt *runtime) copyJSON(cmd *cobra.Command, toStdout bool) error {
	if toStdout {
		rt.app.Exports = core.NewExportController(rt.app.Session, rt.client, clipboard.Writer{W: cmd.OutOrStdout()})
	}
	return rt.app.Handle(cmd.Context(), core.ClickCopy{})
}
