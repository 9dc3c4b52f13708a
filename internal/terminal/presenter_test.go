package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/calypso/internal/core"
)

func TestPresenter_Notification(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Notification(core.Notification{Kind: core.KindError, Message: "[WARNING] Some files had issues:\nc.pdf: no tables"})

	out := buf.String()
	if !strings.Contains(out, "[WARNING] Some files had issues:\nc.pdf: no tables") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal output contains ANSI escapes: %q", out)
	}
}

func TestPresenter_AttachPrintsEveryNotification(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	center := core.NewNotificationCenter(time.Hour)
	p.Attach(center)

	center.ShowSuccess("[SUCCESS] Successfully processed 2 file(s)")
	center.ShowError("[WARNING] Some files had issues:")

	out := buf.String()
	for _, want := range []string{"Successfully processed 2 file(s)", "Some files had issues"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPresenter_Listing(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Listing([]core.FileListing{
		{Name: "a.pdf", Size: "1.5 KB", Modified: "1/15/2025", Status: "Ready"},
	})

	out := buf.String()
	for _, want := range []string{"File", "Size", "a.pdf", "1.5 KB", "1/15/2025", "Ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestPresenter_ListingEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Listing(nil)
	if buf.Len() != 0 {
		t.Errorf("empty listing printed %q", buf.String())
	}
}

func TestPresenter_Preview(t *testing.T) {
	table := core.PreviewRenderer{}.Render(core.UploadSuccess{
		ProcessedFiles:    []string{"a.pdf", "b.pdf"},
		TotalMeasurements: 40,
		TotalParts:        2,
		Columns:           []string{"Part_Number", "DIM1", core.ReservedOOTColumn},
		Preview: []core.Row{
			{"Part_Number": "Part_001", "DIM1": 1.25, core.ReservedOOTColumn: false},
			{"Part_Number": "Part_002", "DIM1": 9.5, core.ReservedOOTColumn: true},
		},
		OOTFilesCount: 1,
	})

	var buf bytes.Buffer
	New(&buf).Preview(table)

	out := buf.String()
	for _, want := range []string{
		"Part Number", "Has OOT Values",
		"Part_001", "1.25", core.OOTNoText,
		"Part_002", "9.5", core.OOTYesText,
		"Showing 2 of 2 parts with 40 total measurements from 2 file(s)",
		"1 file(s) have OOT values",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestPresenter_StatusOnlyWhenBusy(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Status(core.ControlState{Name: "upload", Label: core.LabelProcess})
	if buf.Len() != 0 {
		t.Errorf("idle control printed %q", buf.String())
	}

	p.Status(core.ControlState{Name: "upload", Label: core.LabelProcessing, Disabled: true})
	if !strings.Contains(buf.String(), "Processing...") {
		t.Errorf("busy status = %q", buf.String())
	}
}
