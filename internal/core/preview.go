package core

import (
	"fmt"
)

// Indicator marks the rendered Has_OOT_Values cell.
type Indicator string

const (
	IndicatorNone    Indicator = ""
	IndicatorWarning Indicator = "warning"
	IndicatorOK      Indicator = "ok"
)

// Indicator cell texts.
const (
	OOTYesText = "⚠️ YES"
	OOTNoText  = "✓ NO"
)

// PreviewCell is one rendered table cell.
type PreviewCell struct {
	Text      string    `json:"text"`
	Indicator Indicator `json:"indicator,omitempty"`
}

// PreviewRow is one rendered table row. OOT rows get the out-of-tolerance
// background and left-border treatment.
type PreviewRow struct {
	Cells []PreviewCell `json:"cells"`
	OOT   bool          `json:"oot"`
}

// PreviewTable is the view model for the preview section.
type PreviewTable struct {
	Columns []string     `json:"columns"`
	Headers []string     `json:"headers"`
	Rows    []PreviewRow `json:"rows"`

	SampleSize        int `json:"sample_size"`
	TotalParts        int `json:"total_parts"`
	TotalMeasurements int `json:"total_measurements"`
	FileCount         int `json:"file_count"`
	OOTFilesCount     int `json:"oot_files_count"`

	Summary    string `json:"summary"`
	OOTSummary string `json:"oot_summary,omitempty"`
}

// OOTRowCount returns how many rendered rows are highlighted.
func (t PreviewTable) OOTRowCount() int {
	n := 0
	for _, r := range t.Rows {
		if r.OOT {
			n++
		}
	}
	return n
}

// PreviewRenderer projects an upload result onto a PreviewTable. It performs
// no I/O and keeps the server's row order.
type PreviewRenderer struct{}

// Render builds the table for result.
func (PreviewRenderer) Render(result UploadSuccess) PreviewTable {
	table := PreviewTable{
		Columns:           append([]string(nil), result.Columns...),
		Headers:           make([]string, len(result.Columns)),
		Rows:              make([]PreviewRow, 0, len(result.Preview)),
		SampleSize:        len(result.Preview),
		TotalParts:        result.TotalParts,
		TotalMeasurements: result.TotalMeasurements,
		FileCount:         len(result.ProcessedFiles),
		OOTFilesCount:     result.OOTFilesCount,
	}

	for i, col := range result.Columns {
		table.Headers[i] = FormatColumnName(col)
	}

	for _, row := range result.Preview {
		table.Rows = append(table.Rows, renderRow(row, result.Columns))
	}

	table.Summary = fmt.Sprintf(
		"Showing %d of %d parts with %d total measurements from %d file(s)",
		table.SampleSize, table.TotalParts, table.TotalMeasurements, table.FileCount,
	)
	if result.OOTFilesCount > 0 {
		table.OOTSummary = fmt.Sprintf("⚠️ %d file(s) have OOT values (highlighted in red)", result.OOTFilesCount)
	}

	return table
}

func renderRow(row Row, columns []string) PreviewRow {
	out := PreviewRow{
		Cells: make([]PreviewCell, len(columns)),
		OOT:   row.HasOOTValues(),
	}

	for i, col := range columns {
		if col == ReservedOOTColumn {
			if out.OOT {
				out.Cells[i] = PreviewCell{Text: OOTYesText, Indicator: IndicatorWarning}
			} else {
				out.Cells[i] = PreviewCell{Text: OOTNoText, Indicator: IndicatorOK}
			}
			continue
		}
		out.Cells[i] = PreviewCell{Text: FormatCell(row[col])}
	}
	return out
}
