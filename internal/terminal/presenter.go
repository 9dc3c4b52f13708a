// Package terminal renders session state for the command line: notifications,
// the file listing and the preview table with OOT rows highlighted.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/JonMunkholm/calypso/internal/core"
)

const defaultWidth = 120

// Styles groups the lipgloss styles used by the presenter.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Faded   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	OOTRow  lipgloss.Style
	Summary lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		Faded:   r.NewStyle().Faint(true),
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1),
		Cell:    r.NewStyle().Padding(0, 1),
		OOTRow:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#8B0000")),
		Summary: r.NewStyle().Foreground(lipgloss.Color("#808080")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Bold(true),
		Border:  r.NewStyle().Foreground(lipgloss.Color("#444444")),
	}
}

// Presenter writes views to a terminal or any other writer. Output to a
// non-terminal is plain: no colors and ASCII borders.
type Presenter struct {
	mu     sync.Mutex
	out    io.Writer
	tty    bool
	width  int
	styles Styles
}

// New creates a presenter for out. Color and width are detected when out is
// a terminal.
func New(out io.Writer) *Presenter {
	p := &Presenter{out: out, width: defaultWidth}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			p.width = w
		}
	}

	p.styles = newStyles(lipgloss.NewRenderer(out))
	return p
}

// Attach prints every notification shown by center as it happens.
func (p *Presenter) Attach(center *core.NotificationCenter) {
	center.Subscribe(p.Notification)
}

// Notification prints one notification. Multi-line messages keep their
// line breaks.
func (p *Presenter) Notification(n core.Notification) {
	style := p.styles.Success
	if n.Kind == core.KindError {
		style = p.styles.Error
	}
	if n.Faded {
		style = style.Inherit(p.styles.Faded)
	}

	p.println(style.Render(n.Message))
}

// Listing prints the advisory file listing of the last selection.
func (p *Presenter) Listing(files []core.FileListing) {
	if len(files) == 0 {
		return
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Name, f.Size, f.Modified, f.Status})
	}

	t := p.newTable().
		Headers("File", "Size", "Modified", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.Header
			}
			return p.styles.Cell
		})

	p.println(t.Render())
}

// Status prints a busy control's label, e.g. "Processing...".
func (p *Presenter) Status(state core.ControlState) {
	if !state.Disabled {
		return
	}
	p.println(p.styles.Summary.Render(state.Label))
}

// Preview prints the preview table followed by its summary lines.
func (p *Presenter) Preview(tbl core.PreviewTable) {
	rows := make([][]string, 0, len(tbl.Rows))
	for _, r := range tbl.Rows {
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			cells[i] = c.Text
		}
		rows = append(rows, cells)
	}

	t := p.newTable().
		Headers(tbl.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.Header
			case row >= 0 && row < len(tbl.Rows) && tbl.Rows[row].OOT:
				return p.styles.OOTRow
			default:
				return p.styles.Cell
			}
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(p.styles.Summary.Render(tbl.Summary))
	if tbl.OOTSummary != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.Warning.Render(tbl.OOTSummary))
	}
	p.println(b.String())
}

// View prints everything visible in a session snapshot.
func (p *Presenter) View(v core.View) {
	if v.Notification != nil {
		p.Notification(*v.Notification)
	}
	p.Listing(v.Listing)
	p.Status(v.Controls.Upload)
	if v.Preview != nil {
		p.Preview(*v.Preview)
	}
}

func (p *Presenter) newTable() *table.Table {
	border := lipgloss.ASCIIBorder()
	if p.tty {
		border = lipgloss.RoundedBorder()
	}
	t := table.New().
		Border(border).
		BorderStyle(p.styles.Border)
	if p.tty {
		t = t.Width(p.width)
	}
	return t
}

func (p *Presenter) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}
