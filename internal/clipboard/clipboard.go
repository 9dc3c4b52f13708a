// Package clipboard writes copied JSON to the system clipboard.
package clipboard

import (
	"errors"
	"io"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is present, for
// example on a headless host without xclip, xsel or wl-copy.
var ErrUnavailable = errors.New("system clipboard unavailable")

// System is the OS clipboard.
type System struct{}

// WriteText replaces the clipboard contents with text.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// ReadText returns the current clipboard contents.
func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Writer prints copied text to W, one document per line. It stands in for
// the clipboard on hosts that have none.
type Writer struct {
	W io.Writer
}

func (w Writer) WriteText(text string) error {
	_, err := io.WriteString(w.W, text+"\n")
	return err
}

// Memory is an in-process clipboard for the web shell and tests.
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}
