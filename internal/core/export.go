package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/calypso/internal/logging"
)

// CSVFilePrefix starts every exported CSV file name.
const CSVFilePrefix = "calypso_measurements_"

// DownloadSink receives an exported file.
type DownloadSink interface {
	Save(name string, data []byte) error
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// ExportController runs the two export paths against the held dataset.
// Neither path ever reads the original files.
type ExportController struct {
	session   *Session
	backend   Backend
	clipboard Clipboard
	now       func() time.Time
}

// NewExportController creates an export controller.
func NewExportController(session *Session, backend Backend, clipboard Clipboard) *ExportController {
	return &ExportController{
		session:   session,
		backend:   backend,
		clipboard: clipboard,
		now:       time.Now,
	}
}

// CSVFileName builds the download name for a CSV generated at t: the prefix
// plus the UTC timestamp to the second with colons replaced.
func CSVFileName(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05")
	return CSVFilePrefix + strings.ReplaceAll(stamp, ":", "-") + ".csv"
}

// ExportCSV posts the held dataset to the export endpoint and saves the
// returned CSV to sink. It returns the saved file name. On failure nothing is
// written to sink.
func (e *ExportController) ExportCSV(ctx context.Context, includeStats bool, sink DownloadSink) (string, error) {
	notes := e.session.Notifications
	if !e.session.Download.TryBegin() {
		notes.ShowError(busyMessage)
		return "", ErrOperationInFlight
	}
	defer e.session.Download.End()

	opID := uuid.NewString()
	ctx = ContextWithOperationID(ctx, opID)
	logger := logging.WithFields(ctx, "op", "export_csv", "op_id", opID)

	req := ExportRequest{
		Data:         e.session.Dataset(),
		IncludeStats: includeStats,
	}
	if req.Data == nil {
		req.Data = []Row{}
	}

	data, err := e.backend.DownloadCSV(ctx, req)
	if err != nil {
		logger.Error("csv export failed", "error", err, "rows", len(req.Data))
		notes.ShowError("[ERROR] Error downloading file: " + exportReason(err))
		return "", &ExportFailure{Err: err}
	}

	name := CSVFileName(e.now())
	if err := sink.Save(name, data); err != nil {
		logger.Error("csv save failed", "error", err, "file", name)
		notes.ShowError("[ERROR] Error downloading file: " + err.Error())
		return "", &ExportFailure{Err: err}
	}

	logger.Info("csv exported", "file", name, "bytes", len(data), "rows", len(req.Data), "stats", includeStats)
	notes.ShowSuccess("[SUCCESS] CSV file downloaded successfully!")
	return name, nil
}

// exportReason keeps the short "Download failed" wording for HTTP errors.
func exportReason(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return "Download failed"
	}
	return failureReason(err)
}

// noDataMessage is shown when the server has nothing to copy yet.
const noDataMessage = "[ERROR] No JSON data available to copy"

// CopyAsJSON fetches the server's JSON rendition of the last processed
// dataset, indents it and writes it to the clipboard.
func (e *ExportController) CopyAsJSON(ctx context.Context) error {
	notes := e.session.Notifications
	if !e.session.Copy.TryBegin() {
		notes.ShowError(busyMessage)
		return ErrOperationInFlight
	}
	defer e.session.Copy.End()

	opID := uuid.NewString()
	ctx = ContextWithOperationID(ctx, opID)
	logger := logging.WithFields(ctx, "op", "copy_json", "op_id", opID)

	raw, err := e.backend.JSONData(ctx)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			logger.Info("no json data available", "status", te.Status)
			notes.ShowError(noDataMessage)
			return fmt.Errorf("%w: %w", ErrNoDataAvailable, err)
		}
		logger.Error("json fetch failed", "error", err)
		notes.ShowError("[ERROR] " + failureReason(err))
		return err
	}

	text, err := IndentJSON(raw)
	if err != nil {
		nerr := &NetworkError{Op: "json_data", Err: err}
		logger.Error("json decode failed", "error", err)
		notes.ShowError("[ERROR] " + err.Error())
		return nerr
	}

	if err := e.clipboard.WriteText(text); err != nil {
		logger.Error("clipboard write failed", "error", err)
		notes.ShowError("[ERROR] Failed to copy JSON: " + err.Error())
		return &ClipboardFailure{Err: err}
	}

	logger.Info("json copied", "bytes", len(text))
	notes.ShowSuccess("[SUCCESS] JSON copied to clipboard!")
	return nil
}

// IndentJSON re-indents a JSON document with two spaces, keeping key order.
func IndentJSON(raw []byte) (string, error) {
	if !json.Valid(raw) {
		return "", errors.New("invalid JSON in response")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DirSink saves downloads into a directory.
type DirSink struct {
	Dir string
}

// Save writes data to Dir/name through a temp file so a partial file is never
// left behind.
func (d DirSink) Save(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	return os.Rename(tmp.Name(), filepath.Join(d.Dir, name))
}

// MemorySink keeps the last saved download in memory.
type MemorySink struct {
	Name string
	Data []byte
}

// Save records the download.
func (m *MemorySink) Save(name string, data []byte) error {
	m.Name = name
	m.Data = data
	return nil
}
