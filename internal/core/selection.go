package core

import (
	"fmt"
	"log/slog"
)

// Source identifies how files were offered.
type Source string

const (
	SourceDrop   Source = "drop"
	SourcePicker Source = "picker"
)

// DefaultMaxBatchBytes matches the extraction service's request size cap.
const DefaultMaxBatchBytes = 16 * 1024 * 1024

// Selector turns drag-drop or file-picker input into a FileBatch and binds it
// to the upload trigger.
type Selector struct {
	session       *Session
	maxBatchBytes int64
}

// NewSelector creates a selector. maxBatchBytes <= 0 disables the size check.
func NewSelector(session *Session, maxBatchBytes int64) *Selector {
	return &Selector{session: session, maxBatchBytes: maxBatchBytes}
}

// FilterPDFs returns the PDF entries of files in their original order.
// Entries with an empty name are dropped.
func FilterPDFs(files []FileHandle) []FileHandle {
	out := make([]FileHandle, 0, len(files))
	for _, f := range files {
		if f == nil || f.Name() == "" {
			continue
		}
		if IsPDF(f) {
			out = append(out, f)
		}
	}
	return out
}

// Select validates files, publishes the advisory listing and binds the batch
// to the upload trigger. No network activity happens here.
func (s *Selector) Select(files []FileHandle, source Source) (FileBatch, error) {
	accepted := FilterPDFs(files)
	if len(accepted) == 0 {
		s.session.Notifications.ShowError("Please select PDF files only.")
		slog.Info("selection rejected", "source", source, "offered", len(files))
		return FileBatch{}, ErrNoValidFiles
	}

	batch := FileBatch{Files: accepted}

	if s.maxBatchBytes > 0 && batch.TotalBytes() > s.maxBatchBytes {
		s.session.Notifications.ShowError(fmt.Sprintf(
			"[ERROR] Selected files total %s; the server accepts at most %s per upload.",
			FormatFileSize(batch.TotalBytes()), FormatFileSize(s.maxBatchBytes),
		))
		return FileBatch{}, fmt.Errorf("%w: %d bytes", ErrBatchTooLarge, batch.TotalBytes())
	}

	listing := make([]FileListing, len(accepted))
	for i, f := range accepted {
		listing[i] = FileListing{
			Name:     f.Name(),
			Size:     FormatFileSize(f.Size()),
			Modified: FormatModTime(f.ModTime()),
			Status:   "Ready",
		}
	}
	s.session.bindBatch(batch, listing)

	slog.Info("files selected",
		"source", source,
		"offered", len(files),
		"accepted", len(accepted),
		"bytes", batch.TotalBytes(),
	)
	return batch, nil
}
