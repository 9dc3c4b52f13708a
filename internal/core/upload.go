package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/calypso/internal/logging"
)

// Backend is the extraction service as seen by the controllers.
//
// Implementations return *TransportError for non-2xx responses and
// *NetworkError for connection or decoding failures.
type Backend interface {
	Upload(ctx context.Context, batch FileBatch) (*UploadResponse, error)
	DownloadCSV(ctx context.Context, req ExportRequest) ([]byte, error)
	JSONData(ctx context.Context) ([]byte, error)
}

// UploadSession owns the lifecycle of an upload: busy state, request,
// response classification and handing a success to the preview.
type UploadSession struct {
	session  *Session
	backend  Backend
	renderer PreviewRenderer
}

// NewUploadSession creates an upload session over the shared state.
func NewUploadSession(session *Session, backend Backend) *UploadSession {
	return &UploadSession{session: session, backend: backend}
}

// Upload sends batch to the extraction service. Steps run strictly in order:
// busy entry, request, classification, state update, control restore.
//
// The returned error is nil for a successful upload even when the server
// reported per-file issues; check UploadSuccess.Partial for those.
func (u *UploadSession) Upload(ctx context.Context, batch FileBatch) (UploadResult, error) {
	notes := u.session.Notifications

	if batch.Len() == 0 {
		notes.ShowError("Please select PDF files only.")
		return UploadResult{}, ErrNoValidFiles
	}

	if !u.session.Upload.TryBegin() {
		notes.ShowError(busyMessage)
		return UploadResult{}, ErrOperationInFlight
	}
	defer func() {
		u.session.setBusy(false)
		u.session.Upload.End()
	}()

	u.session.setBusy(true)
	notes.Clear()

	opID := uuid.NewString()
	ctx = ContextWithOperationID(ctx, opID)
	logger := logging.WithFields(ctx, "op", "upload", "op_id", opID)

	start := time.Now()
	logger.Info("upload started", "files", batch.Len(), "bytes", batch.TotalBytes())

	resp, err := u.backend.Upload(ctx, batch)
	if err != nil {
		logger.Error("upload failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		notes.ShowError("[ERROR] Error uploading files: " + failureReason(err))
		return UploadResult{}, err
	}

	result := resp.Result()

	if !result.OK() {
		f := result.Failure
		logger.Warn("upload rejected", "error", f.Error, "details", len(f.Details))
		notes.ShowError(applicationMessage(f))
		return result, &ApplicationError{Message: f.Error, Details: f.Details}
	}

	s := result.Success
	notes.ShowSuccess(successMessage(s))
	u.session.showPreview(u.renderer.Render(*s))
	u.session.replaceDataset(s.Preview)

	if p := s.Partial(); p != nil {
		notes.ShowError("[WARNING] Some files had issues:\n" + strings.Join(p.Issues, "\n"))
	}

	logger.Info("upload completed",
		"processed", len(s.ProcessedFiles),
		"measurements", s.TotalMeasurements,
		"parts", s.TotalParts,
		"oot_files", s.OOTFilesCount,
		"issues", len(s.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Partial returns the per-file issues reported alongside the success, or nil.
func (s UploadSuccess) Partial() *PartialFailure {
	if len(s.Warnings) == 0 {
		return nil
	}
	return &PartialFailure{Issues: append([]string(nil), s.Warnings...)}
}

func successMessage(s *UploadSuccess) string {
	lines := []string{
		fmt.Sprintf("[SUCCESS] Successfully processed %d file(s)", len(s.ProcessedFiles)),
		fmt.Sprintf("[DATA] Extracted %d measurements", s.TotalMeasurements),
		"[FILES] " + strings.Join(s.ProcessedFiles, ", "),
	}
	if s.OOTFilesCount > 0 {
		lines = append(lines, fmt.Sprintf(
			"[WARNING] %d file(s) contain OOT values (out of tolerance): %s",
			s.OOTFilesCount, strings.Join(s.OOTFilesList, ", "),
		))
	} else {
		lines = append(lines, "[INFO] No OOT values detected in any files")
	}
	return strings.Join(lines, "\n")
}

func applicationMessage(f *UploadFailure) string {
	msg := "[ERROR] " + f.Error
	if len(f.Details) > 0 {
		msg += "\nDetails: " + strings.Join(f.Details, "\n")
	}
	return msg
}

// failureReason is the user-visible reason for a transport or network error.
func failureReason(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("HTTP error! status: %d", te.Status)
	}
	var ne *NetworkError
	if errors.As(err, &ne) && ne.Err != nil {
		return ne.Err.Error()
	}
	return err.Error()
}
