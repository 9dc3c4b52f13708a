package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoValidFiles is returned when a selection contains no PDF files.
	ErrNoValidFiles = errors.New("no valid PDF files selected")

	// ErrBatchTooLarge is returned when a batch exceeds the server's request size cap.
	ErrBatchTooLarge = errors.New("batch exceeds maximum upload size")

	// ErrNoBatch is returned when upload is triggered before any files were selected.
	ErrNoBatch = errors.New("no files selected")

	// ErrOperationInFlight is returned when a trigger fires while its previous
	// operation is still running.
	ErrOperationInFlight = errors.New("operation already in progress")

	// ErrNoDataAvailable is returned when the server has no processed dataset to return.
	ErrNoDataAvailable = errors.New("no JSON data available to copy")
)

// TransportError is a non-2xx HTTP response from the extraction service.
type TransportError struct {
	Op     string
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Status)
}

// NetworkError is a failure below the application layer: connection errors,
// truncated bodies or malformed JSON.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ApplicationError is a server response with success=false.
type ApplicationError struct {
	Message string
	Details []string
}

func (e *ApplicationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// PartialFailure lists per-file issues that accompanied a successful upload.
type PartialFailure struct {
	Issues []string
}

func (e *PartialFailure) Error() string {
	return "some files had issues: " + strings.Join(e.Issues, "; ")
}

// ExportFailure wraps a failed CSV export request.
type ExportFailure struct {
	Err error
}

func (e *ExportFailure) Error() string {
	return "csv export: " + e.Err.Error()
}

func (e *ExportFailure) Unwrap() error {
	return e.Err
}

// ClipboardFailure wraps a clipboard write error after a successful JSON fetch.
type ClipboardFailure struct {
	Err error
}

func (e *ClipboardFailure) Error() string {
	return "clipboard write: " + e.Err.Error()
}

func (e *ClipboardFailure) Unwrap() error {
	return e.Err
}

// IsTransportStatus reports whether err is a TransportError with the given status.
func IsTransportStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == status
}
