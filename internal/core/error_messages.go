// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - No valid files: None of the selected files is a PDF
//	         Action: Select files ending in .pdf
//	SEL002 - Batch too large: The selected files exceed the upload size limit
//	         Action: Upload fewer files at a time
//	SEL003 - Nothing selected: Upload was triggered with no files selected
//	         Action: Drop or pick PDF files first
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Server error: The extraction service returned an HTTP error
//	         Action: Please try again; contact support if it persists
//	UPL002 - Rejected: The extraction service could not process the files
//	         Action: Check that the PDFs are Calypso measurement reports
//	UPL003 - Partial: Some files were skipped during processing
//	         Action: Review the listed files
//	UPL004 - Busy: The previous request is still running
//	         Action: Wait for it to finish
//
// # Network Errors (NET001-NET099)
//
//	NET001 - Network: The extraction service could not be reached or replied with invalid data
//	         Action: Check the service URL and your connection
//	NET002 - Connection refused: The extraction service is not running
//	         Action: Start the service or check CALYPSO_BASE_URL
//	         Patterns: "connection refused"
//	NET003 - Timeout: The request timed out
//	         Action: Try again with fewer files
//	         Patterns: "context deadline exceeded", "timeout"
//	NET004 - Cancelled: The request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export failed: The CSV could not be generated
//	         Action: Process the files again, then retry the download
//	EXP002 - No data: The service has no processed dataset
//	         Action: Upload PDF files first
//	EXP003 - Clipboard: The JSON could not be written to the clipboard
//	         Action: Check clipboard access for this session
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Typed errors are matched first with errors.Is / errors.As. Anything else
// falls through to case-insensitive pattern matching where the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNoValidFiles = UserMessage{Message: "None of the selected files is a PDF", Action: "Select files ending in .pdf", Code: "SEL001"}
	msgBatchTooBig  = UserMessage{Message: "The selected files exceed the upload size limit", Action: "Upload fewer files at a time", Code: "SEL002"}
	msgNoBatch      = UserMessage{Message: "No files selected", Action: "Drop or pick PDF files first", Code: "SEL003"}
	msgTransport    = UserMessage{Message: "The extraction service returned an HTTP error", Action: "Please try again; contact support if it persists", Code: "UPL001"}
	msgApplication  = UserMessage{Message: "The extraction service could not process the files", Action: "Check that the PDFs are Calypso measurement reports", Code: "UPL002"}
	msgPartial      = UserMessage{Message: "Some files were skipped during processing", Action: "Review the listed files", Code: "UPL003"}
	msgInFlight     = UserMessage{Message: "The previous request is still running", Action: "Wait for it to finish", Code: "UPL004"}
	msgNetwork      = UserMessage{Message: "The extraction service could not be reached or replied with invalid data", Action: "Check the service URL and your connection", Code: "NET001"}
	msgExport       = UserMessage{Message: "The CSV could not be generated", Action: "Process the files again, then retry the download", Code: "EXP001"}
	msgNoData       = UserMessage{Message: "The service has no processed dataset", Action: "Upload PDF files first", Code: "EXP002"}
	msgClipboard    = UserMessage{Message: "The JSON could not be written to the clipboard", Action: "Check clipboard access for this session", Code: "EXP003"}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps raw error text (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg:     UserMessage{Message: "The extraction service is not running", Action: "Start the service or check CALYPSO_BASE_URL", Code: "NET002"},
	},
	{
		pattern: "context deadline exceeded",
		msg:     UserMessage{Message: "The request timed out", Action: "Try again with fewer files", Code: "NET003"},
	},
	{
		pattern: "timeout",
		msg:     UserMessage{Message: "The request timed out", Action: "Try again with fewer files", Code: "NET003"},
	},
	{
		pattern: "context canceled",
		msg:     UserMessage{Message: "The request was cancelled", Action: "Please try again", Code: "NET004"},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for nil errors.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		transportErr *TransportError
		appErr       *ApplicationError
		partialErr   *PartialFailure
		exportErr    *ExportFailure
		clipErr      *ClipboardFailure
		netErr       *NetworkError
	)

	switch {
	case errors.Is(err, ErrNoValidFiles):
		return msgNoValidFiles
	case errors.Is(err, ErrBatchTooLarge):
		return msgBatchTooBig
	case errors.Is(err, ErrNoBatch):
		return msgNoBatch
	case errors.Is(err, ErrOperationInFlight):
		return msgInFlight
	case errors.Is(err, ErrNoDataAvailable):
		return msgNoData
	case errors.As(err, &clipErr):
		return msgClipboard
	case errors.As(err, &exportErr):
		return msgExport
	case errors.As(err, &transportErr):
		return msgTransport
	case errors.As(err, &appErr):
		return msgApplication
	case errors.As(err, &partialErr):
		return msgPartial
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.As(err, &netErr) {
		return msgNetwork
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific catalogue entry rather
// than the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
