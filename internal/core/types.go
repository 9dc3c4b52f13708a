// Package core provides the client-side pipeline for the Calypso measurement service.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"encoding/json"
	"io"
	"time"
)

// ReservedOOTColumn is the row field the server uses to flag out-of-tolerance rows.
const ReservedOOTColumn = "Has_OOT_Values"

// FileHandle is a file offered for upload, either picked from disk or dropped
// into the browser page.
type FileHandle interface {
	Name() string
	Size() int64
	ModTime() time.Time
	// MediaType is the declared content type, possibly empty.
	MediaType() string
	Open() (io.ReadCloser, error)
}

// FileBatch is an ordered, non-empty set of PDF files ready for upload.
type FileBatch struct {
	Files []FileHandle
}

// Len returns the number of files in the batch.
func (b FileBatch) Len() int {
	return len(b.Files)
}

// TotalBytes returns the summed size of every file in the batch.
func (b FileBatch) TotalBytes() int64 {
	var n int64
	for _, f := range b.Files {
		n += f.Size()
	}
	return n
}

// Names returns the file names in batch order.
func (b FileBatch) Names() []string {
	names := make([]string, len(b.Files))
	for i, f := range b.Files {
		names[i] = f.Name()
	}
	return names
}

// Row is one preview record keyed by column name. Numbers are kept as
// json.Number so they round-trip to the export endpoint unchanged.
type Row map[string]any

// HasOOTValues reports whether the server flagged the row as out of tolerance.
func (r Row) HasOOTValues() bool {
	v, ok := r[ReservedOOTColumn].(bool)
	return ok && v
}

// clone returns a shallow copy; row values are scalars.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

// UploadResult is the outcome of one upload call. Exactly one of Success and
// Failure is set.
type UploadResult struct {
	Success *UploadSuccess
	Failure *UploadFailure
}

// OK reports whether the server accepted the batch.
func (r UploadResult) OK() bool {
	return r.Success != nil
}

// UploadSuccess carries the extracted measurement sample and aggregates.
type UploadSuccess struct {
	ProcessedFiles    []string
	TotalMeasurements int
	TotalParts        int
	Preview           []Row
	Columns           []string
	OOTFilesCount     int
	OOTFilesList      []string
	// Warnings are per-file issues reported alongside an overall success.
	Warnings []string
}

// UploadFailure is an application-level rejection (success=false).
type UploadFailure struct {
	Error   string
	Details []string
}

// ExportRequest is the body sent to the CSV export endpoint.
type ExportRequest struct {
	Data         []Row `json:"data"`
	IncludeStats bool  `json:"include_stats"`
}

// UploadResponse mirrors the JSON document returned by POST /upload.
type UploadResponse struct {
	Success           bool     `json:"success"`
	ProcessedFiles    []string `json:"processed_files"`
	TotalMeasurements int      `json:"total_measurements"`
	TotalParts        int      `json:"total_parts"`
	Preview           []Row    `json:"preview"`
	Columns           []string `json:"columns"`
	OOTFilesCount     int      `json:"OOT_files_count"`
	OOTFilesList      []string `json:"OOT_files_list"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	Error             string   `json:"error"`
	Details           []string `json:"details"`
}

// Result converts the wire document into an immutable UploadResult.
func (r *UploadResponse) Result() UploadResult {
	if !r.Success {
		return UploadResult{Failure: &UploadFailure{
			Error:   r.Error,
			Details: append([]string(nil), r.Details...),
		}}
	}

	var warnings []string
	warnings = append(warnings, r.Errors...)
	warnings = append(warnings, r.Warnings...)

	return UploadResult{Success: &UploadSuccess{
		ProcessedFiles:    append([]string(nil), r.ProcessedFiles...),
		TotalMeasurements: r.TotalMeasurements,
		TotalParts:        r.TotalParts,
		Preview:           cloneRows(r.Preview),
		Columns:           append([]string(nil), r.Columns...),
		OOTFilesCount:     r.OOTFilesCount,
		OOTFilesList:      append([]string(nil), r.OOTFilesList...),
		Warnings:          warnings,
	}}
}

// DecodeUploadResponse parses an upload response body, preserving numeric
// literals as json.Number.
func DecodeUploadResponse(r io.Reader) (*UploadResponse, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp UploadResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
