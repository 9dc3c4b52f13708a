package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/calypso/internal/core"
	"github.com/JonMunkholm/calypso/internal/logging"
	"github.com/JonMunkholm/calypso/internal/web/templates"
)

// multipartMemory is how much of a selection ParseMultipartForm keeps in
// memory before spilling to temp files.
const multipartMemory = 32 << 20

// multipartOverhead allows for boundaries and form fields on top of the
// batch byte budget.
const multipartOverhead = 1 << 20

// handleIndex renders the full page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(s.app.Session.View()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleView renders the App fragment the page script swaps in.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.renderApp(w, r, http.StatusOK)
}

// handleState returns the session view model as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Session.View())
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"has_dataset": s.app.Session.HasDataset(),
	})
}

// handleSelect turns a multipart upload of dropped or picked files into a
// DropFiles or PickFiles gesture. Nothing is sent to the extraction service.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Upload.MaxBatchBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || (limit > 0 && r.ContentLength > limit+multipartOverhead) {
			s.app.Session.Notifications.ShowError(fmt.Sprintf(
				"[ERROR] Selected files exceed the %s upload limit", core.FormatFileSize(limit)))
			s.respondError(w, r, fmt.Errorf("%w: %w", core.ErrBatchTooLarge, err), http.StatusRequestEntityTooLarge)
			return
		}
		s.app.Session.Notifications.ShowError("[ERROR] Could not read the selected files")
		s.respondError(w, r, fmt.Errorf("parse selection: %w", err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := formFiles(r.MultipartForm)
	if err != nil {
		s.app.Session.Notifications.ShowError("[ERROR] Could not read the selected files")
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var gesture core.Gesture = core.PickFiles{Files: files}
	if r.FormValue("source") == string(core.SourceDrop) {
		gesture = core.DropFiles{Files: files}
	}

	s.respondGesture(w, r, s.app.Handle(gestureContext(r), gesture))
}

// formFiles reads every "files" part into memory. Modification times come
// from the parallel "modified" fields (milliseconds since the epoch) when the
// page sends them.
func formFiles(form *multipart.Form) ([]core.FileHandle, error) {
	headers := form.File["files"]
	modified := form.Value["modified"]

	files := make([]core.FileHandle, 0, len(headers))
	for i, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}

		var modTime time.Time
		if i < len(modified) {
			if ms, err := strconv.ParseInt(modified[i], 10, 64); err == nil && ms > 0 {
				modTime = time.UnixMilli(ms)
			}
		}

		files = append(files, core.NewMemoryFile(fh.Filename, fh.Header.Get("Content-Type"), modTime, data))
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// handleProcess presses "Process Files" for the bound batch.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	s.respondGesture(w, r, s.app.Handle(gestureContext(r), core.ClickUpload{}))
}

// handleDownload presses "Download CSV" and streams the file back as an
// attachment. Form field include_stats overrides the configured default.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	includeStats := s.cfg.Export.IncludeStats
	if v := r.FormValue("include_stats"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_stats must be true or false")
			return
		}
		includeStats = b
	}

	sink := &core.MemorySink{}
	if err := s.app.Handle(gestureContext(r), core.ClickDownload{IncludeStats: includeStats, Sink: sink}); err != nil {
		s.respondGesture(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sink.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(sink.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(sink.Data)
}

// handleCopyJSON presses "Copy JSON to Clipboard".
func (s *Server) handleCopyJSON(w http.ResponseWriter, r *http.Request) {
	s.respondGesture(w, r, s.app.Handle(gestureContext(r), core.ClickCopy{}))
}

// respondGesture answers a gesture with the fresh view, or with the error
// mapped to a status code.
func (s *Server) respondGesture(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if isFragment(r) {
		s.renderApp(w, r, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Session.View())
}

// renderApp writes the App fragment with status.
func (s *Server) renderApp(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.App(s.app.Session.View()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render fragment", "error", err)
	}
}
