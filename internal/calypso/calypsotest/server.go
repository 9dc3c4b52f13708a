// Package calypsotest provides an in-process fake of the extraction service
// for tests.
package calypsotest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Upload is one multipart request received by the fake.
type Upload struct {
	FileNames []string
	Contents  [][]byte
	RequestID string
}

// ExportCall is one /download_csv request received by the fake.
type ExportCall struct {
	Data         []map[string]any `json:"data"`
	IncludeStats bool             `json:"include_stats"`
}

// Server is a fake extraction service. Zero-valued responses default to
// HTTP 200 with an empty body.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	UploadStatus int
	UploadBody   any

	CSVStatus int
	CSVBody   []byte

	JSONStatus int
	JSONBody   []byte

	uploads []Upload
	exports []ExportCall
	jsonHit int
}

// NewServer starts a fake service. Call Close when done.
func NewServer() *Server {
	s := &Server{}

	r := chi.NewRouter()
	r.Post("/upload", s.handleUpload)
	r.Post("/download_csv", s.handleDownloadCSV)
	r.Get("/json_data", s.handleJSONData)

	s.Server = httptest.NewServer(r)
	return s
}

// SetUpload configures the /upload reply.
func (s *Server) SetUpload(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadStatus, s.UploadBody = status, body
}

// SetCSV configures the /download_csv reply.
func (s *Server) SetCSV(status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CSVStatus, s.CSVBody = status, body
}

// SetJSON configures the /json_data reply.
func (s *Server) SetJSON(status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.JSONStatus, s.JSONBody = status, body
}

// Uploads returns the upload requests received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Exports returns the CSV export requests received so far.
func (s *Server) Exports() []ExportCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExportCall(nil), s.exports...)
}

// JSONRequests returns how many times /json_data was fetched.
func (s *Server) JSONRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jsonHit
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "bad multipart", http.StatusBadRequest)
		return
	}

	up := Upload{RequestID: r.Header.Get("X-Request-ID")}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, "bad part", http.StatusBadRequest)
			return
		}
		if part.FormName() != "files" {
			continue
		}
		data, _ := io.ReadAll(part)
		up.FileNames = append(up.FileNames, part.FileName())
		up.Contents = append(up.Contents, data)
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	status, body := s.UploadStatus, s.UploadBody
	s.mu.Unlock()

	writeReply(w, status, "application/json", body)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	var call ExportCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.exports = append(s.exports, call)
	status, body := s.CSVStatus, s.CSVBody
	s.mu.Unlock()

	writeReply(w, status, "text/csv", body)
}

func (s *Server) handleJSONData(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.jsonHit++
	status, body := s.JSONStatus, s.JSONBody
	s.mu.Unlock()

	writeReply(w, status, "application/json", body)
}

func writeReply(w http.ResponseWriter, status int, contentType string, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	switch b := body.(type) {
	case nil:
	case []byte:
		w.Write(b)
	case string:
		io.WriteString(w, b)
	default:
		json.NewEncoder(w).Encode(b)
	}
}
