package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeBackend records calls and replays canned replies.
type fakeBackend struct {
	mu sync.Mutex

	uploadResp *UploadResponse
	uploadErr  error
	uploads    []FileBatch
	// block, when set, holds Upload until closed
	block chan struct{}

	csvData []byte
	csvErr  error
	exports []ExportRequest

	jsonData  []byte
	jsonErr   error
	jsonCalls int
}

func (f *fakeBackend) Upload(ctx context.Context, batch FileBatch) (*UploadResponse, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, batch)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.uploadResp, f.uploadErr
}

func (f *fakeBackend) DownloadCSV(ctx context.Context, req ExportRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports = append(f.exports, req)
	return f.csvData, f.csvErr
}

func (f *fakeBackend) JSONData(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsonCalls++
	return f.jsonData, f.jsonErr
}

func memPDF(name string) FileHandle {
	return NewMemoryFile(name, "application/pdf", time.Time{}, []byte("%PDF-1.4"))
}

func twoFileBatch() FileBatch {
	return FileBatch{Files: []FileHandle{memPDF("a.pdf"), memPDF("b.pdf")}}
}

func scenarioResponse() *UploadResponse {
	return &UploadResponse{
		Success:           true,
		ProcessedFiles:    []string{"a.pdf", "b.pdf"},
		TotalMeasurements: 40,
		TotalParts:        2,
		Columns:           []string{"Part_Number", "Source_File", "DIM1", "Has_OOT_Values"},
		Preview: []Row{
			{"Part_Number": "Part_001", "Source_File": "a.pdf", "DIM1": json.Number("1.25"), "Has_OOT_Values": false},
			{"Part_Number": "Part_002", "Source_File": "b.pdf", "DIM1": json.Number("9.5"), "Has_OOT_Values": true},
		},
		OOTFilesCount: 1,
		OOTFilesList:  []string{"b.pdf"},
	}
}

func newTestSession(backend Backend) (*Session, *UploadSession) {
	session := NewSession(NewNotificationCenter(time.Hour))
	return session, NewUploadSession(session, backend)
}

func TestUpload_SuccessScenario(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse()}
	session, uploads := newTestSession(backend)

	result, err := uploads.Upload(context.Background(), twoFileBatch())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !result.OK() {
		t.Fatal("expected success result")
	}

	note, ok := session.Notifications.Current()
	if !ok {
		t.Fatal("no notification shown")
	}
	if note.Kind != KindSuccess {
		t.Errorf("notification kind = %q, want success", note.Kind)
	}
	for _, want := range []string{"a.pdf", "b.pdf", "40 measurements", "[WARNING] 1 file(s) contain OOT values", "b.pdf"} {
		if !strings.Contains(note.Message, want) {
			t.Errorf("success message missing %q:\n%s", want, note.Message)
		}
	}

	table, ok := session.Preview()
	if !ok {
		t.Fatal("preview not visible")
	}
	if table.OOTRowCount() < 1 {
		t.Error("expected at least one OOT-highlighted row")
	}

	if diff := cmp.Diff(scenarioResponse().Preview, session.Dataset()); diff != "" {
		t.Errorf("held dataset mismatch (-want +got):\n%s", diff)
	}

	if state := session.Upload.State(); state.Disabled || state.Label != LabelProcess {
		t.Errorf("upload control not restored: %+v", state)
	}
}

func TestUpload_NoOOTNote(t *testing.T) {
	resp := scenarioResponse()
	resp.OOTFilesCount = 0
	resp.OOTFilesList = nil

	session, uploads := newTestSession(&fakeBackend{uploadResp: resp})
	if _, err := uploads.Upload(context.Background(), twoFileBatch()); err != nil {
		t.Fatal(err)
	}

	note, _ := session.Notifications.Current()
	if !strings.Contains(note.Message, "[INFO] No OOT values detected in any files") {
		t.Errorf("message = %q, want explicit no-OOT note", note.Message)
	}
}

func TestUpload_ReplacesDatasetWholesale(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse()}
	session, uploads := newTestSession(backend)

	if _, err := uploads.Upload(context.Background(), twoFileBatch()); err != nil {
		t.Fatal(err)
	}

	second := scenarioResponse()
	second.Preview = []Row{{"Part_Number": "Part_009", "DIM1": json.Number("3")}}
	backend.uploadResp = second

	if _, err := uploads.Upload(context.Background(), twoFileBatch()); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(second.Preview, session.Dataset()); diff != "" {
		t.Errorf("dataset not replaced (-want +got):\n%s", diff)
	}

	// Mutating the response afterwards must not leak into held state
	second.Preview[0]["DIM1"] = json.Number("999")
	if got := session.Dataset()[0]["DIM1"]; got != json.Number("3") {
		t.Errorf("held dataset aliased response: DIM1 = %v", got)
	}
}

func TestUpload_TransportErrorLeavesDataset(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse()}
	session, uploads := newTestSession(backend)

	if _, err := uploads.Upload(context.Background(), twoFileBatch()); err != nil {
		t.Fatal(err)
	}
	before := session.Dataset()

	backend.uploadResp = nil
	backend.uploadErr = &TransportError{Op: "upload", Status: 500}

	_, err := uploads.Upload(context.Background(), twoFileBatch())
	if !IsTransportStatus(err, 500) {
		t.Fatalf("error = %v, want TransportError 500", err)
	}

	note, _ := session.Notifications.Current()
	if note.Kind != KindError || !strings.Contains(note.Message, "HTTP error! status: 500") {
		t.Errorf("notification = %+v, want transport error message", note)
	}
	if diff := cmp.Diff(before, session.Dataset()); diff != "" {
		t.Errorf("dataset changed after transport error (-want +got):\n%s", diff)
	}
	if _, visible := session.Preview(); visible {
		t.Error("preview should stay hidden after a failed upload")
	}
	if state := session.Upload.State(); state.Disabled {
		t.Error("upload control left disabled")
	}
}

func TestUpload_ApplicationError(t *testing.T) {
	backend := &fakeBackend{uploadResp: &UploadResponse{
		Success: false,
		Error:   "No measurement data extracted from any files",
		Details: []string{"a.pdf: No measurement data found", "b.pdf: Not a PDF file"},
	}}
	session, uploads := newTestSession(backend)

	result, err := uploads.Upload(context.Background(), twoFileBatch())

	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want ApplicationError", err)
	}
	if result.OK() || result.Failure == nil {
		t.Error("expected failure result")
	}

	note, _ := session.Notifications.Current()
	want := "[ERROR] No measurement data extracted from any files\nDetails: a.pdf: No measurement data found\nb.pdf: Not a PDF file"
	if note.Message != want {
		t.Errorf("message = %q, want %q", note.Message, want)
	}
	if session.HasDataset() {
		t.Error("dataset set after application error")
	}
}

func TestUpload_NetworkError(t *testing.T) {
	backend := &fakeBackend{uploadErr: &NetworkError{Op: "upload", Err: errors.New("connection reset by peer")}}
	session, uploads := newTestSession(backend)

	_, err := uploads.Upload(context.Background(), twoFileBatch())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want NetworkError", err)
	}

	note, _ := session.Notifications.Current()
	if note.Message != "[ERROR] Error uploading files: connection reset by peer" {
		t.Errorf("message = %q", note.Message)
	}
	if state := session.Upload.State(); state.Disabled || state.Label != LabelProcess {
		t.Errorf("upload control not restored: %+v", state)
	}
}

func TestUpload_PartialFailureIsSecondNotification(t *testing.T) {
	resp := scenarioResponse()
	resp.Errors = []string{"c.pdf: No measurement data found"}

	session, uploads := newTestSession(&fakeBackend{uploadResp: resp})
	result, err := uploads.Upload(context.Background(), twoFileBatch())
	if err != nil {
		t.Fatalf("partial failure must not fail the upload: %v", err)
	}
	if p := result.Success.Partial(); p == nil || len(p.Issues) != 1 {
		t.Errorf("Partial() = %+v, want one issue", p)
	}

	history := session.Notifications.History()
	if len(history) != 2 {
		t.Fatalf("got %d notifications, want 2", len(history))
	}
	if history[0].Kind != KindSuccess {
		t.Errorf("first notification kind = %q, want success", history[0].Kind)
	}
	if !strings.HasPrefix(history[1].Message, "[WARNING] Some files had issues:") ||
		!strings.Contains(history[1].Message, "c.pdf") {
		t.Errorf("second notification = %q", history[1].Message)
	}
	if !session.HasDataset() {
		t.Error("dataset not stored on partial success")
	}
}

func TestUpload_EmptyBatchNoRequest(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse()}
	session, uploads := newTestSession(backend)

	_, err := uploads.Upload(context.Background(), FileBatch{})
	if !errors.Is(err, ErrNoValidFiles) {
		t.Errorf("error = %v, want ErrNoValidFiles", err)
	}
	if len(backend.uploads) != 0 {
		t.Error("request issued for empty batch")
	}
	if note, _ := session.Notifications.Current(); note.Kind != KindError {
		t.Error("expected error notification")
	}
}

func TestUpload_BusyStateAndSingleFlight(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse(), block: make(chan struct{})}
	session, uploads := newTestSession(backend)

	// Seed a visible preview and a message so busy entry can be observed
	session.showPreview(PreviewTable{})
	session.Notifications.ShowSuccess("old")

	done := make(chan error, 1)
	go func() {
		_, err := uploads.Upload(context.Background(), twoFileBatch())
		done <- err
	}()

	deadline := time.After(time.Second)
	for !session.View().Loading {
		select {
		case <-deadline:
			t.Fatal("upload never entered busy state")
		case <-time.After(5 * time.Millisecond):
		}
	}

	view := session.View()
	if !view.Controls.Upload.Disabled || view.Controls.Upload.Label != LabelProcessing {
		t.Errorf("busy control = %+v", view.Controls.Upload)
	}
	if view.Preview != nil {
		t.Error("preview visible while busy")
	}
	if !view.Loading {
		t.Error("loading indicator off while busy")
	}

	if _, err := uploads.Upload(context.Background(), twoFileBatch()); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("second upload error = %v, want ErrOperationInFlight", err)
	}
	if note, ok := session.Notifications.Current(); !ok || note.Message != busyMessage {
		t.Errorf("notification = %+v, want busy message", note)
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Fatalf("first upload error = %v", err)
	}

	if len(backend.uploads) != 1 {
		t.Errorf("backend saw %d uploads, want 1", len(backend.uploads))
	}
	if session.View().Loading {
		t.Error("loading indicator still on")
	}
}

func TestUploadResponse_ResultMergesIssues(t *testing.T) {
	resp := &UploadResponse{
		Success:  true,
		Errors:   []string{"x.pdf: bad"},
		Warnings: []string{"y.pdf: odd"},
	}
	got := resp.Result().Success.Warnings
	if diff := cmp.Diff([]string{"x.pdf: bad", "y.pdf: odd"}, got); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUploadResponse_KeepsNumbers(t *testing.T) {
	body := `{"success":true,"preview":[{"DIM1":0.1234567,"Has_OOT_Values":true,"Unit":null}],"OOT_files_count":1,"OOT_files_list":["a.pdf"]}`
	resp, err := DecodeUploadResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	row := resp.Preview[0]
	if row["DIM1"] != json.Number("0.1234567") {
		t.Errorf("DIM1 = %#v, want json.Number", row["DIM1"])
	}
	if !row.HasOOTValues() {
		t.Error("HasOOTValues() = false")
	}
	if resp.OOTFilesCount != 1 || resp.OOTFilesList[0] != "a.pdf" {
		t.Errorf("OOT fields = %d %v", resp.OOTFilesCount, resp.OOTFilesList)
	}
}
