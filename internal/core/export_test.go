package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeClipboard struct {
	text   string
	writes int
	err    error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.writes++
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestExports(backend *fakeBackend, clip Clipboard) (*Session, *ExportController) {
	session := NewSession(NewNotificationCenter(time.Hour))
	exports := NewExportController(session, backend, clip)
	exports.now = func() time.Time {
		return time.Date(2025, 1, 15, 10, 30, 45, 0, time.UTC)
	}
	return session, exports
}

func TestCSVFileName(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2025, 1, 15, 10, 30, 45, 0, time.UTC), "calypso_measurements_2025-01-15T10-30-45.csv"},
		{time.Date(2024, 12, 31, 23, 59, 59, 999, time.UTC), "calypso_measurements_2024-12-31T23-59-59.csv"},
		{time.Date(2025, 1, 15, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)), "calypso_measurements_2025-01-15T17-00-00.csv"},
	}

	for _, tt := range tests {
		got := CSVFileName(tt.at)
		if got != tt.want {
			t.Errorf("CSVFileName(%v) = %q, want %q", tt.at, got, tt.want)
		}
		if strings.Contains(got, ":") {
			t.Errorf("file name %q contains a colon", got)
		}
	}
}

func TestExportCSV_Success(t *testing.T) {
	backend := &fakeBackend{csvData: []byte("Dimension,Part_001\nDIM1,1.25\n")}
	session, exports := newTestExports(backend, nil)
	session.replaceDataset(scenarioResponse().Preview)

	sink := &MemorySink{}
	name, err := exports.ExportCSV(context.Background(), true, sink)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	if name != "calypso_measurements_2025-01-15T10-30-45.csv" || sink.Name != name {
		t.Errorf("saved name = %q / %q", name, sink.Name)
	}
	if string(sink.Data) != "Dimension,Part_001\nDIM1,1.25\n" {
		t.Errorf("saved data = %q", sink.Data)
	}

	if len(backend.exports) != 1 {
		t.Fatalf("backend saw %d exports, want 1", len(backend.exports))
	}
	req := backend.exports[0]
	if !req.IncludeStats {
		t.Error("include_stats not forwarded")
	}
	if diff := cmp.Diff(scenarioResponse().Preview, req.Data); diff != "" {
		t.Errorf("exported dataset mismatch (-want +got):\n%s", diff)
	}

	note, _ := session.Notifications.Current()
	if note.Kind != KindSuccess || note.Message != "[SUCCESS] CSV file downloaded successfully!" {
		t.Errorf("notification = %+v", note)
	}
	if state := session.Download.State(); state.Disabled || state.Label != LabelDownload {
		t.Errorf("download control not restored: %+v", state)
	}
}

func TestExportCSV_EmptyDatasetStillSent(t *testing.T) {
	backend := &fakeBackend{csvData: []byte("")}
	_, exports := newTestExports(backend, nil)

	if _, err := exports.ExportCSV(context.Background(), false, &MemorySink{}); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if backend.exports[0].Data == nil {
		t.Error("empty dataset sent as null, want []")
	}
}

func TestExportCSV_Failure(t *testing.T) {
	backend := &fakeBackend{csvErr: &TransportError{Op: "export_csv", Status: 500}}
	session, exports := newTestExports(backend, nil)
	session.replaceDataset(scenarioResponse().Preview)

	sink := &MemorySink{}
	_, err := exports.ExportCSV(context.Background(), false, sink)

	var ef *ExportFailure
	if !errors.As(err, &ef) {
		t.Fatalf("error = %v, want ExportFailure", err)
	}
	if sink.Name != "" || sink.Data != nil {
		t.Error("sink written despite failure")
	}

	note, _ := session.Notifications.Current()
	if note.Kind != KindError || note.Message != "[ERROR] Error downloading file: Download failed" {
		t.Errorf("notification = %+v", note)
	}
	if state := session.Download.State(); state.Disabled || state.Label != LabelDownload {
		t.Errorf("download control not restored: %+v", state)
	}
	if len(session.Dataset()) != 2 {
		t.Error("dataset changed by failed export")
	}
}

func TestExportCSV_InFlight(t *testing.T) {
	session, exports := newTestExports(&fakeBackend{}, nil)
	session.Download.TryBegin()
	defer session.Download.End()

	if _, err := exports.ExportCSV(context.Background(), false, &MemorySink{}); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("error = %v, want ErrOperationInFlight", err)
	}
	if note, ok := session.Notifications.Current(); !ok || note.Kind != KindError || note.Message != busyMessage {
		t.Errorf("notification = %+v, want busy message", note)
	}
}

func TestCopyAsJSON_InFlight(t *testing.T) {
	backend := &fakeBackend{jsonData: []byte(`{}`)}
	clip := &fakeClipboard{}
	session, exports := newTestExports(backend, clip)
	session.Copy.TryBegin()
	defer session.Copy.End()

	if err := exports.CopyAsJSON(context.Background()); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("error = %v, want ErrOperationInFlight", err)
	}
	if clip.writes != 0 {
		t.Errorf("clipboard writes = %d, want 0", clip.writes)
	}
	if note, ok := session.Notifications.Current(); !ok || note.Message != busyMessage {
		t.Errorf("notification = %+v, want busy message", note)
	}
}

func TestCopyAsJSON_Success(t *testing.T) {
	backend := &fakeBackend{jsonData: []byte(`[{"tag":"1","values":["1.25"]}]`)}
	clip := &fakeClipboard{}
	session, exports := newTestExports(backend, clip)

	if err := exports.CopyAsJSON(context.Background()); err != nil {
		t.Fatalf("CopyAsJSON() error = %v", err)
	}

	want := "[\n  {\n    \"tag\": \"1\",\n    \"values\": [\n      \"1.25\"\n    ]\n  }\n]"
	if clip.text != want {
		t.Errorf("clipboard = %q, want %q", clip.text, want)
	}

	note, _ := session.Notifications.Current()
	if note.Kind != KindSuccess || note.Message != "[SUCCESS] JSON copied to clipboard!" {
		t.Errorf("notification = %+v", note)
	}
}

func TestCopyAsJSON_Failures(t *testing.T) {
	tests := []struct {
		name        string
		backend     *fakeBackend
		clipErr     error
		wantErr     func(error) bool
		wantMessage string
		wantWrites  int
	}{
		{
			name:        "no data",
			backend:     &fakeBackend{jsonErr: &TransportError{Op: "json_data", Status: 404}},
			wantErr:     func(err error) bool { return errors.Is(err, ErrNoDataAvailable) },
			wantMessage: "[ERROR] No JSON data available to copy",
		},
		{
			name:        "network",
			backend:     &fakeBackend{jsonErr: &NetworkError{Op: "json_data", Err: errors.New("connection refused")}},
			wantErr:     func(err error) bool { var ne *NetworkError; return errors.As(err, &ne) },
			wantMessage: "[ERROR] connection refused",
		},
		{
			name:    "invalid json",
			backend: &fakeBackend{jsonData: []byte("{nope")},
			wantErr: func(err error) bool { var ne *NetworkError; return errors.As(err, &ne) },
		},
		{
			name:        "clipboard denied",
			backend:     &fakeBackend{jsonData: []byte(`{}`)},
			clipErr:     errors.New("access denied"),
			wantErr:     func(err error) bool { var cf *ClipboardFailure; return errors.As(err, &cf) },
			wantMessage: "[ERROR] Failed to copy JSON: access denied",
			wantWrites:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := &fakeClipboard{err: tt.clipErr}
			session, exports := newTestExports(tt.backend, clip)

			err := exports.CopyAsJSON(context.Background())
			if !tt.wantErr(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if clip.writes != tt.wantWrites {
				t.Errorf("clipboard writes = %d, want %d", clip.writes, tt.wantWrites)
			}

			note, ok := session.Notifications.Current()
			if !ok || note.Kind != KindError {
				t.Fatalf("notification = %+v", note)
			}
			if tt.wantMessage != "" && note.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", note.Message, tt.wantMessage)
			}
			if state := session.Copy.State(); state.Disabled || state.Label != LabelCopy {
				t.Errorf("copy control not restored: %+v", state)
			}
		})
	}
}

func TestIndentJSON(t *testing.T) {
	got, err := IndentJSON([]byte(" {\"b\":1,\"a\":[true,null]}\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}"
	if got != want {
		t.Errorf("IndentJSON = %q, want %q", got, want)
	}

	if _, err := IndentJSON([]byte("")); err == nil {
		t.Error("empty input accepted")
	}
}

func TestDirSink_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	sink := DirSink{Dir: dir}

	if err := sink.Save("out.csv", []byte("a,b\n")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("file content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file leaked?)", len(entries))
	}
}
