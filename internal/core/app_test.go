package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestApp(backend *fakeBackend, clip Clipboard) *App {
	return NewApp(AppConfig{
		Backend:    backend,
		Clipboard:  clip,
		NotifyUnit: time.Hour,
	})
}

func TestApp_FullFlow(t *testing.T) {
	backend := &fakeBackend{
		uploadResp: scenarioResponse(),
		csvData:    []byte("Dimension,Part_001\n"),
		jsonData:   []byte(`{"ok":true}`),
	}
	clip := &fakeClipboard{}
	app := newTestApp(backend, clip)
	ctx := context.Background()

	files := []FileHandle{memPDF("a.pdf"), NewMemoryFile("x.txt", "text/plain", time.Time{}, nil), memPDF("b.pdf")}
	if err := app.Handle(ctx, DropFiles{Files: files}); err != nil {
		t.Fatalf("DropFiles: %v", err)
	}
	if len(backend.uploads) != 0 {
		t.Fatal("selection triggered a network request")
	}

	if err := app.Handle(ctx, ClickUpload{}); err != nil {
		t.Fatalf("ClickUpload: %v", err)
	}
	if got := backend.uploads[0].Names(); len(got) != 2 || got[0] != "a.pdf" || got[1] != "b.pdf" {
		t.Errorf("uploaded batch = %v", got)
	}

	sink := &MemorySink{}
	if err := app.Handle(ctx, ClickDownload{IncludeStats: true, Sink: sink}); err != nil {
		t.Fatalf("ClickDownload: %v", err)
	}
	if sink.Name == "" || len(backend.exports[0].Data) != 2 {
		t.Errorf("download not saved or dataset not sent: %+v", backend.exports)
	}

	if err := app.Handle(ctx, ClickCopy{}); err != nil {
		t.Fatalf("ClickCopy: %v", err)
	}
	if clip.text != "{\n  \"ok\": true\n}" {
		t.Errorf("clipboard = %q", clip.text)
	}

	// re-clicking upload re-sends the same bound batch
	if err := app.Handle(ctx, ClickUpload{}); err != nil {
		t.Fatal(err)
	}
	if len(backend.uploads) != 2 {
		t.Errorf("uploads = %d, want 2", len(backend.uploads))
	}
}

func TestApp_ClickUploadWithoutBatch(t *testing.T) {
	backend := &fakeBackend{uploadResp: scenarioResponse()}
	app := newTestApp(backend, nil)

	err := app.Handle(context.Background(), ClickUpload{})
	if !errors.Is(err, ErrNoBatch) {
		t.Fatalf("error = %v, want ErrNoBatch", err)
	}
	if len(backend.uploads) != 0 {
		t.Error("request sent without a batch")
	}
	if note, ok := app.Session.Notifications.Current(); !ok || note.Kind != KindError {
		t.Errorf("notification = %+v", note)
	}
}

func TestApp_PickFilesRejected(t *testing.T) {
	app := newTestApp(&fakeBackend{}, nil)

	err := app.Handle(context.Background(), PickFiles{Files: []FileHandle{
		NewMemoryFile("notes.txt", "text/plain", time.Time{}, nil),
	}})
	if !errors.Is(err, ErrNoValidFiles) {
		t.Fatalf("error = %v, want ErrNoValidFiles", err)
	}
}

func TestApp_DownloadDefaultsToMemorySink(t *testing.T) {
	backend := &fakeBackend{csvData: []byte("x")}
	app := newTestApp(backend, nil)

	if err := app.Handle(context.Background(), ClickDownload{}); err != nil {
		t.Fatalf("ClickDownload: %v", err)
	}
	if len(backend.exports) != 1 {
		t.Errorf("exports = %d, want 1", len(backend.exports))
	}
}
