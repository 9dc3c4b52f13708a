package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		mediaType string
		want      bool
	}{
		{"declared pdf", "scan", "application/pdf", true},
		{"declared x-pdf", "scan.bin", "application/x-pdf", true},
		{"declared with params", "scan", "application/pdf; charset=binary", true},
		{"suffix lower", "report.pdf", "", true},
		{"suffix upper", "REPORT.PDF", "application/octet-stream", true},
		{"suffix mixed", "Report.Pdf", "", true},
		{"text file", "notes.txt", "text/plain", false},
		{"pdf in middle", "report.pdf.zip", "application/zip", false},
		{"no extension", "report", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMemoryFile(tt.file, tt.mediaType, time.Time{}, nil)
			if got := IsPDF(f); got != tt.want {
				t.Errorf("IsPDF(%q, %q) = %v, want %v", tt.file, tt.mediaType, got, tt.want)
			}
		})
	}
}

func TestSelect_FiltersNonPDF(t *testing.T) {
	session := NewSession(NewNotificationCenter(time.Hour))
	sel := NewSelector(session, 0)

	files := []FileHandle{
		NewMemoryFile("a.pdf", "", time.Time{}, []byte("1")),
		NewMemoryFile("notes.txt", "text/plain", time.Time{}, []byte("2")),
		NewMemoryFile("scan", "application/pdf", time.Time{}, []byte("3")),
		NewMemoryFile("", "application/pdf", time.Time{}, []byte("4")),
		nil,
		NewMemoryFile("image.png", "image/png", time.Time{}, []byte("5")),
	}

	batch, err := sel.Select(files, SourceDrop)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if diff := cmp.Diff([]string{"a.pdf", "scan"}, batch.Names()); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}

	pending, ok := session.PendingBatch()
	if !ok || pending.Len() != 2 {
		t.Errorf("pending batch = %v, %v", pending.Names(), ok)
	}
}

func TestSelect_NoValidFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []FileHandle
	}{
		{"empty", nil},
		{"all non-pdf", []FileHandle{
			NewMemoryFile("a.txt", "text/plain", time.Time{}, nil),
			NewMemoryFile("b.docx", "", time.Time{}, nil),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession(NewNotificationCenter(time.Hour))
			sel := NewSelector(session, 0)

			_, err := sel.Select(tt.files, SourcePicker)
			if !errors.Is(err, ErrNoValidFiles) {
				t.Fatalf("error = %v, want ErrNoValidFiles", err)
			}

			note, ok := session.Notifications.Current()
			if !ok || note.Kind != KindError || note.Message != "Please select PDF files only." {
				t.Errorf("notification = %+v", note)
			}
			if _, ok := session.PendingBatch(); ok {
				t.Error("batch bound despite rejection")
			}
		})
	}
}

func TestSelect_PublishesListing(t *testing.T) {
	session := NewSession(NewNotificationCenter(time.Hour))
	sel := NewSelector(session, 0)

	mod := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	_, err := sel.Select([]FileHandle{
		NewMemoryFile("a.pdf", "application/pdf", mod, make([]byte, 1536)),
	}, SourcePicker)
	if err != nil {
		t.Fatal(err)
	}

	want := []FileListing{{Name: "a.pdf", Size: "1.5 KB", Modified: "1/15/2025", Status: "Ready"}}
	if diff := cmp.Diff(want, session.Listing()); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_BatchTooLarge(t *testing.T) {
	session := NewSession(NewNotificationCenter(time.Hour))
	sel := NewSelector(session, 1024)

	_, err := sel.Select([]FileHandle{
		NewMemoryFile("a.pdf", "", time.Time{}, make([]byte, 800)),
		NewMemoryFile("b.pdf", "", time.Time{}, make([]byte, 800)),
	}, SourceDrop)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("error = %v, want ErrBatchTooLarge", err)
	}
	if _, ok := session.PendingBatch(); ok {
		t.Error("oversized batch was bound")
	}
}

func TestOpenDiskFile(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "report.bin")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.7\n%fake body"), 0o644); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenDiskFile(pdfPath)
	if err != nil {
		t.Fatalf("OpenDiskFile() error = %v", err)
	}
	if f.MediaType() != "application/pdf" {
		t.Errorf("sniffed media type = %q, want application/pdf", f.MediaType())
	}
	if !IsPDF(f) {
		t.Error("PDF content with .bin name should be accepted by declared type")
	}
	if f.Name() != "report.bin" || f.Size() != 19 {
		t.Errorf("name/size = %q/%d", f.Name(), f.Size())
	}

	txt, err := OpenDiskFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if IsPDF(txt) {
		t.Error("text file accepted as PDF")
	}

	if _, err := OpenDiskFile(dir); err == nil {
		t.Error("directory accepted as file")
	}
	if _, err := OpenDiskFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("missing file accepted")
	}
}
