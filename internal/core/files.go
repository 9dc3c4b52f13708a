package core

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// pdfMediaTypes are the declared content types accepted as PDF.
var pdfMediaTypes = map[string]bool{
	"application/pdf":   true,
	"application/x-pdf": true,
}

// IsPDF reports whether a file is a PDF by declared media type or by a
// case-insensitive ".pdf" suffix.
func IsPDF(f FileHandle) bool {
	if mt, _, err := mime.ParseMediaType(f.MediaType()); err == nil && pdfMediaTypes[mt] {
		return true
	}
	return strings.HasSuffix(strings.ToLower(f.Name()), ".pdf")
}

// DiskFile is a file picked from the local filesystem.
type DiskFile struct {
	path      string
	size      int64
	modTime   time.Time
	mediaType string
}

// OpenDiskFile stats path and sniffs its declared media type from the first
// 512 bytes, falling back to the extension.
func OpenDiskFile(path string) (*DiskFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mediaType, err := sniffMediaType(path)
	if err != nil {
		return nil, err
	}

	return &DiskFile{
		path:      path,
		size:      info.Size(),
		modTime:   info.ModTime(),
		mediaType: mediaType,
	}, nil
}

func sniffMediaType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if n > 0 {
		if detected := http.DetectContentType(head[:n]); detected != "application/octet-stream" {
			return detected, nil
		}
	}
	return mime.TypeByExtension(filepath.Ext(path)), nil
}

func (f *DiskFile) Name() string       { return filepath.Base(f.path) }
func (f *DiskFile) Size() int64        { return f.size }
func (f *DiskFile) ModTime() time.Time { return f.modTime }
func (f *DiskFile) MediaType() string  { return f.mediaType }
func (f *DiskFile) Path() string       { return f.path }

func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemoryFile is a file received from the browser page.
type MemoryFile struct {
	name      string
	data      []byte
	modTime   time.Time
	mediaType string
}

// NewMemoryFile wraps dropped file content. data is retained, not copied.
func NewMemoryFile(name, mediaType string, modTime time.Time, data []byte) *MemoryFile {
	return &MemoryFile{
		name:      name,
		data:      data,
		modTime:   modTime,
		mediaType: mediaType,
	}
}

func (f *MemoryFile) Name() string       { return f.name }
func (f *MemoryFile) Size() int64        { return int64(len(f.data)) }
func (f *MemoryFile) ModTime() time.Time { return f.modTime }
func (f *MemoryFile) MediaType() string  { return f.mediaType }

func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
