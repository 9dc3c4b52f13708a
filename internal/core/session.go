package core

import (
	"context"
	"sync"
)

// FileListing is one advisory entry shown after a selection.
type FileListing struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Modified string `json:"modified"`
	Status   string `json:"status"`
}

// Session is the explicitly owned application state shared by the
// controllers. The held dataset has a single writer (UploadSession) and is
// only ever replaced as a whole.
type Session struct {
	Upload        *Control
	Download      *Control
	Copy          *Control
	Notifications *NotificationCenter

	mu             sync.RWMutex
	dataset        []Row
	pending        *FileBatch
	listing        []FileListing
	preview        *PreviewTable
	previewVisible bool
	loading        bool
}

// NewSession creates empty state with the three triggers at rest.
func NewSession(notifications *NotificationCenter) *Session {
	if notifications == nil {
		notifications = NewNotificationCenter(DefaultNotifyUnit)
	}
	return &Session{
		Upload:        NewControl("upload", LabelProcess, LabelProcessing),
		Download:      NewControl("download", LabelDownload, LabelGenerating),
		Copy:          NewControl("copy", LabelCopy, LabelCopying),
		Notifications: notifications,
	}
}

// Dataset returns a copy of the held dataset.
func (s *Session) Dataset() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.dataset)
}

// HasDataset reports whether an upload has succeeded in this session.
func (s *Session) HasDataset() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// replaceDataset swaps in rows wholesale. Only UploadSession calls it.
func (s *Session) replaceDataset(rows []Row) {
	rows = cloneRows(rows)
	if rows == nil {
		rows = []Row{}
	}
	s.mu.Lock()
	s.dataset = rows
	s.mu.Unlock()
}

// PendingBatch returns the batch bound to the upload trigger.
func (s *Session) PendingBatch() (FileBatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return FileBatch{}, false
	}
	return *s.pending, true
}

func (s *Session) bindBatch(batch FileBatch, listing []FileListing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &batch
	s.listing = listing
}

// Listing returns the advisory listing of the last accepted selection.
func (s *Session) Listing() []FileListing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FileListing(nil), s.listing...)
}

func (s *Session) setBusy(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
	if loading {
		s.previewVisible = false
	}
}

func (s *Session) showPreview(table PreviewTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = &table
	s.previewVisible = true
}

// Preview returns the rendered preview when it is visible.
func (s *Session) Preview() (PreviewTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.preview == nil || !s.previewVisible {
		return PreviewTable{}, false
	}
	return *s.preview, true
}

// View is a consistent snapshot of everything a presenter needs to draw.
type View struct {
	Notification *Notification `json:"notification,omitempty"`
	Listing      []FileListing `json:"listing"`
	Loading      bool          `json:"loading"`
	Preview      *PreviewTable `json:"preview,omitempty"`
	Controls     struct {
		Upload   ControlState `json:"upload"`
		Download ControlState `json:"download"`
		Copy     ControlState `json:"copy"`
	} `json:"controls"`
	HasBatch    bool `json:"has_batch"`
	DatasetRows int  `json:"dataset_rows"`
}

// View returns a snapshot of the session for rendering.
func (s *Session) View() View {
	var v View
	if note, ok := s.Notifications.Current(); ok {
		v.Notification = &note
	}
	v.Controls.Upload = s.Upload.State()
	v.Controls.Download = s.Download.State()
	v.Controls.Copy = s.Copy.State()

	s.mu.RLock()
	defer s.mu.RUnlock()
	v.Listing = append([]FileListing(nil), s.listing...)
	v.Loading = s.loading
	if s.preview != nil && s.previewVisible {
		p := *s.preview
		v.Preview = &p
	}
	v.HasBatch = s.pending != nil
	v.DatasetRows = len(s.dataset)
	return v
}

// WaitForIdle blocks until no trigger has an operation in flight.
func (s *Session) WaitForIdle(ctx context.Context) error {
	for _, c := range []*Control{s.Upload, s.Download, s.Copy} {
		if err := c.WaitForIdle(ctx); err != nil {
			return err
		}
	}
	return nil
}
