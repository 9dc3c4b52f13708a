package core

import (
	"context"
	"fmt"
	"time"
)

// Gesture is one discrete user action. Each gesture is consumed by exactly
// one controller method.
type Gesture interface {
	gesture()
}

// DropFiles is a drag-and-drop of files onto the upload zone.
type DropFiles struct{ Files []FileHandle }

// PickFiles is a selection made with the native file picker.
type PickFiles struct{ Files []FileHandle }

// ClickUpload presses "Process Files" for the bound batch.
type ClickUpload struct{}

// ClickDownload presses "Download CSV".
type ClickDownload struct {
	IncludeStats bool
	Sink         DownloadSink
}

// ClickCopy presses "Copy JSON to Clipboard".
type ClickCopy struct{}

func (DropFiles) gesture()     {}
func (PickFiles) gesture()     {}
func (ClickUpload) gesture()   {}
func (ClickDownload) gesture() {}
func (ClickCopy) gesture()     {}

// AppConfig wires an App.
type AppConfig struct {
	Backend       Backend
	Clipboard     Clipboard
	MaxBatchBytes int64
	NotifyUnit    time.Duration
}

// App owns the session and routes gestures to the controllers.
type App struct {
	Session  *Session
	Selector *Selector
	Uploads  *UploadSession
	Exports  *ExportController
}

// NewApp builds the controllers around a fresh session.
func NewApp(cfg AppConfig) *App {
	session := NewSession(NewNotificationCenter(cfg.NotifyUnit))
	return &App{
		Session:  session,
		Selector: NewSelector(session, cfg.MaxBatchBytes),
		Uploads:  NewUploadSession(session, cfg.Backend),
		Exports:  NewExportController(session, cfg.Backend, cfg.Clipboard),
	}
}

// Handle dispatches g. Every failure has already been surfaced as a
// notification when Handle returns; the error is for callers that need to
// branch on the outcome.
func (a *App) Handle(ctx context.Context, g Gesture) error {
	switch g := g.(type) {
	case DropFiles:
		_, err := a.Selector.Select(g.Files, SourceDrop)
		return err
	case PickFiles:
		_, err := a.Selector.Select(g.Files, SourcePicker)
		return err
	case ClickUpload:
		batch, ok := a.Session.PendingBatch()
		if !ok {
			a.Session.Notifications.ShowError("[ERROR] No files selected.")
			return ErrNoBatch
		}
		_, err := a.Uploads.Upload(ctx, batch)
		return err
	case ClickDownload:
		sink := g.Sink
		if sink == nil {
			sink = &MemorySink{}
		}
		_, err := a.Exports.ExportCSV(ctx, g.IncludeStats, sink)
		return err
	case ClickCopy:
		return a.Exports.CopyAsJSON(ctx)
	default:
		return fmt.Errorf("unknown gesture %T", g)
	}
}
