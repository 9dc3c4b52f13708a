// Package core provides the client-side pipeline for the Calypso measurement service.
//
// The package holds every piece of control flow between a user picking PDF
// files and the exported CSV or JSON, independent of any UI or transport. The
// web shell, the CLI and tests drive it the same way.
//
// # Architecture
//
//   - [Selector]: filters drag-drop or file-picker input down to a [FileBatch]
//     of PDFs and binds it to the upload trigger.
//   - [UploadSession]: one upload at a time; classifies the response and, on
//     success, renders the preview and replaces the held dataset.
//   - [PreviewRenderer]: pure projection of an [UploadSuccess] onto a
//     [PreviewTable] with OOT row highlighting.
//   - [ExportController]: CSV download and JSON clipboard copy, both reading
//     only the held dataset.
//   - [NotificationCenter]: the single visible status message, faded after a
//     delay.
//
// All of them share one [Session], passed in explicitly. The session owns the
// held dataset, which only UploadSession writes and only as a whole.
//
// # Gestures
//
// Frontends translate user actions into [Gesture] values and pass them to
// [App.Handle]:
//
//	app.Handle(ctx, core.PickFiles{Files: files})
//	app.Handle(ctx, core.ClickUpload{})
//	app.Handle(ctx, core.ClickDownload{IncludeStats: true, Sink: core.DirSink{Dir: "."}})
//
// # Error Handling
//
// Each failure is surfaced as exactly one notification at the boundary where
// it happens and returned as a typed error ([TransportError], [NetworkError],
// [ApplicationError], [ExportFailure], [ClipboardFailure]) or sentinel
// ([ErrNoValidFiles], [ErrNoDataAvailable]). [MapError] turns any of them into
// a [UserMessage] with a support code. Controls are restored on every path.
// A trigger pressed while its operation is still running is rejected with
// [ErrOperationInFlight] and a short "please wait" notification.
package core
