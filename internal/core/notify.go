package core

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind distinguishes error from success messages.
type NotificationKind string

const (
	KindError   NotificationKind = "error"
	KindSuccess NotificationKind = "success"
)

// Fade delays, in notification time units.
const (
	errorFadeUnits   = 5
	successFadeUnits = 10
	maxHistory       = 50
)

// DefaultNotifyUnit is the length of one notification time unit.
const DefaultNotifyUnit = time.Second

// Notification is one user-facing status message.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	// Faded is set once the fade delay elapses; the message stays visible
	// with reduced emphasis until replaced.
	Faded     bool             `json:"faded"`
}

// NotificationCenter holds the single visible notification. Each Show call
// replaces it.
type NotificationCenter struct {
	unit time.Duration

	mu          sync.Mutex
	current     *Notification
	timer       *time.Timer
	history     []Notification
	subscribers []func(Notification)
}

// NewNotificationCenter creates a center whose fade delays are measured in
// multiples of unit. A non-positive unit uses DefaultNotifyUnit.
func NewNotificationCenter(unit time.Duration) *NotificationCenter {
	if unit <= 0 {
		unit = DefaultNotifyUnit
	}
	return &NotificationCenter{unit: unit}
}

// ShowError replaces the current notification with an error message.
func (n *NotificationCenter) ShowError(message string) {
	n.show(KindError, message, errorFadeUnits*n.unit)
}

// ShowSuccess replaces the current notification with a success message.
func (n *NotificationCenter) ShowSuccess(message string) {
	n.show(KindSuccess, message, successFadeUnits*n.unit)
}

// Subscribe registers fn to observe every notification as it is shown.
// fn runs synchronously and must not call back into the center.
func (n *NotificationCenter) Subscribe(fn func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

func (n *NotificationCenter) show(kind NotificationKind, message string, fadeAfter time.Duration) {
	note := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &note
	n.timer = time.AfterFunc(fadeAfter, func() { n.fade(note.ID) })

	n.history = append(n.history, note)
	if len(n.history) > maxHistory {
		n.history = n.history[len(n.history)-maxHistory:]
	}
	subs := slices.Clone(n.subscribers)
	n.mu.Unlock()

	slog.Debug("notification shown", "kind", kind, "id", note.ID)

	for _, fn := range subs {
		fn(note)
	}
}

// fade marks the notification with id as faded if it is still current.
func (n *NotificationCenter) fade(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current.Faded = true
	}
}

// Current returns the visible notification, if any.
func (n *NotificationCenter) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// History returns recent notifications, oldest first, including ones that
// were replaced before anyone saw them.
func (n *NotificationCenter) History() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.history...)
}

// Clear removes the visible notification.
func (n *NotificationCenter) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}
