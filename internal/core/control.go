package core

// control.go models the triggers (buttons) that start an operation.
//
// Each control owns a single-slot semaphore: starting an operation takes the
// slot, disables the control and swaps in its busy label; finishing releases
// the slot and restores the resting label. A trigger that fires while the slot
// is taken is rejected instead of queued, so at most one operation per control
// is ever in flight.

import (
	"context"
	"sync"
	"time"
)

// Resting and busy labels for the three triggers.
const (
	LabelProcess    = "Process Files"
	LabelProcessing = "Processing..."
	LabelDownload   = "Download CSV"
	LabelGenerating = "Generating..."
	LabelCopy       = "Copy JSON to Clipboard"
	LabelCopying    = "Copying..."
)

// Control is a trigger that can run one operation at a time.
type Control struct {
	name      string
	restLabel string
	busyLabel string
	slot      chan struct{}

	mu       sync.RWMutex
	disabled bool
	label    string
}

// busyMessage is shown when a trigger fires while its operation is running.
const busyMessage = "[ERROR] Please wait for the current operation to finish."

// ControlState is a snapshot of a control for rendering.
type ControlState struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// NewControl creates an enabled control showing restLabel.
func NewControl(name, restLabel, busyLabel string) *Control {
	return &Control{
		name:      name,
		restLabel: restLabel,
		busyLabel: busyLabel,
		slot:      make(chan struct{}, 1),
		label:     restLabel,
	}
}

// TryBegin takes the control's slot without blocking. It returns false when
// an operation is already running. A successful TryBegin MUST be paired with
// End (use defer).
func (c *Control) TryBegin() bool {
	select {
	case c.slot <- struct{}{}:
		c.mu.Lock()
		c.disabled = true
		c.label = c.busyLabel
		c.mu.Unlock()
		return true
	default:
		return false
	}
}

// End re-enables the control and restores its resting label.
func (c *Control) End() {
	c.mu.Lock()
	c.disabled = false
	c.label = c.restLabel
	c.mu.Unlock()

	<-c.slot
}

// Busy reports whether an operation is running.
func (c *Control) Busy() bool {
	return len(c.slot) > 0
}

// State returns the current label and enabled state.
func (c *Control) State() ControlState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ControlState{Name: c.name, Label: c.label, Disabled: c.disabled}
}

// WaitForIdle blocks until the control's operation finishes or ctx is done.
// Used on shutdown so in-flight requests are not cut off.
func (c *Control) WaitForIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !c.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
