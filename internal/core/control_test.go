package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestControl_BeginEnd(t *testing.T) {
	c := NewControl("upload", LabelProcess, LabelProcessing)

	if got := c.State(); got.Disabled || got.Label != LabelProcess {
		t.Fatalf("initial state = %+v, want enabled %q", got, LabelProcess)
	}

	if !c.TryBegin() {
		t.Fatal("first TryBegin should succeed")
	}

	state := c.State()
	if !state.Disabled {
		t.Error("control should be disabled while busy")
	}
	if state.Label != LabelProcessing {
		t.Errorf("busy label = %q, want %q", state.Label, LabelProcessing)
	}
	if !c.Busy() {
		t.Error("Busy() = false while operation running")
	}

	c.End()

	state = c.State()
	if state.Disabled || state.Label != LabelProcess {
		t.Errorf("after End state = %+v, want enabled %q", state, LabelProcess)
	}
}

func TestControl_RejectsSecondTrigger(t *testing.T) {
	c := NewControl("download", LabelDownload, LabelGenerating)

	if !c.TryBegin() {
		t.Fatal("first TryBegin should succeed")
	}

	// Second trigger must fail immediately, not block
	start := time.Now()
	if c.TryBegin() {
		t.Error("second TryBegin should fail")
		c.End()
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("TryBegin blocked for %v", elapsed)
	}

	c.End()

	if !c.TryBegin() {
		t.Error("TryBegin after End should succeed")
	}
	c.End()
}

func TestControl_ConcurrentTriggers(t *testing.T) {
	c := NewControl("copy", LabelCopy, LabelCopying)

	var (
		wg      sync.WaitGroup
		running atomic.Int32
		maxSeen atomic.Int32
		started atomic.Int32
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.TryBegin() {
				return
			}
			defer c.End()
			started.Add(1)

			n := running.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() > 1 {
		t.Errorf("observed %d concurrent operations, want at most 1", maxSeen.Load())
	}
	if started.Load() == 0 {
		t.Error("no trigger succeeded")
	}
	if c.Busy() {
		t.Error("control still busy after all operations ended")
	}
}

func TestControl_WaitForIdle(t *testing.T) {
	c := NewControl("upload", LabelProcess, LabelProcessing)
	c.TryBegin()

	done := make(chan error, 1)
	go func() {
		done <- c.WaitForIdle(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("WaitForIdle returned while busy")
	case <-time.After(80 * time.Millisecond):
	}

	c.End()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForIdle error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForIdle did not return after End")
	}
}

func TestControl_WaitForIdle_ContextCancelled(t *testing.T) {
	c := NewControl("upload", LabelProcess, LabelProcessing)
	c.TryBegin()
	defer c.End()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.WaitForIdle(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForIdle did not return after cancellation")
	}
}
