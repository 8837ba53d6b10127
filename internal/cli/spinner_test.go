package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner("Starring...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Starring...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Checking...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Checking...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerDrawsWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Listing stars")
	s.w = &buf
	s.enabled = true

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Listing stars") {
		t.Errorf("spinner output = %q", buf.String())
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	var buf bytes.Buffer
	old := out
	out = &buf
	t.Cleanup(func() { out = old })

	s := newSpinner("Working...")
	s.Start()
	s.StopWithSuccess("Done")

	s = newSpinner("Working...")
	s.Start()
	s.StopWithError("Failed")

	got := buf.String()
	if !strings.Contains(got, "Done") || !strings.Contains(got, "Failed") {
		t.Errorf("output = %q", got)
	}
}
