package record

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

// fakeWriter stands in for a gocv video writer.
type fakeWriter struct {
	opened     bool
	closeCalls int
	writeCalls int
	closeErr   error
	// stuckOpen simulates a sink whose release does not result in a closed
	// handle.
	stuckOpen bool
}

func (w *fakeWriter) Write(gocv.Mat) error { w.writeCalls++; return nil }
func (w *fakeWriter) IsOpened() bool       { return w.opened }
func (w *fakeWriter) Close() error {
	w.closeCalls++
	if !w.stuckOpen {
		w.opened = false
	}
	return w.closeErr
}

// fakeFactory opens fakeWriters, failing per-extension on request.
type fakeFactory struct {
	openErr   map[string]bool // ext -> Open returns an error
	notOpened map[string]bool // ext -> writer reports not opened
	stuckOpen bool

	attempts []string
	writers  []*fakeWriter
}

func (f *fakeFactory) Open(path, fourcc string, fps float64, width, height int) (FrameWriter, error) {
	f.attempts = append(f.attempts, path)
	ext := filepath.Ext(path)
	if f.openErr[ext] {
		return nil, errors.New("codec unavailable")
	}
	w := &fakeWriter{opened: !f.notOpened[ext], stuckOpen: f.stuckOpen}
	f.writers = append(f.writers, w)
	return w, nil
}

func TestNegotiateFirstContainerWins(t *testing.T) {
	factory := &fakeFactory{}

	w, c, path, err := Negotiate(factory, "base", 20, 640, 480, DefaultContainers(), nil)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if c.Name != "MKV" || !strings.HasSuffix(path, ".mkv") {
		t.Errorf("got container %q path %q, want MKV/.mkv", c.Name, path)
	}
	if !w.IsOpened() {
		t.Error("returned writer is not open")
	}
	if len(factory.attempts) != 1 {
		t.Errorf("made %d open attempts, want 1", len(factory.attempts))
	}
}

func TestNegotiateFallsBackOnOpenError(t *testing.T) {
	factory := &fakeFactory{openErr: map[string]bool{".mkv": true}}

	_, c, path, err := Negotiate(factory, "base", 20, 640, 480, DefaultContainers(), nil)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if c.Name != "MP4" || !strings.HasSuffix(path, ".mp4") {
		t.Errorf("got container %q path %q, want MP4/.mp4", c.Name, path)
	}
	if len(factory.attempts) != 2 {
		t.Errorf("made %d open attempts, want 2", len(factory.attempts))
	}
}

func TestNegotiateClosesWriterThatDidNotOpen(t *testing.T) {
	factory := &fakeFactory{notOpened: map[string]bool{".mkv": true}}

	_, c, _, err := Negotiate(factory, "base", 20, 640, 480, DefaultContainers(), nil)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if c.Name != "MP4" {
		t.Errorf("got container %q, want MP4", c.Name)
	}
	if factory.writers[0].closeCalls != 1 {
		t.Errorf("unopened writer got %d Close calls, want 1", factory.writers[0].closeCalls)
	}
}

func TestNegotiateExhausted(t *testing.T) {
	factory := &fakeFactory{openErr: map[string]bool{".mkv": true, ".mp4": true}}

	_, _, _, err := Negotiate(factory, "base", 20, 640, 480, DefaultContainers(), nil)
	if !errors.Is(err, ErrOutputUnavailable) {
		t.Fatalf("expected ErrOutputUnavailable, got %v", err)
	}
	if len(factory.attempts) != 2 {
		t.Errorf("made %d open attempts, want 2", len(factory.attempts))
	}
}
