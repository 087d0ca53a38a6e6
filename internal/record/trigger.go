package record

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/mikeyg42/camwatch/internal/camlog"
	"github.com/mikeyg42/camwatch/internal/capture"
	"github.com/mikeyg42/camwatch/internal/config"
)

// State of the trigger machine.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	}
	return "unknown"
}

// fileTimestampLayout matches the recording file naming scheme.
const fileTimestampLayout = "02.01.06 15.04.05"

// Trigger turns the noisy per-frame motion signal into bounded recording
// sessions. One motion event buys a flat recording window of the configured
// duration: the stop decision is anchored on the session start time and
// ignores whether motion persists. Motion during an active session updates
// LastMotionAt and never starts a second concurrent session.
type Trigger struct {
	factory    WriterFactory
	containers []Container
	outputDir  string
	fps        float64
	width      int
	height     int
	duration   time.Duration

	state      State
	active     *Session
	nextNumber int
	completed  int

	log camlog.Logger
}

// NewTrigger builds an idle trigger recording at the negotiated geometry.
func NewTrigger(factory WriterFactory, cfg *config.RecordConfig, profile capture.Profile, log camlog.Logger) (*Trigger, error) {
	if factory == nil {
		return nil, fmt.Errorf("writer factory cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = camlog.Nop()
	}

	return &Trigger{
		factory:    factory,
		containers: DefaultContainers(),
		outputDir:  cfg.OutputDir,
		fps:        cfg.Framerate,
		width:      profile.Width,
		height:     profile.Height,
		duration:   cfg.Duration,
		state:      StateIdle,
		nextNumber: 1,
		log:        log,
	}, nil
}

// Update advances the machine by one tick. The first motion tick while idle
// opens a session; further motion is absorbed into the active one. The session
// closes at the first tick where now - StartedAt >= the configured duration.
func (t *Trigger) Update(motionNow bool, now time.Time) error {
	switch t.state {
	case StateIdle:
		if !motionNow {
			return nil
		}
		return t.startSession(now)

	case StateRecording:
		if motionNow {
			t.active.LastMotionAt = now
		}
		if now.Sub(t.active.StartedAt) >= t.duration {
			t.closeSession()
		}
	}
	return nil
}

func (t *Trigger) startSession(now time.Time) error {
	base := filepath.Join(t.outputDir,
		fmt.Sprintf("%s - Recording %d", now.Format(fileTimestampLayout), t.nextNumber))

	writer, container, path, err := Negotiate(t.factory, base, t.fps, t.width, t.height, t.containers, t.log)
	if err != nil {
		return fmt.Errorf("starting session %d: %w", t.nextNumber, err)
	}

	t.active = &Session{
		ID:           uuid.New(),
		Number:       t.nextNumber,
		Path:         path,
		StartedAt:    now,
		LastMotionAt: now,
		writer:       writer,
	}
	t.state = StateRecording
	t.log.Infow("recording started",
		"session", t.active.Number,
		"id", t.active.ID.String(),
		"container", container.Name,
		"path", path)
	return nil
}

// closeSession releases the sink exactly once and verifies it reports closed.
// A sink that still reports open is an anomaly worth a warning, not a failure.
func (t *Trigger) closeSession() {
	s := t.active
	if err := s.writer.Close(); err != nil {
		t.log.Warnw("closing recording sink", "session", s.Number, "error", err)
	}
	if s.writer.IsOpened() {
		t.log.Warnw("recording sink still reports open after release",
			"session", s.Number, "path", s.Path)
	}
	t.log.Infow("recording completed",
		"session", s.Number,
		"path", s.Path,
		"lastMotion", s.LastMotionAt)

	t.active = nil
	t.state = StateIdle
	t.completed++
	t.nextNumber++
}

// Write appends a frame to the active session sink. No-op while idle.
func (t *Trigger) Write(frame gocv.Mat) error {
	if t.state != StateRecording {
		return nil
	}
	if err := t.active.writer.Write(frame); err != nil {
		return fmt.Errorf("writing frame to %s: %w", t.active.Path, err)
	}
	return nil
}

// Shutdown releases any active sink. Must run on every exit path so an
// interrupted session still ends in a playable file.
func (t *Trigger) Shutdown() {
	if t.state == StateRecording {
		t.log.Infow("shutting down with active session", "session", t.active.Number)
		t.closeSession()
	}
}

// State returns the current machine state.
func (t *Trigger) State() State { return t.state }

// Active returns the in-flight session, nil while idle.
func (t *Trigger) Active() *Session { return t.active }

// Completed returns the count of sessions closed so far.
func (t *Trigger) Completed() int { return t.completed }

// Sessions returns the count of sessions started this run, for the overlay.
func (t *Trigger) Sessions() int {
	if t.state == StateRecording {
		return t.active.Number
	}
	return t.nextNumber - 1
}

// Elapsed reports time since the active session started, zero while idle.
func (t *Trigger) Elapsed(now time.Time) time.Duration {
	if t.state != StateRecording {
		return 0
	}
	return t.active.Elapsed(now)
}
