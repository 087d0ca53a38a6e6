package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one bounded recording interval, owned exclusively by the Trigger
// while active. Its sink is non-nil exactly while the trigger is recording.
type Session struct {
	ID     uuid.UUID
	Number int
	Path   string

	StartedAt time.Time
	// LastMotionAt tracks the most recent motion inside the session. It is
	// session metadata only; the stop decision never reads it.
	LastMotionAt time.Time

	writer FrameWriter
}

// Elapsed reports how long the session has been running at now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// FormatElapsed renders a session duration as MM:SS for the overlay audit line.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
