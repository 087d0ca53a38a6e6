package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gocv.io/x/gocv"

	"github.com/mikeyg42/camwatch/internal/camlog"
)

var (
	// ErrDeviceUnavailable means no capture device could be opened. Fatal.
	ErrDeviceUnavailable = errors.New("capture: device unavailable")

	// ErrUnsupportedResolution means no candidate resolution matched.
	// Recoverable: callers proceed with a zero Profile and degraded behavior.
	ErrUnsupportedResolution = errors.New("capture: no supported resolution")
)

// Profile is the negotiated capture geometry, immutable once negotiated.
// A zero Profile means the device gave no resolution guarantee.
type Profile struct {
	Width  int
	Height int
}

func (p Profile) Area() int      { return p.Width * p.Height }
func (p Profile) IsZero() bool   { return p.Width == 0 || p.Height == 0 }
func (p Profile) String() string { return fmt.Sprintf("%dx%d", p.Width, p.Height) }

// Device abstracts the gocv capture handle so resolution negotiation can be
// driven against a fake. *gocv.VideoCapture satisfies it.
type Device interface {
	Set(prop gocv.VideoCaptureProperties, value float64)
	Get(prop gocv.VideoCaptureProperties) float64
	Read(dst *gocv.Mat) bool
	IsOpened() bool
	Close() error
}

// openTimeout bounds the retry loop in Open. V4L2 devices coming back from
// another process holding them usually free up well within this.
const openTimeout = 5 * time.Second

// Open opens the capture device, retrying transient failures with exponential
// backoff before declaring the device unavailable. On success it requests the
// MJPG pixel format; a device that refuses stays on its default with a warning.
func Open(deviceID int, log camlog.Logger) (*gocv.VideoCapture, error) {
	if log == nil {
		log = camlog.Nop()
	}

	var cam *gocv.VideoCapture
	open := func() error {
		c, err := gocv.VideoCaptureDevice(deviceID)
		if err != nil {
			return err
		}
		if !c.IsOpened() {
			c.Close()
			return fmt.Errorf("device %d reports closed after open", deviceID)
		}
		cam = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = openTimeout
	if err := backoff.Retry(open, bo); err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrDeviceUnavailable, deviceID, err)
	}

	requestMJPG(cam, log)
	return cam, nil
}

func requestMJPG(dev Device, log camlog.Logger) {
	want := fourcc('M', 'J', 'P', 'G')
	dev.Set(gocv.VideoCaptureFOURCC, want)
	if dev.Get(gocv.VideoCaptureFOURCC) != want {
		log.Warnw("MJPG pixel format not honored, using device default")
	}
}

func fourcc(a, b, c, d byte) float64 {
	return float64(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Info describes one openable capture device.
type Info struct {
	ID    int
	Label string
}

// ListDevices probes device indices 0..limit-1 and returns the ones that open.
// Probe failures are expected on unused indices and only logged at debug.
func ListDevices(limit int, log camlog.Logger) []Info {
	if log == nil {
		log = camlog.Nop()
	}

	var found []Info
	for id := 0; id < limit; id++ {
		cam, err := gocv.VideoCaptureDevice(id)
		if err != nil {
			log.Debugw("device probe failed", "device", id, "error", err)
			continue
		}
		if !cam.IsOpened() {
			cam.Close()
			continue
		}
		found = append(found, Info{ID: id, Label: fmt.Sprintf("Camera %d", id)})
		cam.Close()
	}
	return found
}
