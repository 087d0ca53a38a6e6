package capture

import "gocv.io/x/gocv"

// candidateResolutions is ordered from highest to lowest quality.
var candidateResolutions = []Profile{
	{Width: 1920, Height: 1080}, // Full HD
	{Width: 1280, Height: 720},  // HD
	{Width: 640, Height: 480},   // VGA
	{Width: 320, Height: 240},   // QVGA
}

// NegotiateResolution walks the candidate ladder, requesting each resolution
// on the device and reading back the active one. The first candidate the
// device honors exactly wins; probing stops there. When the ladder is
// exhausted it returns a zero Profile and ErrUnsupportedResolution, which
// callers must treat as "no resolution guarantee", not as fatal.
func NegotiateResolution(dev Device) (Profile, error) {
	for _, want := range candidateResolutions {
		dev.Set(gocv.VideoCaptureFrameWidth, float64(want.Width))
		dev.Set(gocv.VideoCaptureFrameHeight, float64(want.Height))

		got := Profile{
			Width:  int(dev.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(dev.Get(gocv.VideoCaptureFrameHeight)),
		}
		if got == want {
			return want, nil
		}
	}
	return Profile{}, ErrUnsupportedResolution
}
