package detect

import "github.com/mikeyg42/camwatch/internal/capture"

// The nominal sensitivity is tuned at 720p; thresholds scale linearly with
// pixel area from there.
const (
	baselineWidth  = 1280
	baselineHeight = 720
)

// ScaleSensitivity adapts a nominal contour-area threshold to the negotiated
// resolution. Pure and deterministic. A zero-area profile yields a zero
// threshold, which degenerates detection to "any contour triggers"; callers
// must surface that to the user instead of using it silently.
func ScaleSensitivity(nominal float64, p capture.Profile) float64 {
	return nominal * float64(p.Area()) / float64(baselineWidth*baselineHeight)
}
