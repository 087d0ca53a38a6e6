package overlay

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"
)

const stampLayout = "02.01.2006 15:04:05"

var (
	white       = color.RGBA{R: 255, G: 255, B: 255}
	statusAlert = color.RGBA{R: 255}
	statusCalm  = color.RGBA{G: 255}
	highlight   = color.RGBA{R: 50, G: 255}
)

// Annotator produces the two frame variants of each tick: a display frame
// with a translucent highlight over motion regions, and a clean archive frame
// for the recording sink. Both carry identical overlay text.
type Annotator struct {
	width          int
	highlightAlpha float64
	clock          func() time.Time
}

// NewAnnotator builds an annotator laying text out for the given frame width.
func NewAnnotator(width int) *Annotator {
	return &Annotator{
		width:          width,
		highlightAlpha: 0.25,
		clock:          time.Now,
	}
}

// Annotate returns the display and archive variants for one tick. The caller
// owns both returned Mats and must close them after the sink write and the
// window show.
func (a *Annotator) Annotate(frame gocv.Mat, contours gocv.PointsVector, motionNow bool, elapsed string, sessions int) (display, archive gocv.Mat) {
	display = frame.Clone()
	archive = frame.Clone()

	a.drawText(&display, motionNow, elapsed, sessions)
	a.drawText(&archive, motionNow, elapsed, sessions)

	if contours.Size() > 0 {
		a.drawHighlight(&display, contours)
	}
	return display, archive
}

func (a *Annotator) drawText(frame *gocv.Mat, motionNow bool, elapsed string, sessions int) {
	stamp := a.clock().Format(stampLayout)
	size := gocv.GetTextSize(stamp, gocv.FontHersheySimplex, 0.5, 1)
	gocv.PutText(frame, stamp,
		image.Pt(a.width-size.X-10, 30),
		gocv.FontHersheySimplex, 0.5, white, 1)

	status, statusColor := "No motion detected", statusCalm
	if motionNow {
		status, statusColor = "Motion detected", statusAlert
	}
	gocv.PutText(frame, status, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, statusColor, 2)

	gocv.PutText(frame, "Duration: "+elapsed,
		image.Pt(10, 60), gocv.FontHersheySimplex, 0.6, white, 2)
	gocv.PutText(frame, fmt.Sprintf("Total recordings: %d", sessions),
		image.Pt(10, 90), gocv.FontHersheySimplex, 0.6, white, 2)
}

// drawHighlight composites a filled-contour layer over the frame. Text is
// already on the frame, so it survives the blend on both layers.
func (a *Annotator) drawHighlight(frame *gocv.Mat, contours gocv.PointsVector) {
	layer := frame.Clone()
	defer layer.Close()

	gocv.DrawContours(&layer, contours, -1, highlight, -1)
	gocv.AddWeighted(layer, a.highlightAlpha, *frame, 1-a.highlightAlpha, 0, frame)
}
