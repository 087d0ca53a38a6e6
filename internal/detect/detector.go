package detect

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/mikeyg42/camwatch/internal/camlog"
	"github.com/mikeyg42/camwatch/internal/config"
)

// Detector handles motion detection using KNN background subtraction.
type Detector struct {
	knn        gocv.BackgroundSubtractorKNN
	threshold  float64
	blurKernel int
	mask       gocv.Mat
	log        camlog.Logger
}

// Tick is the per-frame detection result. Contours are owned by the tick;
// call Close once downstream consumers are done with it.
type Tick struct {
	Contours  gocv.PointsVector
	MotionNow bool
	MaxArea   float64
}

// Close releases the tick's contour storage.
func (t *Tick) Close() {
	t.Contours.Close()
}

// NewDetector builds a detector whose motion decision uses the given
// resolution-adjusted area threshold.
func NewDetector(cfg *config.MotionConfig, threshold float64, log camlog.Logger) (*Detector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = camlog.Nop()
	}

	knn := gocv.NewBackgroundSubtractorKNNWithParams(cfg.History, cfg.Dist2Threshold, cfg.DetectShadows)

	return &Detector{
		knn:        knn,
		threshold:  threshold,
		blurKernel: cfg.BlurKernel,
		mask:       gocv.NewMat(),
		log:        log,
	}, nil
}

// Threshold returns the resolution-adjusted area threshold in use.
func (d *Detector) Threshold() float64 { return d.threshold }

// Process runs one frame through subtraction, denoising and contour
// extraction. MotionNow is true iff any contour area exceeds the threshold.
func (d *Detector) Process(frame gocv.Mat) *Tick {
	d.knn.Apply(frame, &d.mask)
	gocv.MedianBlur(d.mask, &d.mask, d.blurKernel)

	contours := gocv.FindContours(d.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)

	tick := &Tick{Contours: contours}
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > tick.MaxArea {
			tick.MaxArea = area
		}
		if area > d.threshold {
			tick.MotionNow = true
		}
	}
	return tick
}

// Close releases the background model and scratch buffers.
func (d *Detector) Close() error {
	d.mask.Close()
	return d.knn.Close()
}
