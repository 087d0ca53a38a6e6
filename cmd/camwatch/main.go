package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/mikeyg42/camwatch/internal/camlog"
	"github.com/mikeyg42/camwatch/internal/capture"
	"github.com/mikeyg42/camwatch/internal/config"
	"github.com/mikeyg42/camwatch/internal/detect"
	"github.com/mikeyg42/camwatch/internal/overlay"
	"github.com/mikeyg42/camwatch/internal/record"
)

const windowTitle = "camwatch (press q to exit)"

// Application struct that holds all components
type Application struct {
	config    *config.Config
	logger    *zap.SugaredLogger
	camera    *gocv.VideoCapture
	profile   capture.Profile
	detector  *detect.Detector
	trigger   *record.Trigger
	annotator *overlay.Annotator
	window    *gocv.Window
}

func main() {
	cfg := config.NewDefaultConfig()

	debug := flag.Bool("debug", false, "enable debug logging")
	device := flag.Int("device", -1, "capture device index (-1 to auto-detect)")
	flag.StringVar(&cfg.RecordConfig.OutputDir, "output", cfg.RecordConfig.OutputDir, "directory for recorded sessions")
	flag.DurationVar(&cfg.RecordConfig.Duration, "duration", cfg.RecordConfig.Duration, "recording window per motion trigger")
	flag.Float64Var(&cfg.MotionConfig.NominalSensitivity, "sensitivity", cfg.MotionConfig.NominalSensitivity, "motion area threshold at the 1280x720 baseline")
	flag.Parse()

	logger, err := camlog.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *device, logger); err != nil {
		logger.Fatalw("camwatch terminated", "error", err)
	}
}

func run(cfg *config.Config, device int, logger *zap.SugaredLogger) error {
	app, err := NewApplication(cfg, device, logger)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	return app.Run()
}

func NewApplication(cfg *config.Config, device int, logger *zap.SugaredLogger) (*Application, error) {
	deviceID := device
	if deviceID < 0 {
		devices := capture.ListDevices(cfg.CaptureConfig.DeviceProbeLimit, logger)
		selector := capture.AutoSelector{Next: capture.PromptSelector{In: os.Stdin, Out: os.Stdout}}
		id, err := selector.Select(devices)
		if err != nil {
			return nil, fmt.Errorf("selecting capture device: %w", err)
		}
		deviceID = id
	}

	camera, err := capture.Open(deviceID, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{config: cfg, logger: logger, camera: camera}

	profile, err := capture.NegotiateResolution(camera)
	switch {
	case errors.Is(err, capture.ErrUnsupportedResolution):
		logger.Warnw("no supported resolution found, proceeding without a resolution guarantee",
			"device", deviceID)
	case err != nil:
		app.Cleanup()
		return nil, err
	default:
		logger.Infow("negotiated resolution", "device", deviceID, "profile", profile.String())
	}
	app.profile = profile

	if err := os.MkdirAll(cfg.RecordConfig.OutputDir, 0o755); err != nil {
		app.Cleanup()
		return nil, fmt.Errorf("creating output directory %s: %w", cfg.RecordConfig.OutputDir, err)
	}

	threshold := detect.ScaleSensitivity(cfg.MotionConfig.NominalSensitivity, profile)
	if threshold == 0 {
		logger.Warnw("sensitivity threshold is zero, any contour will trigger recording")
	} else {
		logger.Infow("resolution-adjusted sensitivity", "threshold", threshold)
	}

	detector, err := detect.NewDetector(&cfg.MotionConfig, threshold, logger)
	if err != nil {
		app.Cleanup()
		return nil, fmt.Errorf("creating motion detector: %w", err)
	}
	app.detector = detector

	trigger, err := record.NewTrigger(record.GocvFactory{}, &cfg.RecordConfig, profile, logger)
	if err != nil {
		app.Cleanup()
		return nil, fmt.Errorf("creating recording trigger: %w", err)
	}
	app.trigger = trigger

	app.annotator = overlay.NewAnnotator(profile.Width)
	app.window = gocv.NewWindow(windowTitle)
	return app, nil
}

// Cleanup releases every resource the run holds. The trigger goes first so an
// interrupted session still ends in a playable file.
func (app *Application) Cleanup() {
	if app.trigger != nil {
		app.trigger.Shutdown()
	}
	if app.detector != nil {
		app.detector.Close()
	}
	if app.camera != nil {
		app.camera.Close()
	}
	if app.window != nil {
		app.window.Close()
	}
}

// Run is the single-threaded frame loop: read, detect, update the trigger,
// annotate, write, show, poll keys. Frames are processed and written in
// strict arrival order.
func (app *Application) Run() error {
	frame := gocv.NewMat()
	defer frame.Close()

	for {
		if ok := app.camera.Read(&frame); !ok {
			app.logger.Infow("capture stream ended")
			return nil
		}
		if frame.Empty() {
			continue
		}

		now := time.Now()
		tick := app.detector.Process(frame)

		if err := app.trigger.Update(tick.MotionNow, now); err != nil {
			tick.Close()
			return err
		}

		display, archive := app.annotator.Annotate(frame, tick.Contours,
			tick.MotionNow,
			record.FormatElapsed(app.trigger.Elapsed(now)),
			app.trigger.Sessions())

		if err := app.trigger.Write(archive); err != nil {
			app.logger.Errorw("failed to write frame", "error", err)
		}
		app.window.IMShow(display)

		display.Close()
		archive.Close()
		tick.Close()

		if key := app.window.WaitKey(1); key == 'q' || key == 27 {
			app.logger.Infow("quit requested")
			return nil
		}
	}
}
