package config

import "time"

// Config holds all application configuration
type Config struct {
	CaptureConfig CaptureConfig
	MotionConfig  MotionConfig
	RecordConfig  RecordConfig
}

// CaptureConfig controls device discovery.
type CaptureConfig struct {
	// DeviceProbeLimit is the highest device index probed during enumeration.
	DeviceProbeLimit int
}

// MotionConfig controls background subtraction and the motion decision.
type MotionConfig struct {
	// NominalSensitivity is the contour area (px^2) that counts as motion at
	// the 1280x720 baseline. It is rescaled to the negotiated resolution.
	NominalSensitivity float64
	History            int
	Dist2Threshold     float64
	DetectShadows      bool
	// BlurKernel is the median-blur kernel size used to denoise the mask.
	BlurKernel int
}

// RecordConfig controls the recording sessions written to disk.
type RecordConfig struct {
	// Duration is the flat recording window bought by one motion trigger.
	Duration  time.Duration
	OutputDir string
	Framerate float64
}

// NewDefaultConfig returns a Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		CaptureConfig: CaptureConfig{
			DeviceProbeLimit: 5,
		},
		MotionConfig: MotionConfig{
			NominalSensitivity: 700,
			History:            20,
			Dist2Threshold:     800.0,
			DetectShadows:      false,
			BlurKernel:         5,
		},
		RecordConfig: RecordConfig{
			Duration:  30 * time.Second,
			OutputDir: "recordings",
			Framerate: 20,
		},
	}
}
