package record

import "gocv.io/x/gocv"

// FrameWriter is the sink half of the recording pipeline. *gocv.VideoWriter
// satisfies it; tests substitute fakes.
type FrameWriter interface {
	Write(frame gocv.Mat) error
	IsOpened() bool
	Close() error
}

// WriterFactory opens frame writers for a codec and geometry.
type WriterFactory interface {
	Open(path, fourcc string, fps float64, width, height int) (FrameWriter, error)
}

// GocvFactory opens gocv video writers on the local filesystem.
type GocvFactory struct{}

func (GocvFactory) Open(path, fourcc string, fps float64, width, height int) (FrameWriter, error) {
	w, err := gocv.VideoWriterFile(path, fourcc, fps, width, height, true)
	if err != nil {
		return nil, err
	}
	return w, nil
}
