package record

import (
	"errors"

	"github.com/mikeyg42/camwatch/internal/camlog"
)

// ErrOutputUnavailable means no container/codec pair produced an open writer.
// There is nowhere to record to, so callers must treat this as fatal.
var ErrOutputUnavailable = errors.New("record: no container/codec pair produced an open writer")

// Container pairs a container format with the codec used to write it.
type Container struct {
	Name   string
	FourCC string
	Ext    string
}

// DefaultContainers returns the preferred container formats in fallback order.
func DefaultContainers() []Container {
	return []Container{
		{Name: "MKV", FourCC: "X264", Ext: ".mkv"},
		{Name: "MP4", FourCC: "mp4v", Ext: ".mp4"},
	}
}

// Negotiate tries each container strictly in order and stops at the first
// writer that reports itself open. Later entries are never attempted once an
// earlier one succeeds. Returns the open writer, the container that produced
// it, and the final file path.
func Negotiate(factory WriterFactory, base string, fps float64, width, height int, containers []Container, log camlog.Logger) (FrameWriter, Container, string, error) {
	if log == nil {
		log = camlog.Nop()
	}

	for _, c := range containers {
		path := base + c.Ext
		w, err := factory.Open(path, c.FourCC, fps, width, height)
		if err != nil {
			log.Warnw("writer open failed", "container", c.Name, "codec", c.FourCC, "error", err)
			continue
		}
		if !w.IsOpened() {
			w.Close()
			log.Warnw("writer did not open", "container", c.Name, "codec", c.FourCC, "path", path)
			continue
		}
		log.Infow("writer opened", "container", c.Name, "path", path)
		return w, c, path, nil
	}
	return nil, Container{}, "", ErrOutputUnavailable
}
