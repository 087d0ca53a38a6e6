package capture

import (
	"fmt"
	"io"
)

// Selector chooses among the detected capture devices.
type Selector interface {
	Select(candidates []Info) (int, error)
}

// AutoSelector picks the device automatically when exactly one is present and
// delegates to Next otherwise. With no Next it falls back to the first device.
type AutoSelector struct {
	Next Selector
}

func (s AutoSelector) Select(candidates []Info) (int, error) {
	switch len(candidates) {
	case 0:
		return 0, fmt.Errorf("%w: no cameras found", ErrDeviceUnavailable)
	case 1:
		return candidates[0].ID, nil
	}
	if s.Next == nil {
		return candidates[0].ID, nil
	}
	return s.Next.Select(candidates)
}

// PromptSelector asks the user to pick a camera on the terminal.
type PromptSelector struct {
	In  io.Reader
	Out io.Writer
}

func (s PromptSelector) Select(candidates []Info) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: no cameras found", ErrDeviceUnavailable)
	}

	fmt.Fprintln(s.Out, "Available cameras:")
	for i, c := range candidates {
		fmt.Fprintf(s.Out, "%d: %s\n", i, c.Label)
	}
	fmt.Fprint(s.Out, "Select a camera (0 for the first camera): ")

	var choice int
	if _, err := fmt.Fscan(s.In, &choice); err != nil {
		return 0, fmt.Errorf("reading camera selection: %w", err)
	}
	if choice < 0 || choice >= len(candidates) {
		return 0, fmt.Errorf("invalid camera selection %d", choice)
	}
	return candidates[choice].ID, nil
}
