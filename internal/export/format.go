package export

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Format is a target canvas shape for exported snapshots.
type Format int

const (
	Square Format = iota
	Instagram
	Landscape
	Custom
)

var formatNames = map[Format]string{
	Square:    "square",
	Instagram: "instagram",
	Landscape: "landscape",
	Custom:    "custom",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func Formats() []Format { return []Format{Square, Instagram, Landscape, Custom} }

func ParseFormat(s string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, s) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Dimensions is the pixel size of the format. Custom uses the given width
// and height; non-positive values fall back to the square size.
func (f Format) Dimensions(customW, customH int) (int, int) {
	switch f {
	case Instagram:
		return 1080, 1920
	case Landscape:
		return 1920, 1080
	case Custom:
		if customW > 0 && customH > 0 {
			return customW, customH
		}
	}
	return 1080, 1080
}
