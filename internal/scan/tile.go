package scan

import (
	"errors"
	"image/color"
)

// Tile is the kind of maze square a pixel encodes.
type Tile uint8

const (
	Empty Tile = iota
	Wall
	Checkpoint
	Start
	End
)

// ErrUnknownColor is returned by Classify for colors outside the palette.
var ErrUnknownColor = errors.New("unknown tile color")

func (t Tile) String() string {
	switch t {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Checkpoint:
		return "checkpoint"
	case Start:
		return "start"
	case End:
		return "end"
	}
	return "invalid"
}

// Color returns the canonical pixel encoding of a tile.
func (t Tile) Color() color.RGBA {
	switch t {
	case Wall:
		return color.RGBA{0, 0, 0, 255}
	case Checkpoint:
		return color.RGBA{0, 0, 255, 255}
	case Start:
		return color.RGBA{0, 255, 0, 255}
	case End:
		return color.RGBA{255, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

// Classify maps a pixel color to its tile. Alpha is ignored. Colors
// outside the palette return ErrUnknownColor.
func Classify(c color.Color) (Tile, error) {
	r, g, b, _ := c.RGBA()
	switch [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)} {
	case [3]uint8{0, 0, 0}:
		return Wall, nil
	case [3]uint8{255, 0, 0}:
		return End, nil
	case [3]uint8{0, 255, 0}:
		return Start, nil
	case [3]uint8{0, 0, 255}:
		return Checkpoint, nil
	case [3]uint8{255, 255, 255}:
		return Empty, nil
	}
	return Empty, ErrUnknownColor
}
