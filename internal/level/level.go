// Package level defines the level model produced from maze images: wall
// segments, a start tile, an end tile, and checkpoints, together with the
// JSON wire format consumed by the game.
package level

import "fmt"

// Point is a tile position in image coordinates, origin top-left.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Wall is an axis-aligned segment of wall tiles with inclusive endpoints.
// A single tile wall has Start == End.
type Wall struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Level is a complete playable level.
type Level struct {
	Walls       []Wall  `json:"walls"`
	Start       Point   `json:"start"`
	End         Point   `json:"end"`
	Checkpoints []Point `json:"checkpoints"`
}

// Horizontal reports whether the wall runs along a row. A single-tile
// wall is both horizontal and vertical.
func (w Wall) Horizontal() bool { return w.Start.Y == w.End.Y }

// Vertical reports whether the wall runs along a column.
func (w Wall) Vertical() bool { return w.Start.X == w.End.X }

// Len returns the number of tiles the wall covers.
func (w Wall) Len() int {
	if w.Vertical() {
		return w.End.Y - w.Start.Y + 1
	}
	return w.End.X - w.Start.X + 1
}

// Contains reports whether p lies on the wall segment.
func (w Wall) Contains(p Point) bool {
	if w.Vertical() && p.X == w.Start.X {
		return p.Y >= w.Start.Y && p.Y <= w.End.Y
	}
	if w.Horizontal() && p.Y == w.Start.Y {
		return p.X >= w.Start.X && p.X <= w.End.X
	}
	return false
}

func (w Wall) String() string {
	return fmt.Sprintf("%d,%d-%d,%d", w.Start.X, w.Start.Y, w.End.X, w.End.Y)
}

// Bounds returns the smallest width and height covering every feature of
// the level. An empty level has zero bounds.
func (l *Level) Bounds() (width, height int) {
	grow := func(p Point) {
		if p.X+1 > width {
			width = p.X + 1
		}
		if p.Y+1 > height {
			height = p.Y + 1
		}
	}
	for _, w := range l.Walls {
		grow(w.Start)
		grow(w.End)
	}
	grow(l.Start)
	grow(l.End)
	for _, c := range l.Checkpoints {
		grow(c)
	}
	return width, height
}

// WallAt reports whether any wall covers p.
func (l *Level) WallAt(p Point) bool {
	for _, w := range l.Walls {
		if w.Contains(p) {
			return true
		}
	}
	return false
}

// Summary returns a one-line description for command output.
func (l *Level) Summary() string {
	w, h := l.Bounds()
	return fmt.Sprintf("%dx%d, %d walls, %d checkpoints", w, h, len(l.Walls), len(l.Checkpoints))
}
