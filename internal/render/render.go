// Package render draws levels back into maze images, the inverse of scan.
// It exists for previews and for round-trip checks of stored levels.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/vdbe/maze-lvl-maker/internal/level"
	"github.com/vdbe/maze-lvl-maker/internal/scan"
)

// Image draws the level onto a white canvas sized to its bounds, one tile
// per scale×scale pixel block. A scale below 1 is treated as 1.
func Image(lvl *level.Level, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	w, h := lvl.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(scan.Empty.Color()), image.Point{}, draw.Src)

	setTile := func(p level.Point, t scan.Tile) {
		block := image.Rect(p.X*scale, p.Y*scale, (p.X+1)*scale, (p.Y+1)*scale)
		draw.Draw(img, block, image.NewUniform(t.Color()), image.Point{}, draw.Src)
	}

	for _, wall := range lvl.Walls {
		if wall.Vertical() {
			for y := wall.Start.Y; y <= wall.End.Y; y++ {
				setTile(level.Point{X: wall.Start.X, Y: y}, scan.Wall)
			}
		} else {
			for x := wall.Start.X; x <= wall.End.X; x++ {
				setTile(level.Point{X: x, Y: wall.Start.Y}, scan.Wall)
			}
		}
	}
	for _, c := range lvl.Checkpoints {
		setTile(c, scan.Checkpoint)
	}
	setTile(lvl.Start, scan.Start)
	setTile(lvl.End, scan.End)

	return img
}

// PNG renders the level and encodes it as PNG.
func PNG(w io.Writer, lvl *level.Level, scale int) error {
	if err := png.Encode(w, Image(lvl, scale)); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
