// Package scan extracts level definitions from maze images. Pixel colors
// map to tiles (black wall, green start, red end, blue checkpoint, white
// empty) and adjacent wall pixels coalesce into maximal horizontal and
// vertical segments.
package scan

import (
	"context"
	"fmt"
	"image"
	"os"

	// Register the decoders accepted for maze images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/vdbe/maze-lvl-maker/internal/level"
	ilog "github.com/vdbe/maze-lvl-maker/internal/log"
)

// Image extracts a level from a decoded maze image.
//
// Wall pixels become segments: a horizontal run of two or more pixels is
// emitted once, anchored at its leftmost pixel; a vertical run of two or
// more at its topmost; a wall pixel with no wall neighbors becomes a
// single-tile segment. Every wall pixel is covered by at least one segment
// and no segment is emitted twice. Segment order is deterministic
// (row-major by anchor, horizontal before vertical).
//
// The last green and red pixels in row-major order win as start and end;
// a maze without them leaves the zero value, which level.Validate flags.
func Image(ctx context.Context, img image.Image) (*level.Level, error) {
	log := ilog.FromContext(ctx)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	log.Info("scanning maze", "width", w, "height", h)

	grid := make([][]Tile, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]Tile, w)
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			t, err := Classify(c)
			if err != nil {
				r, g, bl, _ := c.RGBA()
				return nil, fmt.Errorf("scan: pixel %d,%d: %w: rgb(%d,%d,%d)",
					x, y, err, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
			grid[y][x] = t
		}
	}

	wallAt := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && grid[y][x] == Wall
	}

	lvl := &level.Level{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch grid[y][x] {
			case Start:
				lvl.Start = level.Point{X: x, Y: y}
			case End:
				lvl.End = level.Point{X: x, Y: y}
			case Checkpoint:
				lvl.Checkpoints = append(lvl.Checkpoints, level.Point{X: x, Y: y})
			case Wall:
				if !wallAt(x-1, y) {
					end := x
					for wallAt(end+1, y) {
						end++
					}
					if end > x {
						seg := level.Wall{Start: level.Point{X: x, Y: y}, End: level.Point{X: end, Y: y}}
						lvl.Walls = append(lvl.Walls, seg)
						log.Debug("wall run", "segment", seg.String())
					}
				}
				if !wallAt(x, y-1) {
					end := y
					for wallAt(x, end+1) {
						end++
					}
					if end > y {
						seg := level.Wall{Start: level.Point{X: x, Y: y}, End: level.Point{X: x, Y: end}}
						lvl.Walls = append(lvl.Walls, seg)
						log.Debug("wall run", "segment", seg.String())
					}
				}
				if !wallAt(x-1, y) && !wallAt(x+1, y) && !wallAt(x, y-1) && !wallAt(x, y+1) {
					seg := level.Wall{Start: level.Point{X: x, Y: y}, End: level.Point{X: x, Y: y}}
					lvl.Walls = append(lvl.Walls, seg)
					log.Debug("wall tile", "segment", seg.String())
				}
			}
		}
	}

	log.Info("scan complete", "walls", len(lvl.Walls), "checkpoints", len(lvl.Checkpoints))
	return lvl, nil
}

// File decodes the image at path and extracts its level.
func File(ctx context.Context, path string) (*level.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scan: open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scan: decode %s: %w", path, err)
	}
	ilog.FromContext(ctx).Debug("decoded maze image", "path", path, "format", format)

	return Image(ctx, img)
}
