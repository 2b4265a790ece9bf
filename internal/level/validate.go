package level

import (
	"fmt"
	"strings"
)

// Validate checks the level invariants and returns a single error listing
// every violation, or nil when the level is playable.
func (l *Level) Validate() error {
	var errs []string

	if l.Start == l.End {
		errs = append(errs, "start and end coincide")
	}
	if l.Start.X < 0 || l.Start.Y < 0 {
		errs = append(errs, fmt.Sprintf("start %d,%d has negative coordinates", l.Start.X, l.Start.Y))
	}
	if l.End.X < 0 || l.End.Y < 0 {
		errs = append(errs, fmt.Sprintf("end %d,%d has negative coordinates", l.End.X, l.End.Y))
	}

	seenWalls := make(map[Wall]bool, len(l.Walls))
	for i, w := range l.Walls {
		if !w.Horizontal() && !w.Vertical() {
			errs = append(errs, fmt.Sprintf("walls[%d] %s is not axis-aligned", i, w))
			continue
		}
		if w.End.Y < w.Start.Y || (w.Start.Y == w.End.Y && w.End.X < w.Start.X) {
			errs = append(errs, fmt.Sprintf("walls[%d] %s has unordered endpoints", i, w))
		}
		if w.Start.X < 0 || w.Start.Y < 0 {
			errs = append(errs, fmt.Sprintf("walls[%d] %s has negative coordinates", i, w))
		}
		if seenWalls[w] {
			errs = append(errs, fmt.Sprintf("walls[%d] %s is a duplicate", i, w))
		}
		seenWalls[w] = true
	}

	if l.WallAt(l.Start) {
		errs = append(errs, fmt.Sprintf("start %d,%d lies on a wall", l.Start.X, l.Start.Y))
	}
	if l.WallAt(l.End) {
		errs = append(errs, fmt.Sprintf("end %d,%d lies on a wall", l.End.X, l.End.Y))
	}

	seenCheckpoints := make(map[Point]bool, len(l.Checkpoints))
	for i, c := range l.Checkpoints {
		if c.X < 0 || c.Y < 0 {
			errs = append(errs, fmt.Sprintf("checkpoints[%d] %d,%d has negative coordinates", i, c.X, c.Y))
		}
		if l.WallAt(c) {
			errs = append(errs, fmt.Sprintf("checkpoints[%d] %d,%d lies on a wall", i, c.X, c.Y))
		}
		if seenCheckpoints[c] {
			errs = append(errs, fmt.Sprintf("checkpoints[%d] %d,%d is a duplicate", i, c.X, c.Y))
		}
		seenCheckpoints[c] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("level: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
