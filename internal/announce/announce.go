// Package announce delivers new-level notifications to chat platforms.
package announce

import (
	"context"
	"fmt"
	"strings"
)

// Event describes a freshly stored level.
type Event struct {
	LevelID     string
	Name        string
	Width       int
	Height      int
	Walls       int
	Checkpoints int
	Source      string
}

// Title returns the notification headline.
func (e Event) Title() string {
	return fmt.Sprintf("New level: %s", e.Name)
}

// Body returns the notification body text.
func (e Event) Body() string {
	return fmt.Sprintf("%dx%d maze with %d walls and %d checkpoints", e.Width, e.Height, e.Walls, e.Checkpoints)
}

// Announcer delivers level notifications to one platform.
type Announcer interface {
	Announce(ctx context.Context, ev Event) error
	Name() string
}

// Multi fans an event out to every configured announcer. A failure on one
// platform does not stop delivery to the others.
type Multi []Announcer

// Announce delivers the event to each announcer in turn and reports all
// failures together.
func (m Multi) Announce(ctx context.Context, ev Event) error {
	var failures []string
	for _, a := range m {
		if err := a.Announce(ctx, ev); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", a.Name(), err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("announce: %s", strings.Join(failures, "; "))
	}
	return nil
}

// Name identifies the fan-out announcer.
func (m Multi) Name() string { return "multi" }
