package shell

import "time"

const (
	gestureTaps   = 3
	gestureWindow = 700 * time.Millisecond
)

// Gesture recognises three logo activations inside a short window. It keeps
// the last three timestamps in a ring.
type Gesture struct {
	taps [gestureTaps]time.Time
	next int
	n    int
}

// Tap records an activation and reports whether it completed the gesture.
// A completed gesture clears the history.
func (g *Gesture) Tap(now time.Time) bool {
	g.taps[g.next] = now
	g.next = (g.next + 1) % gestureTaps
	if g.n < gestureTaps {
		g.n++
	}
	if g.n < gestureTaps {
		return false
	}

	oldest := g.taps[g.next]
	if now.Sub(oldest) < gestureWindow {
		g.Reset()
		return true
	}
	return false
}

func (g *Gesture) Reset() {
	*g = Gesture{}
}
