package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

// TrailPoint is one trail sample. Valid is false for the padding entries
// a trail carries until it has been filled.
type TrailPoint struct {
	Pos   dynamo.Vec2
	Valid bool
}

// Trail is a fixed-capacity ring of recent positions. Points come back
// newest first and the number of points always equals the capacity.
type Trail struct {
	buf  []TrailPoint
	head int // index of the newest sample
}

// NewTrail returns a trail of the given capacity holding only origin.
func NewTrail(capacity int, origin dynamo.Vec2) *Trail {
	t := &Trail{buf: make([]TrailPoint, capacity)}
	t.buf[0] = TrailPoint{Pos: origin, Valid: true}
	return t
}

func (t *Trail) Cap() int { return len(t.buf) }

// Push records p as the newest sample, evicting the oldest.
func (t *Trail) Push(p dynamo.Vec2) {
	t.head = (t.head - 1 + len(t.buf)) % len(t.buf)
	t.buf[t.head] = TrailPoint{Pos: p, Valid: true}
}

// Newest returns the most recent sample.
func (t *Trail) Newest() dynamo.Vec2 {
	return t.buf[t.head].Pos
}

// Points copies the trail into a new slice, newest first.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, len(t.buf))
	for i := range out {
		out[i] = t.buf[(t.head+i)%len(t.buf)]
	}
	return out
}

func (t *Trail) clone() *Trail {
	c := &Trail{buf: make([]TrailPoint, len(t.buf)), head: t.head}
	copy(c.buf, t.buf)
	return c
}
