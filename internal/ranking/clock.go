package ranking

import "sync/atomic"

// SeqSource hands out the logical seq stamped on every list and item write.
type SeqSource interface {
	Next() int64
}

// Clock is the default SeqSource. Seq values are strictly increasing and
// never derived from wall time, so replaying the same writes against an
// empty store yields identical rows.
type Clock struct {
	last atomic.Int64
}

// NewClockAt returns a Clock whose first Next is start+1. The service passes
// the store's highest seq so a reopened store keeps counting upward.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.last.Store(start)
	return c
}

// Next is safe for concurrent use.
func (c *Clock) Next() int64 {
	return c.last.Add(1)
}
