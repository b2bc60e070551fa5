package models

import "time"

// DefaultBufferDays is how long a card stays visible after its last touch.
const DefaultBufferDays = 7

// ComputeWindow sets EffectiveStart, EffectiveEnd and BufferEnd from the
// card's events and offers. Cards with nothing dated get nil fields.
func (c *Card) ComputeWindow(bufferDays int) {
	var start, end time.Time

	widen := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if start.IsZero() || t.Before(start) {
			start = t
		}
		if end.IsZero() || t.After(end) {
			end = t
		}
	}

	for _, ev := range c.Events {
		if t, ok := ev.Instant(); ok {
			widen(t)
		}
	}
	for _, o := range c.Offers {
		s, e := o.Window()
		widen(s)
		widen(e)
	}

	c.EffectiveStart, c.EffectiveEnd, c.BufferEnd = nil, nil, nil
	if start.IsZero() {
		return
	}
	c.EffectiveStart = &start
	c.EffectiveEnd = &end
	buf := end.AddDate(0, 0, bufferDays)
	c.BufferEnd = &buf
}
