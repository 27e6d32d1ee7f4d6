package clock

import "time"

// Clock supplies timestamps to transition logic so it stays deterministic
// under test. Production code uses System.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Manual is a hand-driven clock for tests.
type Manual struct {
	T time.Time
}

func (m *Manual) Now() time.Time { return m.T }

func (m *Manual) Advance(d time.Duration) { m.T = m.T.Add(d) }
