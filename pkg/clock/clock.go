package clock

import "time"

// Provider returns the current instant in UTC.
type Provider interface {
	UTCNow() time.Time
}

// System reads the wall clock.
type System struct{}

// UTCNow returns time.Now in UTC
func (System) UTCNow() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed struct {
	At time.Time
}

// UTCNow returns the fixed instant converted to UTC
func (f Fixed) UTCNow() time.Time {
	return f.At.UTC()
}

// Func adapts an ordinary function to a Provider.
type Func func() time.Time

func (f Func) UTCNow() time.Time {
	return f().UTC()
}

// Default is the provider used when callers don't inject one.
var Default Provider = System{}
