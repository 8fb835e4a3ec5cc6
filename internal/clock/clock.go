// Package clock provides the time dependency used throughout contexture.
// Components that reason about "now" take a Clock instead of calling
// time.Now directly so that tests can pin the current moment.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the local system clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always reports the same instant. Intended for tests.
type Fixed struct {
	Time time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return f.Time
}
