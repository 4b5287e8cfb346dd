// Package clock provides a swappable time source so timestamps and
// duration stamping stay deterministic under test.
package clock

import "time"

var nowFunc = time.Now

// Now returns the current time from the configured clock function.
func Now() time.Time {
	return nowFunc()
}

// Since returns the time elapsed since t, measured against the
// configured clock function.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

// SetNowForTest overrides the clock source and returns a restore function.
func SetNowForTest(fn func() time.Time) func() {
	previous := nowFunc
	nowFunc = fn
	return func() {
		nowFunc = previous
	}
}
