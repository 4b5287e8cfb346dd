// Package random provides a swappable integer source so generated
// values stay deterministic under test.
package random

import "math/rand/v2"

var intNFunc = rand.IntN

// IntN returns, as an int, a non-negative pseudo-random number in [0,n).
func IntN(n int) int {
	return intNFunc(n)
}

// IntBetween returns a pseudo-random number in [min,max]. Bounds swap
// when min > max.
func IntBetween(min, max int) int {
	if min > max {
		min, max = max, min
	}

	if min == max {
		return min
	}

	return IntN(max-min+1) + min
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// String returns a pseudo-random alphanumeric string of the given length.
func String(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumeric[IntN(len(alphanumeric))]
	}

	return string(buf)
}

// SetIntNForTest overrides the random source and returns a restore function.
func SetIntNForTest(fn func(int) int) func() {
	previous := intNFunc
	intNFunc = fn
	return func() {
		intNFunc = previous
	}
}
