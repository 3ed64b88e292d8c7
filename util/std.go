// Package util holds utility functions that would not hurt the
// simplicity of Go if they would be in the builtins/stdlib.
package util

// Min returns the minimum of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// Max returns the maximum of a and b.
func Max(a, b int) int {
	if a < b {
		return b
	}

	return a
}

// Min64 is like Min() but for int64.
func Min64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

// Max64 is like Max() but for int64.
func Max64(a, b int64) int64 {
	if a < b {
		return b
	}

	return a
}

// Clamp64 clamps x into [lo, hi]
func Clamp64(x, lo, hi int64) int64 {
	return Max64(lo, Min64(x, hi))
}

// CeilDiv64 divides a by b, rounding up.
// b must not be zero.
func CeilDiv64(a, b int64) int64 {
	return (a + b - 1) / b
}
