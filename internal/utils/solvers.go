package utils

import "math"

// TernarySearchMax locates the maximum of a unimodal f on [left, right] to
// within eps and returns it together with the value of f there.
func TernarySearchMax(f func(float64) float64, left, right, eps float64) (x, fx float64) {
	for right-left > eps {
		a := math.FMA(left, 2., right) / 3.
		b := math.FMA(right, 2., left) / 3.
		if f(a) > f(b) {
			right = b
		} else {
			left = a
		}
	}
	x = (left + right) * 0.5
	return x, f(x)
}

// BinarySearch narrows [falseDom, trueDom] (in either order) around the edge of
// the condition support until it is at most eps wide.
// invariant: at *trueDom* condition must be TRUE
func BinarySearch(condition func(float64) bool, falseDom, trueDom, eps float64) (float64, float64) {
	for math.Abs(trueDom-falseDom) > eps {
		c := (falseDom + trueDom) * 0.5
		if condition(c) {
			trueDom = c
		} else {
			falseDom = c
		}
	}
	return falseDom, trueDom
}

// Edge is the midpoint of the final BinarySearch bracket.
func Edge(condition func(float64) bool, falseDom, trueDom, eps float64) float64 {
	l, r := BinarySearch(condition, falseDom, trueDom, eps)
	return 0.5 * (l + r)
}
