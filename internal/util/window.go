package util

import (
	"github.com/asecurityteam/rolling"
)

// RollingWindow holds the latest samples of a series. Until it has been
// filled, reductions only cover the samples appended so far.
type RollingWindow struct {
	policy *rolling.PointPolicy
	size   int
	count  int
}

func CreateRollingWindow(size int) *RollingWindow {
	size = max(size, 1)
	return &RollingWindow{
		policy: rolling.NewPointPolicy(rolling.NewWindow(size)),
		size:   size,
	}
}

func (w *RollingWindow) Append(value float64) {
	w.policy.Append(value)
	if w.count < w.size {
		w.count++
	}
}

// reduce applies f to the filled slots only, an empty window reduces to 0.
// The point policy writes its slots in order, so the first count slots are
// the filled ones.
func (w *RollingWindow) reduce(f func(rolling.Window) float64) float64 {
	if w.count == 0 {
		return 0
	}
	filled := w.count
	return w.policy.Reduce(func(window rolling.Window) float64 {
		return f(window[:filled])
	})
}

// GetWindowMax returns the max value in the window
func GetWindowMax(window *RollingWindow) float64 {
	return window.reduce(rolling.Max)
}

// GetWindowMin returns the min value in the window
func GetWindowMin(window *RollingWindow) float64 {
	return window.reduce(rolling.Min)
}

// GetWindowAvg returns the average of all values in the window
func GetWindowAvg(window *RollingWindow) float64 {
	return window.reduce(rolling.Avg)
}

// GetWindowCount returns the number of samples currently held by the window
func GetWindowCount(window *RollingWindow) int {
	return window.count
}
