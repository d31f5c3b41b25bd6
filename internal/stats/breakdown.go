package stats

import "math"

// Share — доля категории в процентах от total для полосы разбивки.
// total меньше 1 считается как 1, результат зажат в [0, 100].
func Share(value, total float64) float64 {
	t := math.Max(1, finite(total))
	return clamp(finite(value)/t*100, 0, 100)
}
