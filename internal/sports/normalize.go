package sports

import "math"

// HasLineData reports whether any period or inning value is above zero.
func HasLineData(seqs ...[]int) bool {
	for _, seq := range seqs {
		for _, v := range seq {
			if v > 0 {
				return true
			}
		}
	}
	return false
}

// SavePercentage returns saves/shots as a percentage rounded to one
// decimal. Zero shots yields 0.
func SavePercentage(saves, shots int) float64 {
	if shots <= 0 {
		return 0
	}
	return Round1(float64(saves) / float64(shots) * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// IntPtr returns a pointer to v, for optional scorer fields.
func IntPtr(v int) *int { return &v }
