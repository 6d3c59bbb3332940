// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import "math"

// Percentages derives display percentages from a tally: each option's
// share of the total, rounded half-up independently. With three equal
// options the result is 33/33/33 — the drift from 100 is accepted, not
// corrected.
func Percentages(tally []int) []int {
	total := 0
	for _, v := range tally {
		total += v
	}
	out := make([]int, len(tally))
	if total == 0 {
		return out
	}
	for i, v := range tally {
		out[i] = int(math.Round(float64(v) * 100 / float64(total)))
	}
	return out
}

// LeadingShare is the single-number momentum indicator for list views:
// the leading option's votes as an integer percentage of the total.
// Zero when nobody has voted.
func LeadingShare(tally []int) int {
	total, max := 0, 0
	for _, v := range tally {
		total += v
		if v > max {
			max = v
		}
	}
	if total == 0 {
		return 0
	}
	return max * 100 / total
}
