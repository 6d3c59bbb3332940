// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentages(t *testing.T) {
	tests := []struct {
		name  string
		tally []int
		want  []int
	}{
		{"no votes", []int{0, 0, 0}, []int{0, 0, 0}},
		{"single voter", []int{1, 0}, []int{100, 0}},
		{"even split", []int{1, 1}, []int{50, 50}},
		{"thirds may not sum to 100", []int{1, 1, 1}, []int{33, 33, 33}},
		{"half up rounds toward the larger", []int{1, 2}, []int{33, 67}},
		{"exact half rounds up", []int{1, 3, 4}, []int{13, 38, 50}},
		{"empty tally", []int{}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentages(tt.tally))
		})
	}
}

func TestLeadingShare(t *testing.T) {
	tests := []struct {
		name  string
		tally []int
		want  int
	}{
		{"no votes", []int{0, 0}, 0},
		{"unanimous", []int{4, 0}, 100},
		{"leader truncates", []int{2, 1}, 66},
		{"tied leaders share the max", []int{3, 3, 2}, 37},
		{"empty tally", []int{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeadingShare(tt.tally))
		})
	}
}
