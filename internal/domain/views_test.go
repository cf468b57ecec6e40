package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseViews(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2.4M", 2_400_000},
		{"450k", 450_000},
		{"450K", 450_000},
		{"1m", 1_000_000},
		{"90", 90},
		{"1,200", 1200},
		{"1,200k", 1_200_000},
		{" 12k ", 12_000},
		{"garbage", 0},
		{"", 0},
		{"k", 0},
		{"NaN", 0},
		{"Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseViews(tt.in), 0.0001)
		})
	}
}

func TestHumanizeViews(t *testing.T) {
	assert.Equal(t, "2.4M", HumanizeViews(2_400_000))
	assert.Equal(t, "1M", HumanizeViews(1_000_000))
	assert.Equal(t, "450k", HumanizeViews(450_000))
	assert.Equal(t, "90", HumanizeViews(90))
	assert.Equal(t, "0", HumanizeViews(0))
}

func TestHumanizeViews_RoundTrip(t *testing.T) {
	for _, v := range []string{"450k", "2.4M", "90"} {
		assert.Equal(t, v, HumanizeViews(ParseViews(v)))
	}
}
