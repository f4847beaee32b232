package utils_test

import (
	"testing"
	"time"

	"github.com/scidept/sentinel/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestWeekKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{
			name: "mid year",
			time: time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC),
			want: "2025-W39",
		},
		{
			name: "single digit week is zero padded",
			time: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			want: "2025-W04",
		},
		{
			name: "january days can belong to the previous ISO year",
			time: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2026-W53",
		},
		{
			name: "december days can belong to the next ISO year",
			time: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			want: "2025-W01",
		},
		{
			name: "non-UTC input is normalized",
			time: time.Date(2025, 9, 28, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			want: "2025-W40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.WeekKey(tt.time))
		})
	}
}

func TestHumanRemaining(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "days and hours",
			d:    4*24*time.Hour + 23*time.Hour + 12*time.Minute,
			want: "4d 23h",
		},
		{
			name: "minutes hidden when a day remains",
			d:    2*24*time.Hour + 5*time.Minute,
			want: "2d",
		},
		{
			name: "hours and minutes under a day",
			d:    6*time.Hour + 12*time.Minute,
			want: "6h 12m",
		},
		{
			name: "minutes only",
			d:    45 * time.Minute,
			want: "45m",
		},
		{
			name: "under a minute",
			d:    20 * time.Second,
			want: "under 1m",
		},
		{
			name: "zero",
			d:    0,
			want: "0d",
		},
		{
			name: "negative",
			d:    -time.Hour,
			want: "0d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.HumanRemaining(tt.d))
		})
	}
}
