package types_test

import (
	"testing"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func orientationWithDeadline(deadline time.Time) *types.Orientation {
	return &types.Orientation{
		MemberID:   1,
		AssignedAt: deadline.Add(-types.OrientationWindow),
		Deadline:   &deadline,
	}
}

func TestOrientationRemaining(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	record := orientationWithDeadline(now.Add(3 * 24 * time.Hour))
	assert.Equal(t, 3*24*time.Hour, record.Remaining(now))

	past := orientationWithDeadline(now.Add(-time.Hour))
	assert.Negative(t, past.Remaining(now))

	noDeadline := &types.Orientation{MemberID: 1}
	assert.Zero(t, noDeadline.Remaining(now))
}

func TestOrientationInWarningBand(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		remaining time.Duration
		want      bool
	}{
		{"exactly at the lead", types.OrientationWarningLead, true},
		{"lower edge of the band", types.OrientationWarningLead - types.OrientationWarningTolerance, true},
		{"upper edge of the band", types.OrientationWarningLead + types.OrientationWarningTolerance, true},
		{"below the band", types.OrientationWarningLead - 2*time.Hour, false},
		{"above the band", types.OrientationWarningLead + 2*time.Hour, false},
		{"already expired", -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := orientationWithDeadline(now.Add(tt.remaining))
			assert.Equal(t, tt.want, record.InWarningBand(now))
		})
	}
}

func TestOrientationNoDeadlineNeverWarns(t *testing.T) {
	t.Parallel()

	record := &types.Orientation{MemberID: 1}
	assert.False(t, record.InWarningBand(time.Now().UTC()))
}
