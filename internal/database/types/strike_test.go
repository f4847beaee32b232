package types_test

import (
	"testing"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestStrikeIsActive(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expires in the future", now.Add(time.Hour), true},
		{"expires exactly now", now, false},
		{"already expired", now.Add(-time.Hour), false},
		{"full window ahead", now.Add(types.StrikeDuration), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			strike := &types.Strike{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, strike.IsActive(now))
		})
	}
}
