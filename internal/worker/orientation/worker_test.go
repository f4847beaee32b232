package orientation

import (
	"context"
	"testing"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/scidept/sentinel/internal/enforcement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	records []*types.Orientation
	warned  []uint64
	expired []uint64
}

func (f *fakeStore) Pending(context.Context) ([]*types.Orientation, error) {
	return f.records, nil
}

func (f *fakeStore) SetWarned(_ context.Context, memberID uint64) error {
	f.warned = append(f.warned, memberID)

	for _, record := range f.records {
		if record.MemberID == memberID {
			record.Warned = true
		}
	}

	return nil
}

func (f *fakeStore) SetExpiredHandled(_ context.Context, memberID uint64) error {
	f.expired = append(f.expired, memberID)

	for _, record := range f.records {
		if record.MemberID == memberID {
			record.ExpiredHandled = true
		}
	}

	return nil
}

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) OrientationAlert(_, description string, _ int) {
	f.alerts = append(f.alerts, description)
}

type fakeEnforcer struct {
	enforced []uint64
}

func (f *fakeEnforcer) OrientationExpired(_ context.Context, memberID uint64) enforcement.Result {
	f.enforced = append(f.enforced, memberID)
	return enforcement.Result{Kicked: true}
}

func record(memberID uint64, deadline time.Time) *types.Orientation {
	return &types.Orientation{
		MemberID:   memberID,
		AssignedAt: deadline.Add(-types.OrientationWindow),
		Deadline:   &deadline,
	}
}

func TestWarningFiresOnceInsideBand(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	store := &fakeStore{records: []*types.Orientation{
		record(1, now.Add(types.OrientationWarningLead)),
	}}
	alerter := &fakeAlerter{}
	enf := &fakeEnforcer{}
	worker := New(store, alerter, enf, zap.NewNop())

	require.NoError(t, worker.run(context.Background(), now))
	require.NoError(t, worker.run(context.Background(), now.Add(30*time.Minute)))

	// Second poll sees the latch and stays quiet.
	assert.Equal(t, []uint64{1}, store.warned)
	assert.Len(t, alerter.alerts, 1)
	assert.Contains(t, alerter.alerts[0], "<@1>")
	assert.Empty(t, enf.enforced)
}

func TestNoWarningOutsideBand(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	store := &fakeStore{records: []*types.Orientation{
		record(1, now.Add(10*24*time.Hour)),
		record(2, now.Add(2*24*time.Hour)),
	}}
	alerter := &fakeAlerter{}
	worker := New(store, alerter, &fakeEnforcer{}, zap.NewNop())

	require.NoError(t, worker.run(context.Background(), now))

	assert.Empty(t, store.warned)
	assert.Empty(t, alerter.alerts)
}

func TestExpiryEnforcesAndLatches(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	store := &fakeStore{records: []*types.Orientation{
		record(1, now.Add(-time.Hour)),
	}}
	enf := &fakeEnforcer{}
	worker := New(store, &fakeAlerter{}, enf, zap.NewNop())

	require.NoError(t, worker.run(context.Background(), now))
	require.NoError(t, worker.run(context.Background(), now.Add(30*time.Minute)))

	// Enforcement ran exactly once despite two polls past the deadline.
	assert.Equal(t, []uint64{1}, enf.enforced)
	assert.Equal(t, []uint64{1}, store.expired)
}

func TestNilDeadlineSkipped(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	store := &fakeStore{records: []*types.Orientation{
		{MemberID: 1, AssignedAt: now.Add(-time.Hour)},
	}}
	alerter := &fakeAlerter{}
	enf := &fakeEnforcer{}
	worker := New(store, alerter, enf, zap.NewNop())

	require.NoError(t, worker.run(context.Background(), now))

	assert.Empty(t, alerter.alerts)
	assert.Empty(t, enf.enforced)
	assert.Empty(t, store.warned)
	assert.Empty(t, store.expired)
}

func TestWarningBandTolerance(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name     string
		deadline time.Time
		want     bool
	}{
		{"exactly five days", now.Add(types.OrientationWarningLead), true},
		{"just inside lower edge", now.Add(types.OrientationWarningLead - 59*time.Minute), true},
		{"just inside upper edge", now.Add(types.OrientationWarningLead + 59*time.Minute), true},
		{"below band", now.Add(types.OrientationWarningLead - 2*time.Hour), false},
		{"above band", now.Add(types.OrientationWarningLead + 2*time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{records: []*types.Orientation{record(1, tt.deadline)}}
			alerter := &fakeAlerter{}
			worker := New(store, alerter, &fakeEnforcer{}, zap.NewNop())

			require.NoError(t, worker.run(context.Background(), now))

			if tt.want {
				assert.Len(t, alerter.alerts, 1)
			} else {
				assert.Empty(t, alerter.alerts)
			}
		})
	}
}
