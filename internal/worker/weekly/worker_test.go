package weekly

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/scidept/sentinel/internal/enforcement"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testReqs = &config.Requirements{WeeklyTasks: 3, WeeklyMinutes: 45}

type fakeStore struct {
	tasks   map[uint64]int
	times   map[uint64]int
	strikes map[uint64]int
	excuse  *types.ActivityExcuse
	resets  int
}

func (f *fakeStore) TaskCounts(context.Context) (map[uint64]int, error) { return f.tasks, nil }
func (f *fakeStore) TimeCounts(context.Context) (map[uint64]int, error) { return f.times, nil }

func (f *fakeStore) ActiveStrikeCounts(context.Context, time.Time) (map[uint64]int, error) {
	return f.strikes, nil
}

func (f *fakeStore) Excuse(context.Context, string) (*types.ActivityExcuse, error) {
	return f.excuse, nil
}

func (f *fakeStore) ResetWeek(context.Context) error {
	f.resets++
	return nil
}

type fakeStriker struct {
	active map[uint64]int
	failOn uint64
	issued []uint64
}

func (f *fakeStriker) IssueStrike(
	_ context.Context, memberID uint64, _ string, _ *uint64, _ bool,
) (*types.Strike, int, error) {
	if memberID == f.failOn {
		return nil, 0, errors.New("insert failed")
	}

	f.issued = append(f.issued, memberID)
	f.active[memberID]++

	return &types.Strike{
		MemberID:  memberID,
		ExpiresAt: time.Now().Add(types.StrikeDuration),
	}, f.active[memberID], nil
}

type fakeEnforcer struct {
	enforced []uint64
}

func (f *fakeEnforcer) ThreeStrikes(_ context.Context, memberID uint64) enforcement.Result {
	f.enforced = append(f.enforced, memberID)
	return enforcement.Result{}
}

type fakeRoster struct {
	members []Member
}

func (f *fakeRoster) DepartmentMembers(context.Context) ([]Member, error) {
	return f.members, nil
}

type fakeReporter struct {
	reports []string
	logs    []string
	dms     []snowflake.ID
}

func (f *fakeReporter) Announce(_, description string, _ int, _ string) error {
	f.reports = append(f.reports, description)
	return nil
}

func (f *fakeReporter) LogAction(title, _ string) {
	f.logs = append(f.logs, title)
}

func (f *fakeReporter) DM(userID snowflake.ID, _ string) bool {
	f.dms = append(f.dms, userID)
	return true
}

func newTestWorker(store *fakeStore, striker *fakeStriker, enf *fakeEnforcer, members []Member) (*Worker, *fakeReporter) {
	reporter := &fakeReporter{}
	worker := New(store, striker, enf, &fakeRoster{members: members}, reporter, testReqs, zap.NewNop())

	return worker, reporter
}

func TestClassifyBuckets(t *testing.T) {
	t.Parallel()

	members := []Member{
		{ID: 1, Name: "alice"},
		{ID: 2, Name: "bob"},
		{ID: 3, Name: "carol"},
		{ID: 4, Name: "dave"},
	}
	tasks := map[uint64]int{1: 3, 2: 1, 3: 5}
	times := map[uint64]int{1: 45 * 60, 2: 60 * 60, 3: 10 * 60}

	result := classify(members, tasks, times, testReqs)

	assert.Equal(t, []Member{{ID: 1, Name: "alice"}}, result.Met)
	assert.Equal(t, []Member{{ID: 2, Name: "bob"}, {ID: 3, Name: "carol"}}, result.NotMet)
	assert.Equal(t, []Member{{ID: 4, Name: "dave"}}, result.Zero)
}

func TestClassifySingleCounterStillCounts(t *testing.T) {
	t.Parallel()

	// A member touched by only one counter is below quota, not zero-activity.
	members := []Member{{ID: 1, Name: "alice"}}
	tasks := map[uint64]int{1: 5}

	result := classify(members, tasks, map[uint64]int{}, testReqs)

	assert.Empty(t, result.Met)
	assert.Len(t, result.NotMet, 1)
	assert.Empty(t, result.Zero)
}

func TestClassifyDeterministicOrder(t *testing.T) {
	t.Parallel()

	members := []Member{
		{ID: 3, Name: "zed"},
		{ID: 1, Name: "amy"},
		{ID: 2, Name: "amy"},
	}

	result := classify(members, map[uint64]int{}, map[uint64]int{}, testReqs)

	require.Len(t, result.Zero, 3)
	assert.Equal(t, uint64(1), result.Zero[0].ID)
	assert.Equal(t, uint64(2), result.Zero[1].ID)
	assert.Equal(t, uint64(3), result.Zero[2].ID)
}

func TestRunIssuesStrikesAndResets(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		tasks:   map[uint64]int{1: 5, 2: 1},
		times:   map[uint64]int{1: 60 * 60},
		strikes: map[uint64]int{},
	}
	striker := &fakeStriker{active: map[uint64]int{}}
	enf := &fakeEnforcer{}
	members := []Member{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}, {ID: 3, Name: "carol"}}

	worker, reporter := newTestWorker(store, striker, enf, members)

	require.NoError(t, worker.run(context.Background(), time.Now().UTC()))

	// bob is below quota, carol has zero activity; alice met both thresholds.
	assert.ElementsMatch(t, []uint64{2, 3}, striker.issued)
	assert.Empty(t, enf.enforced)
	assert.Equal(t, 1, store.resets)
	require.Len(t, reporter.reports, 1)
	assert.Contains(t, reporter.reports[0], "Below Quota (1)")
	assert.Contains(t, reporter.reports[0], "0 Activity (1)")
}

func TestRunEnforcesAtThreshold(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		tasks:   map[uint64]int{},
		times:   map[uint64]int{},
		strikes: map[uint64]int{2: 2},
	}
	striker := &fakeStriker{active: map[uint64]int{2: 2}}
	enf := &fakeEnforcer{}

	worker, _ := newTestWorker(store, striker, enf, []Member{{ID: 2, Name: "bob"}})

	require.NoError(t, worker.run(context.Background(), time.Now().UTC()))

	assert.Equal(t, []uint64{2}, striker.issued)
	assert.Equal(t, []uint64{2}, enf.enforced)
}

func TestRunExcusedSkipsStrikesButResets(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		tasks:   map[uint64]int{},
		times:   map[uint64]int{},
		strikes: map[uint64]int{},
		excuse:  &types.ActivityExcuse{WeekKey: "2025-W35", Reason: "holiday break"},
	}
	striker := &fakeStriker{active: map[uint64]int{}}
	enf := &fakeEnforcer{}

	worker, reporter := newTestWorker(store, striker, enf, []Member{{ID: 1, Name: "alice"}})

	require.NoError(t, worker.run(context.Background(), time.Now().UTC()))

	assert.Empty(t, striker.issued)
	assert.Empty(t, enf.enforced)
	assert.Equal(t, 1, store.resets)
	require.Len(t, reporter.reports, 1)
	assert.Contains(t, reporter.reports[0], "EXCUSED")
	assert.Contains(t, reporter.reports[0], "holiday break")
}

func TestRunMemberFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		tasks:   map[uint64]int{},
		times:   map[uint64]int{},
		strikes: map[uint64]int{},
	}
	striker := &fakeStriker{active: map[uint64]int{}, failOn: 1}
	enf := &fakeEnforcer{}
	members := []Member{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}

	worker, _ := newTestWorker(store, striker, enf, members)

	require.NoError(t, worker.run(context.Background(), time.Now().UTC()))

	assert.Equal(t, []uint64{2}, striker.issued)
	assert.Equal(t, 1, store.resets)
}
