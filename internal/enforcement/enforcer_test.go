package enforcement

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	dmOK      bool
	dms       []snowflake.ID
	logTitles []string
}

func (f *fakeNotifier) DM(userID snowflake.ID, _ string) bool {
	f.dms = append(f.dms, userID)
	return f.dmOK
}

func (f *fakeNotifier) LogAction(title, _ string) {
	f.logTitles = append(f.logTitles, title)
}

type fakeRemover struct {
	outcome roblox.Outcome
	calls   []uint64
}

func (f *fakeRemover) RemoveMember(_ context.Context, robloxID uint64) roblox.Outcome {
	f.calls = append(f.calls, robloxID)
	return f.outcome
}

type fakeLinks struct {
	robloxID uint64
	err      error
}

func (f *fakeLinks) RobloxID(context.Context, uint64) (uint64, error) {
	return f.robloxID, f.err
}

type fakeKicker struct {
	err   error
	calls []uint64
}

func (f *fakeKicker) Kick(memberID uint64, _ string) error {
	f.calls = append(f.calls, memberID)
	return f.err
}

func TestThreeStrikesAllStepsSucceed(t *testing.T) {
	t.Parallel()

	notif := &fakeNotifier{dmOK: true}
	gateway := &fakeRemover{outcome: roblox.OutcomeSuccess}
	links := &fakeLinks{robloxID: 456}
	kicker := &fakeKicker{}

	enforcer := NewEnforcer(notif, gateway, links, kicker, &config.Discord{}, zap.NewNop())

	result := enforcer.ThreeStrikes(context.Background(), 123)

	assert.True(t, result.Notified)
	assert.True(t, result.GroupLinked)
	assert.Equal(t, roblox.OutcomeSuccess, result.GroupOutcome)
	assert.True(t, result.Kicked)
	assert.Equal(t, []uint64{456}, gateway.calls)
	assert.Equal(t, []uint64{123}, kicker.calls)
	assert.Equal(t, []string{"Three-Strike Removal"}, notif.logTitles)
}

func TestStepsAreIndependent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		notif   *fakeNotifier
		gateway *fakeRemover
		links   *fakeLinks
		kicker  *fakeKicker
	}{
		{
			name:    "dm refused",
			notif:   &fakeNotifier{dmOK: false},
			gateway: &fakeRemover{outcome: roblox.OutcomeSuccess},
			links:   &fakeLinks{robloxID: 456},
			kicker:  &fakeKicker{},
		},
		{
			name:    "gateway fails",
			notif:   &fakeNotifier{dmOK: true},
			gateway: &fakeRemover{outcome: roblox.OutcomeFailed},
			links:   &fakeLinks{robloxID: 456},
			kicker:  &fakeKicker{},
		},
		{
			name:    "link lookup errors",
			notif:   &fakeNotifier{dmOK: true},
			gateway: &fakeRemover{outcome: roblox.OutcomeSuccess},
			links:   &fakeLinks{err: errors.New("db down")},
			kicker:  &fakeKicker{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enforcer := NewEnforcer(tt.notif, tt.gateway, tt.links, tt.kicker, &config.Discord{}, zap.NewNop())

			result := enforcer.ThreeStrikes(context.Background(), 123)

			// The kick must always be attempted regardless of earlier steps.
			assert.Equal(t, []uint64{123}, tt.kicker.calls)
			assert.True(t, result.Kicked)
		})
	}
}

func TestNoLinkedAccountSkipsGateway(t *testing.T) {
	t.Parallel()

	gateway := &fakeRemover{outcome: roblox.OutcomeSuccess}
	enforcer := NewEnforcer(
		&fakeNotifier{dmOK: true}, gateway, &fakeLinks{robloxID: 0}, &fakeKicker{},
		&config.Discord{}, zap.NewNop())

	result := enforcer.ThreeStrikes(context.Background(), 123)

	assert.False(t, result.GroupLinked)
	assert.Empty(t, gateway.calls)
	assert.Equal(t, roblox.OutcomeNotConfigured, result.GroupOutcome)
}

func TestKickFailureReported(t *testing.T) {
	t.Parallel()

	kicker := &fakeKicker{err: errors.New("missing permissions")}
	enforcer := NewEnforcer(
		&fakeNotifier{dmOK: true}, &fakeRemover{outcome: roblox.OutcomeSuccess},
		&fakeLinks{robloxID: 456}, kicker, &config.Discord{}, zap.NewNop())

	result := enforcer.OrientationExpired(context.Background(), 123)

	assert.False(t, result.Kicked)
	assert.True(t, result.Notified)
	assert.Equal(t, roblox.OutcomeSuccess, result.GroupOutcome)
}
