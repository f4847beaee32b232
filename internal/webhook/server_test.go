package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	opened  []uint64
	closed  []uint64
	elapsed time.Duration
	weekly  int
}

func (f *fakeSessions) OpenSession(_ context.Context, robloxID uint64, _ time.Time) error {
	f.opened = append(f.opened, robloxID)
	return nil
}

func (f *fakeSessions) CloseSession(_ context.Context, robloxID uint64) (uint64, time.Duration, error) {
	f.closed = append(f.closed, robloxID)
	return 0, f.elapsed, nil
}

func (f *fakeSessions) TimeSpentSeconds(context.Context, uint64) (int, error) {
	return f.weekly, nil
}

type fakeLinks struct {
	members map[uint64]uint64
}

func (f *fakeLinks) MemberID(_ context.Context, robloxID uint64) (uint64, error) {
	return f.members[robloxID], nil
}

type fakeNotifier struct {
	titles []string
	descs  []string
}

func (f *fakeNotifier) ActivityEmbed(title, description string, _ int) {
	f.titles = append(f.titles, title)
	f.descs = append(f.descs, description)
}

func newTestServer(sessions *fakeSessions, links *fakeLinks) (*Server, *fakeNotifier) {
	notif := &fakeNotifier{}
	srv := NewServer(sessions, links, notif,
		&config.Webhook{Addr: ":0", Secret: "hook-secret"},
		&config.Requirements{WeeklyTasks: 3, WeeklyMinutes: 45},
		zap.NewNop())

	return srv, notif
}

func post(t *testing.T, handler http.Handler, secret, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/roblox", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Secret-Key", secret)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(&fakeSessions{}, &fakeLinks{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestBadSecretRejected(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	srv, _ := newTestServer(sessions, &fakeLinks{members: map[uint64]uint64{456: 123}})

	rec := post(t, srv.Handler(), "wrong", `{"robloxId":456,"status":"joined"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sessions.opened)
}

func TestMalformedBodyRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing roblox id", `{"status":"joined"}`},
		{"unknown status", `{"robloxId":456,"status":"idle"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(&fakeSessions{}, &fakeLinks{members: map[uint64]uint64{456: 123}})
			rec := post(t, srv.Handler(), "hook-secret", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUnknownAccountSilentNoOp(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	srv, notif := newTestServer(sessions, &fakeLinks{members: map[uint64]uint64{}})

	rec := post(t, srv.Handler(), "hook-secret", `{"robloxId":999,"status":"joined"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sessions.opened)
	assert.Empty(t, notif.titles)
}

func TestJoinOpensSession(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	srv, notif := newTestServer(sessions, &fakeLinks{members: map[uint64]uint64{456: 123}})

	rec := post(t, srv.Handler(), "hook-secret", `{"robloxId":456,"status":"joined"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{456}, sessions.opened)
	require.Len(t, notif.titles, 1)
	assert.Contains(t, notif.titles[0], "Joined")
	assert.Contains(t, notif.descs[0], "<@123>")
}

func TestLeaveClosesSessionAndReportsTime(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{elapsed: 25 * time.Minute, weekly: 40 * 60}
	srv, notif := newTestServer(sessions, &fakeLinks{members: map[uint64]uint64{456: 123}})

	rec := post(t, srv.Handler(), "hook-secret", `{"robloxId":456,"status":"left"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{456}, sessions.closed)
	require.Len(t, notif.descs, 1)
	assert.Contains(t, notif.descs[0], "**25 min**")
	assert.Contains(t, notif.descs[0], "**40/45 min**")
}
