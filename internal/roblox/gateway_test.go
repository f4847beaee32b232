package roblox_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, base string) *roblox.Gateway {
	t.Helper()

	return roblox.NewGateway(
		&config.Roblox{ServiceBase: base, Secret: "test-secret", GroupID: 42},
		&config.Retry{MaxAttempts: 3, Delay: 1, Timeout: 2000},
		zap.NewNop(),
	)
}

func TestGatewayNotConfigured(t *testing.T) {
	t.Parallel()

	gateway := roblox.NewGateway(
		&config.Roblox{},
		&config.Retry{MaxAttempts: 3, Delay: 1, Timeout: 2000},
		zap.NewNop(),
	)

	assert.False(t, gateway.Configured())
	assert.Equal(t, roblox.OutcomeNotConfigured, gateway.RemoveMember(context.Background(), 123))
	assert.Equal(t, roblox.OutcomeNotConfigured, gateway.SetGroupRank(context.Background(), 123, 7))
	assert.Empty(t, gateway.ListGroupRanks(context.Background()))
}

func TestGatewayRemoveMember(t *testing.T) {
	t.Parallel()

	var gotSecret, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Secret-Key")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := newTestGateway(t, srv.URL)

	outcome := gateway.RemoveMember(context.Background(), 123)
	assert.Equal(t, roblox.OutcomeSuccess, outcome)
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "/remove", gotPath)
}

func TestGatewayRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := newTestGateway(t, srv.URL)

	outcome := gateway.RemoveMember(context.Background(), 123)
	assert.Equal(t, roblox.OutcomeSuccess, outcome)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGatewayExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gateway := newTestGateway(t, srv.URL)

	outcome := gateway.RemoveMember(context.Background(), 123)
	assert.Equal(t, roblox.OutcomeFailed, outcome)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGatewayListGroupRanks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ranks", r.URL.Path)
		require.Equal(t, "test-secret", r.Header.Get("X-Secret-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"roles":[{"id":1,"name":"Trainee","rank":1},{"id":2,"name":"Researcher","rank":5}]}`))
	}))
	defer srv.Close()

	gateway := newTestGateway(t, srv.URL)

	ranks := gateway.ListGroupRanks(context.Background())
	require.Len(t, ranks, 2)
	assert.Equal(t, "Trainee", ranks[0].Name)
	assert.Equal(t, uint64(2), ranks[1].ID)
	assert.Equal(t, 5, ranks[1].Rank)
}

func TestGatewaySetGroupRankPayload(t *testing.T) {
	t.Parallel()

	var gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := newTestGateway(t, srv.URL)

	outcome := gateway.SetGroupRank(context.Background(), 123, 7)
	assert.Equal(t, roblox.OutcomeSuccess, outcome)
	assert.Contains(t, gotBody, `"robloxId":123`)
	assert.Contains(t, gotBody, `"roleId":7`)
	assert.Contains(t, gotBody, `"groupId":42`)
}
