package roblox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/scidept/sentinel/internal/setup/config"
	"go.uber.org/zap"
)

// Outcome is the result of a gateway call. Callers treat anything other than
// OutcomeSuccess as "proceed assuming not removed, log and move on"; gateway
// failures are never fatal to the surrounding operation.
type Outcome int

const (
	// OutcomeSuccess means the group service acknowledged the call.
	OutcomeSuccess Outcome = iota
	// OutcomeFailed means every attempt failed or timed out.
	OutcomeFailed
	// OutcomeNotConfigured means no service base or secret is configured;
	// the call was skipped entirely.
	OutcomeNotConfigured
)

// String returns a short label for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// GroupRank is one rank role in the configured group.
type GroupRank struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

var errUnexpectedStatus = errors.New("unexpected status from group service")

// Gateway calls the external group service that owns Roblox-side membership.
// All calls carry the shared secret and a bounded retry policy.
type Gateway struct {
	base        string
	secret      string
	groupID     uint64
	maxAttempts int
	delay       time.Duration
	client      *http.Client
	logger      *zap.Logger
}

// NewGateway creates a gateway from the Roblox and retry configuration.
func NewGateway(cfg *config.Roblox, retryCfg *config.Retry, logger *zap.Logger) *Gateway {
	return &Gateway{
		base:        strings.TrimRight(cfg.ServiceBase, "/"),
		secret:      cfg.Secret,
		groupID:     cfg.GroupID,
		maxAttempts: retryCfg.MaxAttempts,
		delay:       time.Duration(retryCfg.Delay) * time.Millisecond,
		client: &http.Client{
			Timeout: time.Duration(retryCfg.Timeout) * time.Millisecond,
		},
		logger: logger.Named("roblox_gateway"),
	}
}

// Configured reports whether the gateway has a service base and secret.
func (g *Gateway) Configured() bool {
	return g.base != "" && g.secret != ""
}

// RemoveMember asks the group service to remove a Roblox account from the
// group. Idempotent on the service side; removing an absent member succeeds.
func (g *Gateway) RemoveMember(ctx context.Context, robloxID uint64) Outcome {
	if !g.Configured() {
		return OutcomeNotConfigured
	}

	payload := map[string]any{"robloxId": robloxID}
	if g.groupID != 0 {
		payload["groupId"] = g.groupID
	}

	if err := g.post(ctx, "/remove", payload); err != nil {
		g.logger.Warn("Group removal failed",
			zap.Uint64("robloxID", robloxID),
			zap.Error(err))

		return OutcomeFailed
	}

	return OutcomeSuccess
}

// SetGroupRank asks the group service to move a Roblox account to a role.
func (g *Gateway) SetGroupRank(ctx context.Context, robloxID, roleID uint64) Outcome {
	if !g.Configured() {
		return OutcomeNotConfigured
	}

	payload := map[string]any{
		"robloxId": robloxID,
		"roleId":   roleID,
	}
	if g.groupID != 0 {
		payload["groupId"] = g.groupID
	}

	if err := g.post(ctx, "/set-rank", payload); err != nil {
		g.logger.Warn("Rank change failed",
			zap.Uint64("robloxID", robloxID),
			zap.Uint64("roleID", roleID),
			zap.Error(err))

		return OutcomeFailed
	}

	return OutcomeSuccess
}

// ListGroupRanks fetches the group's rank roles. Returns an empty list when
// the gateway is unconfigured or every attempt fails; rank listing is only
// used to populate command choices and degrades quietly.
func (g *Gateway) ListGroupRanks(ctx context.Context) []GroupRank {
	if !g.Configured() {
		return nil
	}

	var ranks []GroupRank

	err := g.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/ranks", nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("X-Secret-Key", g.secret)

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: HTTP %d: %s", errUnexpectedStatus, resp.StatusCode, string(body))
		}

		var parsed struct {
			Roles []GroupRank `json:"roles"`
		}

		if err := sonic.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(err)
		}

		ranks = parsed.Roles

		return nil
	})
	if err != nil {
		g.logger.Warn("Rank listing failed", zap.Error(err))
		return nil
	}

	return ranks
}

// post sends an authenticated JSON POST and retries transient failures.
func (g *Gateway) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return g.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("X-Secret-Key", g.secret)
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			text, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("%w: HTTP %d: %s", errUnexpectedStatus, resp.StatusCode, string(text))
		}

		return nil
	})
}

// retry runs op with a fixed inter-attempt delay and a bounded attempt count.
func (g *Gateway) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.delay), uint64(g.maxAttempts-1)),
		ctx,
	)

	return backoff.Retry(op, policy)
}
