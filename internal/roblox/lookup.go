package roblox

import (
	"context"
	"fmt"
	"time"

	"github.com/jaxron/roapi.go/pkg/api"
	"github.com/jaxron/roapi.go/pkg/api/resources/users"
	"github.com/scidept/sentinel/internal/setup/config"
	"go.uber.org/zap"
)

// Lookup resolves Roblox usernames and IDs through the public users API.
type Lookup struct {
	roAPI   *api.API
	timeout time.Duration
	logger  *zap.Logger
}

// NewLookup creates a lookup client.
func NewLookup(roAPI *api.API, cfg *config.Roblox, logger *zap.Logger) *Lookup {
	return &Lookup{
		roAPI:   roAPI,
		timeout: time.Duration(cfg.LookupTimeout) * time.Millisecond,
		logger:  logger.Named("roblox_lookup"),
	}
}

// UserIDByUsername resolves a username to its account ID and canonical name.
// Returns zero when no account matches; that is not an error.
func (l *Lookup) UserIDByUsername(ctx context.Context, username string) (uint64, string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	builder := users.NewGetUsersByUsernamesBuilder(username)

	result, err := l.roAPI.Users().GetUsersByUsernames(ctx, builder.Build())
	if err != nil {
		return 0, "", fmt.Errorf("failed to look up username %q: %w", username, err)
	}

	if len(result.Data) == 0 {
		return 0, "", nil
	}

	return result.Data[0].ID, result.Data[0].Name, nil
}
