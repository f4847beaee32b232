package client

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/retry"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/jaxron/roapi.go/pkg/api"
	"github.com/scidept/sentinel/internal/setup/config"
)

// GetRoAPIClient constructs a Roblox API client with retry middleware.
// Only public endpoints are used, so no authentication cookies are loaded.
func GetRoAPIClient(cfg *config.Retry) *api.API {
	return api.New(nil,
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithTimeout(time.Duration(cfg.Timeout)*time.Millisecond),
		client.WithMiddleware(retry.New(
			uint64(cfg.MaxAttempts),
			time.Duration(cfg.Delay)*time.Millisecond,
			time.Duration(cfg.Timeout)*time.Millisecond,
		)),
	)
}
