package bot

import (
	"context"
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/scidept/sentinel/internal/worker/weekly"
	"go.uber.org/zap"
)

// rosterPageSize is the platform maximum per member-list request.
const rosterPageSize = 1000

// Roster reads the department membership from the guild member list.
type Roster struct {
	rest    rest.Rest
	guildID snowflake.ID
	roleID  snowflake.ID
	logger  *zap.Logger
}

// NewRoster creates a roster reader for the configured guild and role.
func NewRoster(restClient rest.Rest, cfg *config.Discord, logger *zap.Logger) *Roster {
	return &Roster{
		rest:    restClient,
		guildID: snowflake.ID(cfg.GuildID),
		roleID:  snowflake.ID(cfg.DepartmentRoleID),
		logger:  logger.Named("roster"),
	}
}

// DepartmentMembers pages through the guild member list and returns the
// members holding the department role, bots excluded.
func (r *Roster) DepartmentMembers(ctx context.Context) ([]weekly.Member, error) {
	var (
		members []discord.Member
		after   snowflake.ID
	)

	for {
		chunk, err := r.rest.GetMembers(r.guildID, rosterPageSize, after, rest.WithCtx(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list guild members: %w", err)
		}

		members = append(members, chunk...)

		if len(chunk) < rosterPageSize {
			break
		}

		after = chunk[len(chunk)-1].User.ID
	}

	roster := filterRoster(members, r.roleID)

	r.logger.Debug("Roster loaded",
		zap.Int("guildMembers", len(members)),
		zap.Int("departmentMembers", len(roster)))

	return roster, nil
}

// filterRoster keeps department role holders, dropping bot accounts.
func filterRoster(members []discord.Member, roleID snowflake.ID) []weekly.Member {
	roster := make([]weekly.Member, 0, len(members))

	for _, member := range members {
		if member.User.Bot || !slices.Contains(member.RoleIDs, roleID) {
			continue
		}

		roster = append(roster, weekly.Member{
			ID:   uint64(member.User.ID),
			Name: member.EffectiveName(),
		})
	}

	return roster
}
