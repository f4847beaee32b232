package bot

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/worker/weekly"
	"github.com/stretchr/testify/assert"
)

func guildMember(id uint64, name string, bot bool, roles ...uint64) discord.Member {
	roleIDs := make([]snowflake.ID, len(roles))
	for i, role := range roles {
		roleIDs[i] = snowflake.ID(role)
	}

	return discord.Member{
		User: discord.User{
			ID:       snowflake.ID(id),
			Username: name,
			Bot:      bot,
		},
		RoleIDs: roleIDs,
	}
}

func TestFilterRoster(t *testing.T) {
	t.Parallel()

	const departmentRole = 500

	members := []discord.Member{
		guildMember(1, "alice", false, departmentRole, 501),
		guildMember(2, "hook-bot", true, departmentRole),
		guildMember(3, "bob", false, 501),
		guildMember(4, "carol", false, departmentRole),
	}

	roster := filterRoster(members, snowflake.ID(departmentRole))

	assert.Equal(t, []weekly.Member{
		{ID: 1, Name: "alice"},
		{ID: 4, Name: "carol"},
	}, roster)
}

func TestFilterRosterEmpty(t *testing.T) {
	t.Parallel()

	roster := filterRoster(nil, snowflake.ID(500))
	assert.Empty(t, roster)
}
