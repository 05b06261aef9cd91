package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roleswap/engine"
	"roleswap/rules"
)

//newGateFixture builds an EventSource over a session whose state already
//knows the guild, its roles and the bot's own membership, so Authorize never
//has to fall back to the REST API.
func newGateFixture(t *testing.T, ownerID string, botRoles []string) *EventSource {
	t.Helper()
	s, err := discordgo.New("Bot testtoken")
	require.NoError(t, err)
	s.State.User = &discordgo.User{ID: "bot"}
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{
		ID:      "G1",
		OwnerID: ownerID,
		Roles: []*discordgo.Role{
			{ID: "mgr", Position: 5, Permissions: discordgo.PermissionManageRoles},
			{ID: "adm", Position: 5, Permissions: discordgo.PermissionAdministrator},
			{ID: "plain", Position: 5},
			{ID: "low", Position: 2},
			{ID: "eq", Position: 5},
			{ID: "high", Position: 8},
		},
	}))
	require.NoError(t, s.State.MemberAdd(&discordgo.Member{
		GuildID: "G1",
		User:    &discordgo.User{ID: "bot"},
		Roles:   botRoles,
	}))
	return &EventSource{discordClient: s}
}

func TestAuthorizeCapabilityAndRankMatrix(t *testing.T) {
	cases := []struct {
		name     string
		ownerID  string
		botRoles []string
		target   string
		want     engine.Decision
	}{
		{"manage roles above target", "owner", []string{"mgr"}, "low", engine.Authorized},
		{"administrator counts as capability", "owner", []string{"adm"}, "low", engine.Authorized},
		{"no role management permission", "owner", []string{"plain"}, "low", engine.Denied(engine.DenyMissingCapability)},
		{"no roles at all", "owner", nil, "low", engine.Denied(engine.DenyMissingCapability)},
		{"target at equal position", "owner", []string{"mgr"}, "eq", engine.Denied(engine.DenyInsufficientRank)},
		{"target above bot", "owner", []string{"mgr"}, "high", engine.Denied(engine.DenyInsufficientRank)},
		{"owner has capability but rank still applies", "bot", nil, "low", engine.Denied(engine.DenyInsufficientRank)},
		{"owner with a high enough role", "bot", []string{"plain"}, "low", engine.Authorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newGateFixture(t, tc.ownerID, tc.botRoles)
			got := d.Authorize("G1", rules.RoleRef{ID: tc.target}, engine.OpRevoke)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAuthorizeDeniesDeletedTargetRole(t *testing.T) {
	d := newGateFixture(t, "owner", []string{"mgr"})

	got := d.Authorize("G1", rules.RoleRef{ID: "ghost"}, engine.OpGrant)

	assert.False(t, got.Allowed)
	assert.Equal(t, engine.DenyInsufficientRank, got.Reason)
}
