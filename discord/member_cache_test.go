package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRoleCacheSwap(t *testing.T) {
	c := newMemberRoleCache()

	_, known := c.swap("G1", "U1", []string{"roleA"})
	assert.False(t, known, "first sighting has no previous snapshot")

	previous, known := c.swap("G1", "U1", []string{"roleA", "roleB"})
	require.True(t, known)
	assert.Equal(t, []string{"roleA"}, previous)
}

func TestMemberRoleCacheCopiesSlices(t *testing.T) {
	c := newMemberRoleCache()
	roles := []string{"roleA"}
	c.put("G1", "U1", roles)
	roles[0] = "mutated"

	got, ok := c.get("G1", "U1")
	require.True(t, ok)
	assert.Equal(t, []string{"roleA"}, got)

	got[0] = "mutated again"
	again, _ := c.get("G1", "U1")
	assert.Equal(t, []string{"roleA"}, again)
}

func TestMemberRoleCacheDrop(t *testing.T) {
	c := newMemberRoleCache()
	c.put("G1", "U1", []string{"roleA"})

	c.drop("G1", "U1")

	_, ok := c.get("G1", "U1")
	assert.False(t, ok)
	//Dropping an unknown member or guild is a no-op
	c.drop("G1", "U2")
	c.drop("G2", "U1")
}

func TestMemberRoleCacheSeed(t *testing.T) {
	c := newMemberRoleCache()
	c.seed("G1", []*discordgo.Member{
		{User: &discordgo.User{ID: "U1"}, Roles: []string{"roleA"}},
		{User: &discordgo.User{ID: "U2"}, Roles: nil},
		{User: nil},
	})

	roles, ok := c.get("G1", "U1")
	require.True(t, ok)
	assert.Equal(t, []string{"roleA"}, roles)
	_, ok = c.get("G1", "U2")
	assert.True(t, ok)
}

func TestEmojiKey(t *testing.T) {
	assert.Equal(t, "123", emojiKey(&discordgo.Emoji{ID: "123", Name: "party"}))
	assert.Equal(t, "🎉", emojiKey(&discordgo.Emoji{Name: "🎉"}))
}
