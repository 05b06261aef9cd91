package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMaxUIDComparesNumerically(t *testing.T) {
	members := []*discordgo.Member{
		//17 digits, lexicographically greater than the 18-digit ID below
		{User: &discordgo.User{ID: "99999999999999999"}},
		{User: &discordgo.User{ID: "100000000000000000"}},
		{User: nil},
	}

	assert.Equal(t, "100000000000000000", maxUID(members))
}

func TestMaxUIDSameLengthOrdering(t *testing.T) {
	members := []*discordgo.Member{
		{User: &discordgo.User{ID: "222222222222222222"}},
		{User: &discordgo.User{ID: "333333333333333333"}},
		{User: &discordgo.User{ID: "111111111111111111"}},
	}

	assert.Equal(t, "333333333333333333", maxUID(members))
	assert.Equal(t, "0", maxUID(nil))
}
