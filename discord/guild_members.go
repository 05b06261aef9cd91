package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const memberPageSize int = 512

//seedGuildMembers pages through a guild's full member list over the REST API
//and records a role snapshot for each one. Used on joining guilds too large
//for the gateway to include members inline.
func (d *EventSource) seedGuildMembers(guildID string) {
	s := d.Session()
	afterUID := ""
	total := 0
	for {
		page, err := s.GuildMembers(guildID, afterUID, memberPageSize)
		if err != nil {
			logrus.Warnf("Failed to fetch page of guild members from discord api: %v", err)
			return
		}
		if len(page) == 0 {
			break
		}
		d.members.seed(guildID, page)
		total += len(page)
		afterUID = maxUID(page)
	}
	logrus.Infof("Seeded role snapshots for %v members of guild %v", total, guildID)
}

//maxUID returns the numerically largest member ID on a page. Snowflakes vary
//in digit count, so a plain string comparison would mis-order a 17-digit ID
//against an 18-digit one; comparing by length first gives numeric order
//without parsing.
func maxUID(members []*discordgo.Member) string {
	maxuid := "0"
	for _, member := range members {
		if member.User == nil {
			continue
		}
		uid := member.User.ID
		if len(uid) > len(maxuid) || (len(uid) == len(maxuid) && uid > maxuid) {
			maxuid = uid
		}
	}
	return maxuid
}
