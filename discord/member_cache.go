package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

//memberRoleCache keeps the last observed role set per guild member. The
//gateway's member-update notification only carries the new state, so these
//snapshots are the only way to reconstruct the previous role set the engine
//diffs against. Handlers run on separate goroutines, hence the lock.
type memberRoleCache struct {
	mu      sync.RWMutex
	byGuild map[string]map[string][]string
}

func newMemberRoleCache() *memberRoleCache {
	return &memberRoleCache{
		byGuild: map[string]map[string][]string{},
	}
}

//seed stores snapshots for a whole page of members at once.
func (c *memberRoleCache) seed(guildID string, members []*discordgo.Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	guild := c.guildLocked(guildID)
	for _, member := range members {
		if member.User == nil {
			continue
		}
		guild[member.User.ID] = copyRoles(member.Roles)
	}
}

//put records a member's current role set.
func (c *memberRoleCache) put(guildID, userID string, roles []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guildLocked(guildID)[userID] = copyRoles(roles)
}

//get returns a copy of the member's cached role set, if known.
func (c *memberRoleCache) get(guildID, userID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	guild, ok := c.byGuild[guildID]
	if !ok {
		return nil, false
	}
	roles, ok := guild[userID]
	if !ok {
		return nil, false
	}
	return copyRoles(roles), true
}

//swap atomically replaces the member's snapshot with current and returns the
//previous one. known is false when the member had no snapshot yet.
func (c *memberRoleCache) swap(guildID, userID string, current []string) (previous []string, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	guild := c.guildLocked(guildID)
	previous, known = guild[userID]
	guild[userID] = copyRoles(current)
	return previous, known
}

//drop forgets a member, typically on guild leave.
func (c *memberRoleCache) drop(guildID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if guild, ok := c.byGuild[guildID]; ok {
		delete(guild, userID)
	}
}

func (c *memberRoleCache) guildLocked(guildID string) map[string][]string {
	guild, ok := c.byGuild[guildID]
	if !ok {
		guild = map[string][]string{}
		c.byGuild[guildID] = guild
	}
	return guild
}

func copyRoles(roles []string) []string {
	if roles == nil {
		return nil
	}
	res := make([]string, len(roles))
	copy(res, roles)
	return res
}
