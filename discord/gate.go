package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"roleswap/engine"
	"roleswap/rules"
)

//Authorize implements engine.Gate against the bot's own membership. A
//mutation is allowed only when the bot holds role-management capability in
//the guild and its highest role sits strictly above the target role in the
//hierarchy. Discord rejects mutations at or above the actor's highest role,
//so checking here keeps those failures synchronous and attributable instead
//of surfacing as opaque API errors mid-reconciliation.
func (d *EventSource) Authorize(scope string, target rules.RoleRef, op engine.Operation) engine.Decision {
	s := d.discordClient
	if s.State.User == nil {
		logrus.Warnf("Cannot authorize %v of role %v in guild %v: own user not yet known", op, target, scope)
		return engine.Denied(engine.DenyMissingCapability)
	}
	botMember, err := d.ownMember(scope)
	if err != nil {
		logrus.Warnf("Cannot authorize %v of role %v in guild %v: failed to fetch own membership due to error %v",
			op, target, scope, err)
		return engine.Denied(engine.DenyMissingCapability)
	}
	guild, err := d.guild(scope)
	if err != nil {
		logrus.Warnf("Cannot authorize %v of role %v in guild %v: failed to fetch guild due to error %v",
			op, target, scope, err)
		return engine.Denied(engine.DenyMissingCapability)
	}

	rolesByID := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		rolesByID[role.ID] = role
	}

	canManage := guild.OwnerID == s.State.User.ID
	highest := -1
	for _, roleID := range botMember.Roles {
		role, ok := rolesByID[roleID]
		if !ok {
			continue
		}
		if role.Permissions&discordgo.PermissionManageRoles != 0 ||
			role.Permissions&discordgo.PermissionAdministrator != 0 {
			canManage = true
		}
		if role.Position > highest {
			highest = role.Position
		}
	}
	if !canManage {
		return engine.Denied(engine.DenyMissingCapability)
	}

	targetRole, ok := rolesByID[target.ID]
	if !ok {
		//Role was deleted out from under the rule; a mutation would fail at
		//the API anyway.
		logrus.Warnf("Role %v no longer exists in guild %v", target, scope)
		return engine.Denied(engine.DenyInsufficientRank)
	}
	if highest <= targetRole.Position {
		return engine.Denied(engine.DenyInsufficientRank)
	}
	return engine.Authorized
}

func (d *EventSource) ownMember(guildID string) (*discordgo.Member, error) {
	s := d.discordClient
	if member, err := s.State.Member(guildID, s.State.User.ID); err == nil {
		return member, nil
	}
	return s.GuildMember(guildID, s.State.User.ID)
}

func (d *EventSource) guild(guildID string) (*discordgo.Guild, error) {
	s := d.discordClient
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild, nil
	}
	guild, err := s.Guild(guildID)
	if err != nil {
		return nil, err
	}
	return guild, nil
}
