package bot

import (
	"fmt"
	"os"
	"regexp"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

const devUIDEnvVar string = "ROLESWAP_DEV_UID"

//Allows @mentions, double quotation marked roles or bare role names
var roleRegex = regexp.MustCompile(`^\s*(?:"?<@&(\d+)>"?|"([^"]*)"|(\S+))\s*$`)

func (b *RoleSwapBot) interpretRoleString(roleStr string, guildID string) (*discordgo.Role, error) {
	guildRoles, err := b.DiscordSession().GuildRoles(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild roles for guild id %v", guildID)
		return nil, err
	}
	matches := roleRegex.FindStringSubmatch(roleStr)
	if matches == nil {
		return nil, fmt.Errorf("empty role identifier was provided")
	}
	if rid := matches[1]; rid != "" {
		//We have a role id directly
		for _, guildRole := range guildRoles {
			if guildRole.ID == rid {
				return guildRole, nil
			}
		}
		return nil, nil
	}
	//We have a role name, quoted or bare
	roleName := matches[2]
	if roleName == "" {
		roleName = matches[3]
	}
	for _, guildRole := range guildRoles {
		if guildRole.Name == roleName {
			return guildRole, nil
		}
	}
	return nil, nil
}

//roleRef converts a discord role to the reference form stored in rules. The
//name rides along as a display label only.
func roleRef(role *discordgo.Role) rules.RoleRef {
	return rules.RoleRef{
		ID:    role.ID,
		Label: role.Name,
	}
}

//This is kind of a mess and waay too greedy but the symbol other category
//doesn't seem to work with RE2 so eh ¯\_(ツ)_/¯
const unicodeEmojiRegex = `(\S{1,4})`

var emojiRegex = regexp.MustCompile(`(?:<a?:[^:]+:(\d+)>)|` + unicodeEmojiRegex)

//interpretEmojiKey normalizes an emoji argument to the key reaction bindings
//are stored under: custom guild emoji by their numeric ID, standard emoji by
//their literal.
func interpretEmojiKey(emojiStr string) *string {
	matches := emojiRegex.FindStringSubmatch(emojiStr)
	switch {
	case matches == nil:
		return nil
	case matches[1] != "":
		//Discord guild emoji
		return &matches[1]
	case matches[2] != "":
		//Unicode emoji
		return &matches[2]
	default:
		return nil
	}
}

//Allows message links or <channel_id>:<message_id> pairs
var messageRegex = regexp.MustCompile(`(?:https://discord\.com/channels/\d+/(\d{17,20})/(\d{17,20}))|(?:(\d{17,20}):(\d{17,20}))`)

func interpretMessageRef(messageStr string) (chanID, msgID *string) {
	matches := messageRegex.FindStringSubmatch(messageStr)
	switch {
	case matches == nil:
		return nil, nil
	case matches[1] != "":
		//Message link
		return &matches[1], &matches[2]
	case matches[3] != "":
		//Message ID
		return &matches[3], &matches[4]
	default:
		return nil, nil
	}
}

//isFromManager reports whether the sender may run administrative commands:
//the dev override, the server owner, or any member holding a role that can
//manage roles.
func (b *RoleSwapBot) isFromManager(member *discordgo.Member, user *discordgo.User, guildID string) (bool, error) {
	//Works if from dev
	if isDev(user.ID) {
		return true, nil
	}
	//Works if from server owner
	guild, err := b.DiscordSession().Guild(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild object from Discord API when checking if user %v may manage roles on server %v", user.ID, guildID)
		return false, err
	}
	if guild.OwnerID == user.ID {
		return true, nil
	}
	//Works if user has a role which can manage roles
	if member == nil {
		return false, nil
	}
	for _, guildRole := range guild.Roles {
		if guildRole.Permissions&discordgo.PermissionManageRoles == 0 &&
			guildRole.Permissions&discordgo.PermissionAdministrator == 0 {
			continue
		}
		for _, senderRole := range member.Roles {
			if guildRole.ID == senderRole {
				return true, nil
			}
		}
	}
	return false, nil
}

func isDev(userID string) bool {
	devUID, exists := os.LookupEnv(devUIDEnvVar)
	if !exists {
		return false
	}
	return userID == devUID
}
