package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"roleswap/rules"
)

const handleSetWelcomeSyntax string = "`!setwelcome \"<role>\"` or `!setwelcome @<role>`"

//HandleSetWelcomeMessage handles a message containing a set welcome role command
//command format: !setwelcome "<role>"
func (b *RoleSwapBot) HandleSetWelcomeMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!setwelcome", func() BotResponse {
		argString := strings.TrimLeft(strings.TrimPrefix(msg.Content, "!setwelcome"), " ")
		if strings.TrimSpace(argString) == "" {
			return ResponseSyntaxError{
				command:     "!setwelcome",
				commandMsg:  msg.Content,
				description: "expected a role",
				syntax:      handleSetWelcomeSyntax,
				timestamp:   time.Now(),
			}
		}
		role, resp := b.resolveRoleArg("!setwelcome", msg, argString)
		if resp != nil {
			return resp
		}
		return b.setWelcomeRole(msg.GuildID, msg.Content, roleRef(role))
	})
}

//setWelcomeRole is the session-free core of !setwelcome.
func (b *RoleSwapBot) setWelcomeRole(guildID, commandMsg string, role rules.RoleRef) BotResponse {
	b.Rules.SetWelcomeRole(guildID, role)
	description := fmt.Sprintf("New members will now automatically receive %v.", role)
	if err := b.Rules.Save(); err != nil {
		return ResponsePartialSuccess{
			command:     "!setwelcome",
			commandMsg:  commandMsg,
			description: description + " However, the rule file could not be written, so the setting will be lost on restart.",
			timestamp:   time.Now(),
		}
	}
	return ResponseSuccess{
		command:     "!setwelcome",
		commandMsg:  commandMsg,
		description: description,
		timestamp:   time.Now(),
	}
}

//HandleClearWelcomeMessage handles a message containing a clear welcome role command
//command format: !clearwelcome
func (b *RoleSwapBot) HandleClearWelcomeMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!clearwelcome", func() BotResponse {
		return b.clearWelcomeRole(msg.GuildID, msg.Content)
	})
}

//clearWelcomeRole is the session-free core of !clearwelcome. Clearing a guild
//with no welcome role configured still succeeds.
func (b *RoleSwapBot) clearWelcomeRole(guildID, commandMsg string) BotResponse {
	b.Rules.ClearWelcomeRole(guildID)
	description := "New members will no longer automatically receive a role."
	if err := b.Rules.Save(); err != nil {
		return ResponsePartialSuccess{
			command:     "!clearwelcome",
			commandMsg:  commandMsg,
			description: description + " However, the rule file could not be written, so the setting will reappear on restart.",
			timestamp:   time.Now(),
		}
	}
	return ResponseSuccess{
		command:     "!clearwelcome",
		commandMsg:  commandMsg,
		description: description,
		timestamp:   time.Now(),
	}
}
