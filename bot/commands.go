package bot

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

//HandleMessage is called upon every recieved message. It checks if the
//message is a command, and executes it.
func (b *RoleSwapBot) HandleMessage(msg *discordgo.MessageCreate) {
	if msg.GuildID == "" || msg.Content == "" || msg.Content[0] != '!' {
		return
	}
	words := strings.SplitN(msg.Content, " ", 2)
	command := strings.TrimLeft(words[0], "!")
	switch command {
	case "addswap":
		b.HandleAddSwapMessage(msg)
	case "removeswap":
		b.HandleRemoveSwapMessage(msg)
	case "listswaps":
		b.HandleListSwapsMessage(msg)
	case "setwelcome":
		b.HandleSetWelcomeMessage(msg)
	case "clearwelcome":
		b.HandleClearWelcomeMessage(msg)
	case "reactionrole":
		b.HandleReactionRoleMessage(msg)
	case "roleswap":
		b.HandleHelpMessage(msg)
	}
}

//runManagerCommand runs an administrative command body once the sender has
//been confirmed as someone who may manage roles, wrapping the permission
//check and the reply plumbing every such command shares.
func (b *RoleSwapBot) runManagerCommand(msg *discordgo.MessageCreate, command string, run func() BotResponse) {
	var result BotResponse
	isManager, err := b.isFromManager(msg.Member, msg.Author, msg.GuildID)
	if err != nil {
		logrus.Warnf("Failed to check if message came from a role manager due to error %v", err)
		result = ResponseInternalError{
			command:    command,
			commandMsg: msg.Content,
			err:        err,
			timestamp:  time.Now(),
		}
	} else if !isManager {
		result = ResponseNotAllowed{
			command:    command,
			commandMsg: msg.Content,
			timestamp:  time.Now(),
		}
	} else {
		result = run()
	}
	b.respond(msg, result)
}

//respond sends a command result back as a reply to the triggering message and
//writes its log line.
func (b *RoleSwapBot) respond(msg *discordgo.MessageCreate, result BotResponse) {
	result.WriteToLog()
	resp := result.DiscordResponse()
	resp.Reference = &discordgo.MessageReference{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
	}
	_, err := b.DiscordSession().ChannelMessageSendComplex(msg.ChannelID, resp)
	if err != nil {
		logrus.Errorf("Failed to send response to command due to error %v", err)
	}
}

const helpText = "```" + `RoleSwap commands (require permission to manage roles):
  !addswap "<trigger role>" "<role to remove>"
  !removeswap <position>
  !listswaps
  !setwelcome "<role>"
  !clearwelcome
  !reactionrole create <message> <emoji> "<role>"
  !reactionrole add <message> <emoji> "<role>"
  !reactionrole delete <message>
Roles may be given as @mentions, quoted names or bare names.
<message> may be a message link or <channel_id>:<message_id>.` + "```"

//HandleHelpMessage handles the !roleswap help command
func (b *RoleSwapBot) HandleHelpMessage(msg *discordgo.MessageCreate) {
	b.respond(msg, ResponseSuccess{
		command:     "!roleswap",
		commandMsg:  msg.Content,
		description: helpText,
		timestamp:   time.Now(),
	})
}
