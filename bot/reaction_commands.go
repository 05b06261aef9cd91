package bot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"roleswap/rules"
)

const handleReactionRoleSyntax string = "```" +
	`!reactionrole create <message> <emoji> "<role>"
!reactionrole add <message> <emoji> "<role>"
!reactionrole delete <message>

<message> may be a message link (recommended) or the post and its channel in the format <channel_id>:<message_id>.
"create" starts a binding on a message; "add" extends an existing binding with a further emoji; "delete" removes the binding and all of its emoji.` +
	"```"

var reactionRoleArgsRegex = regexp.MustCompile(`^\s*(create|add|delete)\s+(\S+)(?:\s+(\S+)\s+((?:"?<@&\d+>"?)|(?:"[^"]*")|(?:\S+)))?\s*$`)

//HandleReactionRoleMessage handles a message starting with the !reactionrole command
//syntax: !reactionrole <create|add|delete> <message> [<emoji> "<role>"]
func (b *RoleSwapBot) HandleReactionRoleMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!reactionrole", func() BotResponse {
		argString := strings.TrimLeft(strings.TrimPrefix(msg.Content, "!reactionrole"), " ")
		matches := reactionRoleArgsRegex.FindStringSubmatch(argString)
		if matches == nil {
			return b.reactionRoleSyntaxError(msg, "unrecognized arguments")
		}
		verb := matches[1]

		_, msgID := interpretMessageRef(matches[2])
		if msgID == nil {
			return b.reactionRoleSyntaxError(msg, fmt.Sprintf("`%v` is not a message link or <channel_id>:<message_id> pair", matches[2]))
		}

		if verb == "delete" {
			if matches[3] != "" {
				return b.reactionRoleSyntaxError(msg, "delete takes only a message")
			}
			return b.deleteReactionBinding(*msgID, msg.Content)
		}

		if matches[3] == "" || matches[4] == "" {
			return b.reactionRoleSyntaxError(msg, fmt.Sprintf("%v needs an emoji and a role", verb))
		}
		emojiKey := interpretEmojiKey(matches[3])
		if emojiKey == nil {
			return b.reactionRoleSyntaxError(msg, fmt.Sprintf("`%v` is not an emoji", matches[3]))
		}
		role, resp := b.resolveRoleArg("!reactionrole", msg, matches[4])
		if resp != nil {
			return resp
		}

		switch verb {
		case "create":
			return b.createReactionBinding(*msgID, *emojiKey, roleRef(role), msg.Content)
		default:
			return b.extendReactionBinding(*msgID, *emojiKey, roleRef(role), msg.Content)
		}
	})
}

func (b *RoleSwapBot) reactionRoleSyntaxError(msg *discordgo.MessageCreate, description string) BotResponse {
	return ResponseSyntaxError{
		command:     "!reactionrole",
		commandMsg:  msg.Content,
		description: description,
		syntax:      handleReactionRoleSyntax,
		timestamp:   time.Now(),
	}
}

//createReactionBinding is the session-free core of !reactionrole create.
func (b *RoleSwapBot) createReactionBinding(msgID, emojiKey string, role rules.RoleRef, commandMsg string) BotResponse {
	if err := b.Rules.CreateReactionBinding(msgID, emojiKey, role); err != nil {
		return ResponseRejected{
			command:     "!reactionrole",
			commandMsg:  commandMsg,
			kind:        failureKind(err),
			description: fmt.Sprintf("%v; use `!reactionrole add` to extend it", err),
			timestamp:   time.Now(),
		}
	}
	description := fmt.Sprintf("Reacting with %v on message %v now grants %v.", emojiKey, msgID, role)
	return b.reactionBindingSaved("!reactionrole", commandMsg, description)
}

//extendReactionBinding is the session-free core of !reactionrole add.
func (b *RoleSwapBot) extendReactionBinding(msgID, emojiKey string, role rules.RoleRef, commandMsg string) BotResponse {
	if err := b.Rules.AddReactionMapping(msgID, emojiKey, role); err != nil {
		return ResponseRejected{
			command:     "!reactionrole",
			commandMsg:  commandMsg,
			kind:        failureKind(err),
			description: fmt.Sprintf("%v; use `!reactionrole create` to start one", err),
			timestamp:   time.Now(),
		}
	}
	description := fmt.Sprintf("Reacting with %v on message %v now also grants %v.", emojiKey, msgID, role)
	return b.reactionBindingSaved("!reactionrole", commandMsg, description)
}

//deleteReactionBinding is the session-free core of !reactionrole delete.
func (b *RoleSwapBot) deleteReactionBinding(msgID, commandMsg string) BotResponse {
	if err := b.Rules.RemoveReactionBinding(msgID); err != nil {
		return ResponseRejected{
			command:     "!reactionrole",
			commandMsg:  commandMsg,
			kind:        failureKind(err),
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	description := fmt.Sprintf("Removed the reaction binding on message %v along with all of its emoji.", msgID)
	return b.reactionBindingSaved("!reactionrole", commandMsg, description)
}

func (b *RoleSwapBot) reactionBindingSaved(command, commandMsg, description string) BotResponse {
	if err := b.Rules.Save(); err != nil {
		return ResponsePartialSuccess{
			command:     command,
			commandMsg:  commandMsg,
			description: description + " However, the rule file could not be written, so the change will be lost on restart.",
			timestamp:   time.Now(),
		}
	}
	return ResponseSuccess{
		command:     command,
		commandMsg:  commandMsg,
		description: description,
		timestamp:   time.Now(),
	}
}
