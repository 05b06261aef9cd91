package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"roleswap/rules"
)

const handleAddSwapSyntax string = "`!addswap \"<trigger role>\" \"<role to remove>\"`; roles may be @mentions, quoted names or bare names"

var addSwapArgsRegex = regexp.MustCompile(`^\s*((?:"?<@&\d+>"?)|(?:"[^"]*")|(?:\S+))\s+((?:"?<@&\d+>"?)|(?:"[^"]*")|(?:\S+))\s*$`)

//HandleAddSwapMessage handles a message containing an add swap rule command
//command format: !addswap "<trigger role>" "<role to remove>"
func (b *RoleSwapBot) HandleAddSwapMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!addswap", func() BotResponse {
		argString := strings.TrimLeft(strings.TrimPrefix(msg.Content, "!addswap"), " ")
		matches := addSwapArgsRegex.FindStringSubmatch(argString)
		if matches == nil {
			return ResponseSyntaxError{
				command:     "!addswap",
				commandMsg:  msg.Content,
				description: "expected exactly two roles",
				syntax:      handleAddSwapSyntax,
				timestamp:   time.Now(),
			}
		}
		trigger, resp := b.resolveRoleArg("!addswap", msg, matches[1])
		if resp != nil {
			return resp
		}
		remove, resp := b.resolveRoleArg("!addswap", msg, matches[2])
		if resp != nil {
			return resp
		}
		return b.addSwapRule(msg.GuildID, msg.Content, roleRef(trigger), roleRef(remove))
	})
}

//resolveRoleArg turns one role argument into a discord role, or a ready-made
//failure response when it cannot.
func (b *RoleSwapBot) resolveRoleArg(command string, msg *discordgo.MessageCreate, arg string) (*discordgo.Role, BotResponse) {
	role, err := b.interpretRoleString(arg, msg.GuildID)
	if err != nil {
		return nil, ResponseInternalError{
			command:    command,
			commandMsg: msg.Content,
			err:        err,
			timestamp:  time.Now(),
		}
	}
	if role == nil {
		return nil, ResponseRoleNotFound{
			command:    command,
			commandMsg: msg.Content,
			roleName:   arg,
			timestamp:  time.Now(),
		}
	}
	return role, nil
}

//addSwapRule is the session-free core of !addswap: one store mutation, then a
//synchronous flush.
func (b *RoleSwapBot) addSwapRule(guildID, commandMsg string, trigger, remove rules.RoleRef) BotResponse {
	index, err := b.Rules.AddSwapRule(guildID, trigger, remove)
	if err != nil {
		return ResponseRejected{
			command:     "!addswap",
			commandMsg:  commandMsg,
			kind:        failureKind(err),
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	description := fmt.Sprintf("Gaining %v will now remove %v (rule at position %v).", trigger, remove, index)
	if err := b.Rules.Save(); err != nil {
		return ResponsePartialSuccess{
			command:     "!addswap",
			commandMsg:  commandMsg,
			description: description + " However, the rule file could not be written, so the rule will be lost on restart.",
			timestamp:   time.Now(),
		}
	}
	return ResponseSuccess{
		command:     "!addswap",
		commandMsg:  commandMsg,
		description: description,
		timestamp:   time.Now(),
	}
}

const handleRemoveSwapSyntax string = "`!removeswap <position>`; positions are shown by `!listswaps`"

//HandleRemoveSwapMessage handles a message containing a remove swap rule command
//command format: !removeswap <position>
func (b *RoleSwapBot) HandleRemoveSwapMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!removeswap", func() BotResponse {
		argString := strings.TrimSpace(strings.TrimPrefix(msg.Content, "!removeswap"))
		index, err := strconv.Atoi(argString)
		if err != nil {
			return ResponseSyntaxError{
				command:     "!removeswap",
				commandMsg:  msg.Content,
				description: fmt.Sprintf("`%v` is not a rule position", argString),
				syntax:      handleRemoveSwapSyntax,
				timestamp:   time.Now(),
			}
		}
		return b.removeSwapRule(msg.GuildID, msg.Content, index)
	})
}

//removeSwapRule is the session-free core of !removeswap.
func (b *RoleSwapBot) removeSwapRule(guildID, commandMsg string, index int) BotResponse {
	removed, err := b.Rules.RemoveSwapRule(guildID, index)
	if err != nil {
		return ResponseRejected{
			command:     "!removeswap",
			commandMsg:  commandMsg,
			kind:        failureKind(err),
			description: fmt.Sprintf("%v (position %v)", err, index),
			timestamp:   time.Now(),
		}
	}
	description := fmt.Sprintf("Removed the rule where gaining %v removed %v.", removed.Trigger, removed.Remove)
	if err := b.Rules.Save(); err != nil {
		return ResponsePartialSuccess{
			command:     "!removeswap",
			commandMsg:  commandMsg,
			description: description + " However, the rule file could not be written, so the rule will reappear on restart.",
			timestamp:   time.Now(),
		}
	}
	return ResponseSuccess{
		command:     "!removeswap",
		commandMsg:  commandMsg,
		description: description,
		timestamp:   time.Now(),
	}
}

//HandleListSwapsMessage handles a message containing a list swap rules command
//command format: !listswaps
func (b *RoleSwapBot) HandleListSwapsMessage(msg *discordgo.MessageCreate) {
	b.runManagerCommand(msg, "!listswaps", func() BotResponse {
		return b.listSwapRules(msg.GuildID, msg.Content)
	})
}

//listSwapRules is the session-free core of !listswaps.
func (b *RoleSwapBot) listSwapRules(guildID, commandMsg string) BotResponse {
	guildRules := b.Rules.ListSwapRules(guildID)
	if len(guildRules) == 0 {
		return ResponseSuccess{
			command:     "!listswaps",
			commandMsg:  commandMsg,
			description: "No swap rules are configured for this server.",
			timestamp:   time.Now(),
		}
	}
	var sb strings.Builder
	for i, rule := range guildRules {
		fmt.Fprintf(&sb, "`[%v]` gaining <@&%v> removes <@&%v>\n", i, rule.Trigger.ID, rule.Remove.ID)
	}
	return ResponseSuccess{
		command:     "!listswaps",
		commandMsg:  commandMsg,
		description: sb.String(),
		timestamp:   time.Now(),
	}
}
