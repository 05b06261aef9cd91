package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

const (
	successMessageColour int = 0x28bd00
	warnMessageColour    int = 0xbdb900
	errorMessageColour   int = 0xbd1b00
)

//BotResponse represents the result of a command which can be both
//communicated over discord and written to the log.
type BotResponse interface {
	DiscordResponse() *discordgo.MessageSend
	WriteToLog()
}

//ResponseSuccess will be returned when a command has been successfully
//completed
type ResponseSuccess struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//A human-readable description of what was done
	description string
	//The time the success was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseSuccess) DiscordResponse() *discordgo.MessageSend {
	embed := discordgo.MessageEmbed{
		Title:       "Success! \\o/",
		Type:        discordgo.EmbedTypeRich,
		Description: r.description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       successMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseSuccess) WriteToLog() {
	logrus.Infof("%v Completed command %v successfully: %v", logLineLabel(r.timestamp), r.commandMsg, r.description)
}

//ResponsePartialSuccess will be returned when a command has taken effect in
//memory but could not be fully completed, typically because persisting the
//rule file failed.
type ResponsePartialSuccess struct {
	command     string
	commandMsg  string
	description string
	timestamp   time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponsePartialSuccess) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Completed %v command, but with a problem: \n%v", r.command, r.description)
	embed := discordgo.MessageEmbed{
		Title:       "Partial success...",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       warnMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponsePartialSuccess) WriteToLog() {
	logrus.Warnf("%v Completed command %v but with a problem: %v", logLineLabel(r.timestamp), r.commandMsg, r.description)
}

//ResponseRejected will be returned when the rule store refused an operation
//because of an operator mistake, such as a self-referential swap rule or a
//positional reference that does not exist.
type ResponseRejected struct {
	command    string
	commandMsg string
	//The machine-readable failure kind, e.g. InvalidRule or DuplicateBinding
	kind        string
	description string
	timestamp   time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseRejected) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("I can't do that: %v", r.description)
	embed := discordgo.MessageEmbed{
		Title:       "Command rejected",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(map[string]string{
			"Reason":       r.kind,
			"Your command": r.commandMsg,
		}),
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseRejected) WriteToLog() {
	logrus.Infof("%v Rejected command %v (%v): %v", logLineLabel(r.timestamp), r.commandMsg, r.kind, r.description)
}

//ResponseSyntaxError will be returned when there was an issue with the user's input
type ResponseSyntaxError struct {
	command     string
	commandMsg  string
	description string
	//A description of the correct syntax
	syntax    string
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseSyntaxError) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Sorry, but there was a problem with the data you supplied for the %v command: \n%v", r.command, r.description)
	embed := discordgo.MessageEmbed{
		Title:       "Uh-oh, there was something wrong with that command",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(map[string]string{
			"Your command":   r.commandMsg,
			"Correct syntax": r.syntax,
		}),
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseSyntaxError) WriteToLog() {
	logrus.Infof("%v Syntax error in command %v: %v", logLineLabel(r.timestamp), r.commandMsg, r.description)
}

//ResponseRoleNotFound will be returned when a role argument did not match any
//role on the server
type ResponseRoleNotFound struct {
	command    string
	commandMsg string
	roleName   string
	timestamp  time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseRoleNotFound) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("I couldn't find a role matching `%v` on this server.", r.roleName)
	embed := discordgo.MessageEmbed{
		Title:       "Role not found",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseRoleNotFound) WriteToLog() {
	logrus.Infof("%v No role matching `%v` found for command %v", logLineLabel(r.timestamp), r.roleName, r.commandMsg)
}

//ResponseInternalError will be returned when there was some kind of error
//within the bot or when communicating with APIs
type ResponseInternalError struct {
	command    string
	commandMsg string
	err        error
	timestamp  time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseInternalError) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Oops! I encountered an unexpected error whilst running your %v command. Please try again later or file a bug report.", r.command)
	embed := discordgo.MessageEmbed{
		Title:       "Oops, something went wrong ;w;",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseInternalError) WriteToLog() {
	logrus.Warnf("%v Internal error whilst executing command %v: %v", logLineLabel(r.timestamp), r.commandMsg, r.err)
}

//ResponseNotAllowed will be returned when a user tried to run a command that
//they do not have the correct permissions for
type ResponseNotAllowed struct {
	command    string
	commandMsg string
	timestamp  time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r ResponseNotAllowed) DiscordResponse() *discordgo.MessageSend {
	embed := discordgo.MessageEmbed{
		Title:       "That's illegal m8",
		Type:        discordgo.EmbedTypeRich,
		Description: "Sorry, but only members who can manage roles may configure me.",
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(map[string]string{
			"Command": r.commandMsg,
		}),
	}
	return &discordgo.MessageSend{Embed: &embed}
}

//WriteToLog dumps data on a discord command response to the log
func (r ResponseNotAllowed) WriteToLog() {
	logrus.Infof("%v Rejected command `%v` as the sender did not have the correct priveliges", logLineLabel(r.timestamp), r.commandMsg)
}

/////////////////////
//Utility Functions//
/////////////////////

//failureKind maps a rule store error to the machine-readable failure kind
//named in command rejections.
func failureKind(err error) string {
	switch {
	case errors.Is(err, rules.ErrInvalidRule):
		return "InvalidRule"
	case errors.Is(err, rules.ErrIndexOutOfRange):
		return "IndexOutOfRange"
	case errors.Is(err, rules.ErrUnknownRule):
		return "UnknownRule"
	case errors.Is(err, rules.ErrDuplicateBinding):
		return "DuplicateBinding"
	case errors.Is(err, rules.ErrUnknownBinding):
		return "UnknownBinding"
	case errors.Is(err, rules.ErrStorageUnavailable):
		return "StorageUnavailable"
	default:
		return "InternalError"
	}
}

func logLineLabel(t time.Time) string {
	return fmt.Sprintf("#%v# | ", t.UnixNano())
}

func stringMapToFields(fields map[string]string) []*discordgo.MessageEmbedField {
	var res []*discordgo.MessageEmbedField
	for fieldName, content := range fields {
		field := discordgo.MessageEmbedField{
			Name:   fieldName,
			Value:  content,
			Inline: false,
		}
		res = append(res, &field)
	}
	return res
}
