package discord

import (
	"fmt"
	"net/url"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"roleswap/engine"
)

const discordTokenEnvVar = "ROLESWAP_DISCORD_BOT_TOKEN"
const botScope = "bot"
const permissions = discordgo.PermissionManageRoles |
	discordgo.PermissionReadMessages |
	discordgo.PermissionSendMessages |
	discordgo.PermissionAddReactions

//EventHandler is a struct which can handle everything the discord listener
//generates: raw command messages plus the typed events the rule engine
//consumes.
type EventHandler interface {
	HandleMessage(*discordgo.MessageCreate)
	HandleEvent(engine.Event)
}

//EventSource represents a connection to the Discord gateway. It translates
//gateway notifications into engine events and keeps the member-role snapshot
//cache needed to hand the engine complete previous/current role sets. The
//same session also backs the engine's authorization gate and mutation sink.
type EventSource struct {
	discordClient *discordgo.Session
	handler       EventHandler
	members       *memberRoleCache
}

//NewDiscordListener builds an EventSource wired to the given handler. No
//connection is made yet; call Open once the handler side is fully assembled,
//since the gateway starts delivering events immediately.
func NewDiscordListener(handler EventHandler) (*EventSource, error) {
	//Get token from environment variable
	apiTok, exists := os.LookupEnv(discordTokenEnvVar)
	if !exists {
		logrus.Errorf("`%v` env variable was not set.", discordTokenEnvVar)
		return nil, fmt.Errorf("`%v` env variable was not set", discordTokenEnvVar)
	}

	//Create new client
	dc, err := discordgo.New("Bot " + apiTok)
	if err != nil {
		logrus.Warnf("Failed to create Discord gateway client due to %v", err)
		return nil, err
	}
	dispatch := EventSource{
		discordClient: dc,
		handler:       handler,
		members:       newMemberRoleCache(),
	}

	//Register event handlers
	dc.AddHandler(dispatch.dispatchMessageCreateEvent)
	dc.AddHandler(dispatch.dispatchGuildCreateEvent)
	dc.AddHandler(dispatch.dispatchMemberAddEvent)
	dc.AddHandler(dispatch.dispatchMemberUpdateEvent)
	dc.AddHandler(dispatch.dispatchMemberRemoveEvent)
	dc.AddHandler(dispatch.dispatchReactionAddEvent)
	dc.AddHandler(dispatch.dispatchReactionRemoveEvent)

	//Register intents
	dc.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	return &dispatch, nil
}

//Open connects to the discord gateway and starts the event stream.
func (d *EventSource) Open() error {
	err := d.discordClient.Open()
	if err != nil {
		logrus.Errorf("Failed to connect to discord websockets gateway; encountered error %v", err)
		return err
	}
	return nil
}

//BotAddURL generates a URL that can be used to add the bot to a server
func (d *EventSource) BotAddURL() (*url.URL, error) {
	user, err := d.discordClient.User("@me")
	if err != nil {
		return nil, err
	}
	clientID := user.ID

	url, err := url.Parse("https://discord.com/api/oauth2/authorize")
	if err != nil {
		return nil, err
	}
	q := url.Query()
	q.Set("client_id", clientID)
	q.Set("scope", botScope)
	q.Set("permissions", fmt.Sprintf("%d", permissions))
	url.RawQuery = q.Encode()

	return url, nil
}

//Close cleanly terminates the Discord connection
func (d *EventSource) Close() {
	logrus.Info("Terminating discord event listener...")
	_ = d.discordClient.Close()
}

//Session returns a handle to the underlying discordgo session
func (d *EventSource) Session() *discordgo.Session {
	return d.discordClient
}

func (d *EventSource) dispatchMessageCreateEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	//Ignore messages created by bot
	if m.Author == nil || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		logrus.Debug("Got a message from self; Ignoring.")
		return
	}

	//Prevent panic from crashing the whole bot
	defer recoverHandlerPanic()

	//Dispatch to bot handlers
	d.handler.HandleMessage(m)
}

func (d *EventSource) dispatchGuildCreateEvent(s *discordgo.Session, g *discordgo.GuildCreate) {
	defer recoverHandlerPanic()
	logrus.Infof("Joined guild %v (%v), seeding member role cache", g.Name, g.ID)
	if len(g.Members) > 0 {
		d.members.seed(g.ID, g.Members)
		return
	}
	//Larger guilds do not include members on the create event, so page them
	//in from the REST API instead.
	go d.seedGuildMembers(g.ID)
}

func (d *EventSource) dispatchMemberAddEvent(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer recoverHandlerPanic()
	if m.User == nil {
		return
	}
	d.members.put(m.GuildID, m.User.ID, m.Roles)
	d.handler.HandleEvent(engine.MemberJoined{
		Scope:    m.GuildID,
		MemberID: m.User.ID,
	})
}

func (d *EventSource) dispatchMemberUpdateEvent(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	defer recoverHandlerPanic()
	if m.User == nil {
		return
	}
	//The gateway only carries the post-update member, so the previous role
	//set comes from our own snapshot cache. A member we have never seen
	//before has nothing to diff against; cache them and wait for the next
	//transition.
	previous, known := d.members.swap(m.GuildID, m.User.ID, m.Roles)
	if !known {
		logrus.Debugf("First sighting of member %v in guild %v, caching role snapshot", m.User.ID, m.GuildID)
		return
	}
	d.handler.HandleEvent(engine.MemberRolesChanged{
		Scope:    m.GuildID,
		MemberID: m.User.ID,
		Previous: previous,
		Current:  m.Roles,
	})
}

func (d *EventSource) dispatchMemberRemoveEvent(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	defer recoverHandlerPanic()
	if m.User == nil {
		return
	}
	d.members.drop(m.GuildID, m.User.ID)
}

func (d *EventSource) dispatchReactionAddEvent(s *discordgo.Session, m *discordgo.MessageReactionAdd) {
	defer recoverHandlerPanic()
	d.dispatchReactionToggle(s, m.MessageReaction, engine.ReactionAdded)
}

func (d *EventSource) dispatchReactionRemoveEvent(s *discordgo.Session, m *discordgo.MessageReactionRemove) {
	defer recoverHandlerPanic()
	d.dispatchReactionToggle(s, m.MessageReaction, engine.ReactionRemoved)
}

func (d *EventSource) dispatchReactionToggle(s *discordgo.Session, r *discordgo.MessageReaction, direction engine.ReactionDirection) {
	//Reactions authored by the bot itself never reach the engine
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	//Reactions in DMs carry no guild and no roles
	if r.GuildID == "" {
		return
	}
	memberRoles, err := d.memberRoles(r.GuildID, r.UserID)
	if err != nil {
		logrus.Warnf("Failed to fetch roles for member %v in guild %v due to error %v; dropping reaction event",
			r.UserID, r.GuildID, err)
		return
	}
	d.handler.HandleEvent(engine.ReactionToggled{
		Scope:       r.GuildID,
		MessageID:   r.MessageID,
		EmojiKey:    emojiKey(&r.Emoji),
		MemberID:    r.UserID,
		Direction:   direction,
		MemberRoles: memberRoles,
	})
}

//memberRoles returns a member's current role set, preferring the snapshot
//cache, then session state, then the REST API.
func (d *EventSource) memberRoles(guildID, userID string) ([]string, error) {
	if roles, ok := d.members.get(guildID, userID); ok {
		return roles, nil
	}
	if member, err := d.discordClient.State.Member(guildID, userID); err == nil {
		d.members.put(guildID, userID, member.Roles)
		return member.Roles, nil
	}
	member, err := d.discordClient.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	d.members.put(guildID, userID, member.Roles)
	return member.Roles, nil
}

//emojiKey normalizes an emoji to the key used by reaction bindings: custom
//guild emoji are keyed by their numeric ID, standard emoji by their literal.
func emojiKey(e *discordgo.Emoji) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}

func recoverHandlerPanic() {
	if r := recover(); r != nil {
		logrus.Errorf("Bot handler thread panicked: %v", r)
	}
}
