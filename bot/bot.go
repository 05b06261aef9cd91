package bot

import (
	"net/url"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"roleswap/discord"
	"roleswap/engine"
	"roleswap/store"
)

//RoleSwapBot represents an instance of the discord bot, containing handles to
//the rule store, the rule engine and the gateway connection.
type RoleSwapBot struct {
	DiscordConnection *discord.EventSource
	Rules             *store.Store
	Engine            *engine.Engine
}

//Init creates a new RoleSwapBot instance backed by the rule file at storePath
//and connects it to the discord gateway.
func Init(storePath string) (*RoleSwapBot, error) {
	res, err := wire(storePath)
	if err != nil {
		return nil, err
	}
	//Connect only once wiring is complete; handler goroutines read the bot's
	//fields as soon as the gateway opens.
	if err := res.DiscordConnection.Open(); err != nil {
		logrus.Errorf("Cannot start bot due to error connecting to discord: %v", err)
		return nil, err
	}
	return res, nil
}

//wire assembles a fully connected-but-offline bot instance.
func wire(storePath string) (*RoleSwapBot, error) {
	var res RoleSwapBot
	//Load persisted rules; a missing or broken file degrades to an empty set
	res.Rules = store.Open(storePath)

	disc, err := discord.NewDiscordListener(&res)
	if err != nil {
		logrus.Errorf("Cannot start bot due to error initializing discord connection: %v", err)
		return nil, err
	}
	res.DiscordConnection = disc

	//The event source doubles as authorization gate and mutation sink
	res.Engine = engine.New(res.Rules, disc, disc)

	return &res, nil
}

//BotAddURL generates a URL that can be used to add the bot to a server
func (b *RoleSwapBot) BotAddURL() (*url.URL, error) {
	return b.DiscordConnection.BotAddURL()
}

//DiscordSession returns a handle to the underlying discord session
func (b *RoleSwapBot) DiscordSession() *discordgo.Session {
	return b.DiscordConnection.Session()
}

//HandleEvent feeds a platform event into the rule engine.
func (b *RoleSwapBot) HandleEvent(ev engine.Event) {
	b.Engine.Handle(ev)
}

//Close cleanly terminates the bot instance
func (b *RoleSwapBot) Close() {
	logrus.Info("Terminating bot...")
	b.DiscordConnection.Close()
	if err := b.Rules.Save(); err != nil {
		logrus.Warnf("Failed to flush rule file on shutdown due to error %v", err)
	}
}
