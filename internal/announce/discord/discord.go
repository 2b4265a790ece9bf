// Package discord posts level announcements to a Discord channel.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/vdbe/maze-lvl-maker/internal/announce"
)

// embedColor is the accent color for level embeds.
const embedColor = 0x36a64f

// session abstracts the discordgo.Session methods we use, enabling test mocks.
// Announcements go over the REST API only; no gateway connection is opened.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts level notifications to one Discord channel.
type Announcer struct {
	sess      session
	channelID string
}

// Opts holds parameters for creating a Discord announcer.
type Opts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real Discord API.
	Session session
}

// New creates a Discord announcer.
func New(opts Opts) (*Announcer, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel is required")
	}
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}

	a := &Announcer{channelID: opts.ChannelID}
	if opts.Session != nil {
		a.sess = opts.Session
		return a, nil
	}

	dg, err := discordgo.New("Bot " + opts.BotToken)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	a.sess = dg
	return a, nil
}

// Name identifies the platform.
func (a *Announcer) Name() string { return "discord" }

// Announce posts the level as an embed.
func (a *Announcer) Announce(ctx context.Context, ev announce.Event) error {
	_, err := a.sess.ChannelMessageSendEmbed(a.channelID, eventToEmbed(ev), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}

// eventToEmbed converts a level event to a Discord embed.
func eventToEmbed(ev announce.Event) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title(),
		Description: ev.Body(),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: ev.LevelID, Inline: true},
			{Name: "Size", Value: fmt.Sprintf("%dx%d", ev.Width, ev.Height), Inline: true},
		},
	}
	if ev.Source != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Source",
			Value: ev.Source,
		})
	}
	return embed
}
