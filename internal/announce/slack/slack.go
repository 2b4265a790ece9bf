// Package slack posts level announcements to a Slack channel.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/vdbe/maze-lvl-maker/internal/announce"
)

// attachmentColor is the accent color for level attachments.
const attachmentColor = "#36a64f"

// client abstracts the Slack API methods we use, enabling test mocks.
type client interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Announcer posts level notifications to one Slack channel.
type Announcer struct {
	client  client
	channel string
}

// Opts holds parameters for creating a Slack announcer.
type Opts struct {
	BotToken string // xoxb-... Slack bot token
	Channel  string
	// For testing: inject a mock client instead of the real Slack API.
	Client client
}

// New creates a Slack announcer.
func New(opts Opts) (*Announcer, error) {
	if opts.Channel == "" {
		return nil, fmt.Errorf("slack: channel is required")
	}
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}

	a := &Announcer{channel: opts.Channel}
	if opts.Client != nil {
		a.client = opts.Client
	} else {
		a.client = slackapi.New(opts.BotToken)
	}
	return a, nil
}

// Name identifies the platform.
func (a *Announcer) Name() string { return "slack" }

// Announce posts the level as an attachment.
func (a *Announcer) Announce(ctx context.Context, ev announce.Event) error {
	_, _, err := a.client.PostMessageContext(ctx, a.channel,
		slackapi.MsgOptionText(ev.Title(), false),
		slackapi.MsgOptionAttachments(eventToAttachment(ev)),
	)
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

// eventToAttachment converts a level event to a Slack attachment.
func eventToAttachment(ev announce.Event) slackapi.Attachment {
	att := slackapi.Attachment{
		Title:    ev.Title(),
		Text:     ev.Body(),
		Color:    attachmentColor,
		Fallback: ev.Title(),
		Fields: []slackapi.AttachmentField{
			{Title: "ID", Value: ev.LevelID, Short: true},
			{Title: "Size", Value: fmt.Sprintf("%dx%d", ev.Width, ev.Height), Short: true},
		},
	}
	if ev.Source != "" {
		att.Fields = append(att.Fields, slackapi.AttachmentField{
			Title: "Source",
			Value: ev.Source,
		})
	}
	return att
}
