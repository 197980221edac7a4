// Package notify pushes deny alerts to an operator channel. Notification is
// fire-and-forget: it never gates or delays a verdict.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
)

type Notifier interface {
	NotifyDeny(ctx context.Context, toolName, command, reason string) error
}

type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	if botToken == "" {
		botToken = os.Getenv("SLACK_BOT_TOKEN")
	}
	return &SlackNotifier{client: slack.New(botToken), channel: channel}
}

func (s *SlackNotifier) NotifyDeny(ctx context.Context, toolName, command, reason string) error {
	text := fmt.Sprintf(":no_entry: Denied %s call", toolName)
	if command != "" {
		text += fmt.Sprintf(" `%s`", command)
	}
	text += fmt.Sprintf("\n%s", reason)

	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		slog.Error("Failed to send deny alert", "channel", s.channel, "error", err)
		return err
	}
	slog.Debug("Deny alert sent", "channel", s.channel, "tool", toolName)
	return nil
}
