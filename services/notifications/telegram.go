package notifications

import (
	"context"
	"fmt"
	"learnhub/services/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

var adminEvents = typeSet(
	events.PaymentEvidenceSubmitted,
	events.ApplicationSubmitted,
	events.ApplicationUnderReview,
)

// TelegramChannel tells admins when something waits for their review.
type TelegramChannel struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return &TelegramChannel{api: api, chatID: chatID}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Wants(t events.Type) bool { return adminEvents[t] }

func (c *TelegramChannel) Send(ctx context.Context, n Notification) error {
	return c.Alert(ctx, AdminMessage(n))
}

func (c *TelegramChannel) Alert(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

// AdminMessage is the chat text for an admin-facing event.
func AdminMessage(n Notification) string {
	e := n.Event
	switch e.Type {
	case events.PaymentEvidenceSubmitted:
		return fmt.Sprintf("💳 %s uploaded payment evidence for enrollment #%d (course #%d). Waiting for review.",
			n.Recipient.Name, e.EnrollmentID, e.CourseID)
	case events.ApplicationSubmitted:
		return fmt.Sprintf("📝 %s applied to internship #%d (application #%d).",
			n.Recipient.Name, e.InternshipID, e.ApplicationID)
	case events.ApplicationUnderReview:
		return fmt.Sprintf("🔎 Application #%d for internship #%d is under review.", e.ApplicationID, e.InternshipID)
	}
	return fmt.Sprintf("%s for user #%d", e.Type, e.UserID)
}
