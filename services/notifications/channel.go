// Package notifications delivers lifecycle events from the outbox to email,
// webhook and admin chat channels.
package notifications

import (
	"context"
	"learnhub/services/events"
	"log/slog"
)

// Recipient is the student an event is about.
type Recipient struct {
	ID    uint
	Name  string
	Email string
}

type Notification struct {
	Event     events.Event
	Recipient Recipient
}

// Channel is one delivery route. Wants filters the event types it carries.
type Channel interface {
	Name() string
	Wants(t events.Type) bool
	Send(ctx context.Context, n Notification) error
}

// Alerter posts free-form messages to the admin chat.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

func typeSet(types ...events.Type) map[events.Type]bool {
	set := make(map[events.Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// LogAlerter writes alerts to the log when no admin chat is configured.
type LogAlerter struct{}

func (LogAlerter) Alert(_ context.Context, text string) error {
	slog.Info("admin alert", "text", text)
	return nil
}
