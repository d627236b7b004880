package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"learnhub/models"
	"learnhub/services/events"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultBatch       = 50
	defaultMaxAttempts = 5
)

// Dispatcher drains the lifecycle event outbox into the channels.
type Dispatcher struct {
	db          *gorm.DB
	channels    []Channel
	batch       int
	maxAttempts int
	now         func() time.Time
}

func NewDispatcher(db *gorm.DB, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		db:          db,
		channels:    channels,
		batch:       defaultBatch,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
}

// DrainOnce delivers one batch of pending events and returns how many were
// delivered. A row stays pending until every interested channel accepts it
// or it runs out of attempts. Channels that accepted a row are recorded on it
// and are not sent the row again.
func (d *Dispatcher) DrainOnce(ctx context.Context) (int, error) {
	var rows []models.LifecycleEvent
	err := d.db.WithContext(ctx).
		Where("delivered = ? AND attempts < ?", false, d.maxAttempts).
		Order("id asc").
		Limit(d.batch).
		Find(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("load pending events: %w", err)
	}

	delivered := 0
	for _, row := range rows {
		sent, err := d.deliver(ctx, row)
		updates := map[string]interface{}{
			"attempts":      row.Attempts + 1,
			"sent_channels": encodeChannels(sent),
		}
		if err != nil {
			slog.Warn("notification delivery failed", "event_id", row.ID, "type", row.EventType, "attempt", row.Attempts+1, "error", err)
			updates["last_error"] = err.Error()
		} else {
			updates["delivered"] = true
			updates["delivered_at"] = d.now()
			updates["last_error"] = ""
		}

		if uerr := d.db.WithContext(ctx).Model(&models.LifecycleEvent{}).Where("id = ?", row.ID).Updates(updates).Error; uerr != nil {
			slog.Error("record notification delivery", "event_id", row.ID, "error", uerr)
			continue
		}
		if err == nil {
			delivered++
		}
	}
	return delivered, nil
}

func decodeChannels(raw datatypes.JSON) map[string]bool {
	var names []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &names); err != nil {
			slog.Warn("decode sent channels", "error", err)
		}
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func encodeChannels(set map[string]bool) datatypes.JSON {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	raw, _ := json.Marshal(names)
	return datatypes.JSON(raw)
}

// deliver sends row to every interested channel that has not accepted it yet
// and returns the full set of channels that have.
func (d *Dispatcher) deliver(ctx context.Context, row models.LifecycleEvent) (map[string]bool, error) {
	sent := decodeChannels(row.SentChannels)

	var e events.Event
	if err := json.Unmarshal(row.Payload, &e); err != nil {
		return sent, fmt.Errorf("decode payload: %w", err)
	}

	n := Notification{Event: e, Recipient: Recipient{ID: e.UserID}}
	var user models.User
	if err := d.db.WithContext(ctx).Select("id", "name", "email").First(&user, e.UserID).Error; err == nil {
		n.Recipient.Name = user.Name
		n.Recipient.Email = user.Email
	}

	var failures []string
	for _, ch := range d.channels {
		if !ch.Wants(e.Type) || sent[ch.Name()] {
			continue
		}
		if err := ch.Send(ctx, n); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Name(), err))
			continue
		}
		sent[ch.Name()] = true
	}
	if len(failures) > 0 {
		return sent, fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return sent, nil
}

// Schedule registers the drain job on c.
func (d *Dispatcher) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := d.DrainOnce(ctx)
		if err != nil {
			slog.Error("notification drain failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("notifications delivered", "count", n)
		}
	})
	return err
}
