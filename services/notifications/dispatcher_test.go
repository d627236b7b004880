package notifications

import (
	"context"
	"errors"
	"learnhub/models"
	"learnhub/services/events"
	"learnhub/services/internal/fixture"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChannel struct {
	name  string
	wants map[events.Type]bool
	fail  error
	sent  []Notification
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Wants(t events.Type) bool { return f.wants == nil || f.wants[t] }

func (f *fakeChannel) Send(_ context.Context, n Notification) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, n)
	return nil
}

func TestDispatcher_DeliversPendingEvents(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	student := fixture.User(t, db, models.RoleStudent)
	outbox := events.NewOutboxPublisher(db)
	outbox.Publish(ctx, events.Event{Type: events.EnrollmentApproved, UserID: student.ID, EnrollmentID: 4})
	outbox.Publish(ctx, events.Event{Type: events.PaymentEvidenceSubmitted, UserID: student.ID, EnrollmentID: 5})

	email := &fakeChannel{name: "email", wants: studentEvents}
	admin := &fakeChannel{name: "telegram", wants: adminEvents}
	d := NewDispatcher(db, email, admin)

	n, err := d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, email.sent, 1)
	assert.Equal(t, events.EnrollmentApproved, email.sent[0].Event.Type)
	assert.Equal(t, student.Email, email.sent[0].Recipient.Email)
	require.Len(t, admin.sent, 1)
	assert.Equal(t, uint(5), admin.sent[0].Event.EnrollmentID)

	n, err = d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "delivered rows are not sent again")
}

func TestDispatcher_RetriesUntilMaxAttempts(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	events.NewOutboxPublisher(db).Publish(ctx, events.Event{Type: events.CourseCompleted, UserID: 1})

	broken := &fakeChannel{name: "webhook", fail: errors.New("connection refused")}
	d := NewDispatcher(db, broken)
	d.maxAttempts = 2

	for i := 0; i < 3; i++ {
		n, err := d.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	var row models.LifecycleEvent
	require.NoError(t, db.First(&row).Error)
	assert.False(t, row.Delivered)
	assert.Equal(t, 2, row.Attempts)
	assert.Contains(t, row.LastError, "webhook: connection refused")
}

func TestRenderEmail(t *testing.T) {
	subject, body := RenderEmail(Notification{
		Event:     events.Event{Type: events.EnrollmentRejected, EnrollmentID: 9, Reason: "no screenshot match"},
		Recipient: Recipient{Name: "Asha"},
	})
	assert.Equal(t, "Your enrollment was not approved", subject)
	assert.Contains(t, body, "no screenshot match")
	assert.Contains(t, body, "Hi Asha")

	subject, body = RenderEmail(Notification{Event: events.Event{Type: events.CertificateIssued, CertificateNumber: "CERT-202405-ABCDEF0123"}})
	assert.Equal(t, "Your certificate is ready", subject)
	assert.Contains(t, body, "CERT-202405-ABCDEF0123")
}

func TestAdminMessage(t *testing.T) {
	msg := AdminMessage(Notification{
		Event:     events.Event{Type: events.PaymentEvidenceSubmitted, EnrollmentID: 3, CourseID: 8},
		Recipient: Recipient{Name: "Ravi"},
	})
	assert.Contains(t, msg, "Ravi")
	assert.Contains(t, msg, "enrollment #3")
}

func TestDispatcher_RetrySkipsChannelsThatAccepted(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	student := fixture.User(t, db, models.RoleStudent)
	events.NewOutboxPublisher(db).Publish(ctx, events.Event{Type: events.EnrollmentApproved, UserID: student.ID, EnrollmentID: 7})

	email := &fakeChannel{name: "email"}
	webhook := &fakeChannel{name: "webhook", fail: errors.New("503 from receiver")}
	d := NewDispatcher(db, email, webhook)

	n, err := d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.Len(t, email.sent, 1)

	webhook.fail = nil
	n, err = d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, email.sent, 1, "email is not sent twice")
	assert.Len(t, webhook.sent, 1)

	var row models.LifecycleEvent
	require.NoError(t, db.First(&row).Error)
	assert.True(t, row.Delivered)
	assert.Equal(t, 2, row.Attempts)
	assert.JSONEq(t, `["email","webhook"]`, string(row.SentChannels))
}

func TestDispatcher_UpdateFailureIsNotCountedAsDelivered(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	events.NewOutboxPublisher(db).Publish(ctx, events.Event{Type: events.CourseCompleted, UserID: 1})

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		tx.AddError(errors.New("database is read-only"))
	}))

	ch := &fakeChannel{name: "webhook"}
	n, err := NewDispatcher(db, ch).DrainOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, ch.sent, 1)
}
