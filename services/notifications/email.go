package notifications

import (
	"context"
	"fmt"
	"learnhub/services/events"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var studentEvents = typeSet(
	events.EnrollmentActivated,
	events.EnrollmentApproved,
	events.EnrollmentRejected,
	events.EnrollmentRefunded,
	events.EnrollmentCancelled,
	events.CourseCompleted,
	events.CertificateIssued,
	events.ApplicationDecided,
)

// EmailChannel mails students through SendGrid.
type EmailChannel struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailChannel(apiKey, sender string) *EmailChannel {
	return &EmailChannel{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("LearnHub", sender),
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Wants(t events.Type) bool { return studentEvents[t] }

func (c *EmailChannel) Send(ctx context.Context, n Notification) error {
	if n.Recipient.Email == "" {
		return nil
	}
	subject, body := RenderEmail(n)
	msg := mail.NewSingleEmail(c.from, subject, mail.NewEmail(n.Recipient.Name, n.Recipient.Email), "", body)

	resp, err := c.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// RenderEmail builds the subject and HTML body for a student event.
func RenderEmail(n Notification) (string, string) {
	e := n.Event
	switch e.Type {
	case events.EnrollmentActivated, events.EnrollmentApproved:
		return "Your enrollment is active", emailTemplate("You're in!",
			fmt.Sprintf(`<p>Hi %s,</p><p>Your enrollment #%d is active. You can start learning right away.</p>`, n.Recipient.Name, e.EnrollmentID))
	case events.EnrollmentRejected:
		return "Your enrollment was not approved", emailTemplate("Payment not confirmed",
			fmt.Sprintf(`<p>Hi %s,</p><p>We could not confirm the payment for enrollment #%d.</p><div class="info-box">%s</div><p>You can enroll again with new payment evidence.</p>`, n.Recipient.Name, e.EnrollmentID, e.Reason))
	case events.EnrollmentRefunded:
		return "Your enrollment was refunded", emailTemplate("Refund issued",
			fmt.Sprintf(`<p>Hi %s,</p><p>Enrollment #%d has been refunded.</p>`, n.Recipient.Name, e.EnrollmentID))
	case events.EnrollmentCancelled:
		return "Your enrollment was cancelled", emailTemplate("Enrollment cancelled",
			fmt.Sprintf(`<p>Hi %s,</p><p>Enrollment #%d has been cancelled.</p>`, n.Recipient.Name, e.EnrollmentID))
	case events.CourseCompleted:
		return "Course completed", emailTemplate("Congratulations!",
			fmt.Sprintf(`<p>Hi %s,</p><p>You finished every session of course #%d.</p>`, n.Recipient.Name, e.CourseID))
	case events.CertificateIssued:
		return "Your certificate is ready", emailTemplate("Certificate issued",
			fmt.Sprintf(`<p>Hi %s,</p><p>Your certificate number is:</p><div class="info-box"><strong>%s</strong></div>`, n.Recipient.Name, e.CertificateNumber))
	case events.ApplicationDecided:
		return "Update on your internship application", emailTemplate("Application "+e.Status,
			fmt.Sprintf(`<p>Hi %s,</p><p>Your application #%d is now <strong>%s</strong>.</p><p>%s</p>`, n.Recipient.Name, e.ApplicationID, e.Status, e.Reason))
	}
	return string(e.Type), emailTemplate(string(e.Type), "")
}

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1B3A5C; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3A7BD5; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEARNHUB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You receive this email because you have a LearnHub account.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
