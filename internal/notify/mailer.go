// Package notify delivers transactional e-mail: verification codes, booking
// confirmations and visit reminders.
package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/config"
)

// Mailer sends clinic mail over SMTP. When mail is disabled in config it
// degrades to logging the message instead, which keeps local development
// working without a relay.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.cfg.Enabled {
		m.logger.Info("mail disabled, skipping send",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.Sender, to, subject, htmlBody))

	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Address(), auth, m.cfg.Sender, []string{to}, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// SendVerificationCode mails the registration OTP.
func (m *Mailer) SendVerificationCode(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf(`<html><body>
<h2>Verify your e-mail</h2>
<p>Your verification code is <strong>%s</strong>.</p>
<p>It expires in %d minutes.</p>
</body></html>`, code, int(ttl.Minutes()))
	return m.send(to, "Your verification code", body)
}

// SendBookingConfirmation mails the patient after a successful booking.
func (m *Mailer) SendBookingConfirmation(to, doctorName string, start, end time.Time) error {
	body := fmt.Sprintf(`<html><body>
<h2>Appointment confirmed</h2>
<p>Your appointment with Dr. %s is confirmed.</p>
<p><strong>%s</strong>, %s &ndash; %s</p>
</body></html>`,
		doctorName,
		start.Format("Monday, 2 January 2006"),
		start.Format("15:04"),
		end.Format("15:04"))
	return m.send(to, "Appointment confirmed", body)
}

// SendVisitReminder mails the patient ahead of an upcoming visit.
func (m *Mailer) SendVisitReminder(to, doctorName string, start time.Time) error {
	body := fmt.Sprintf(`<html><body>
<h2>Upcoming appointment</h2>
<p>This is a reminder of your appointment with Dr. %s.</p>
<p><strong>%s</strong> at %s</p>
</body></html>`,
		doctorName,
		start.Format("Monday, 2 January 2006"),
		start.Format("15:04"))
	return m.send(to, "Appointment reminder", body)
}
