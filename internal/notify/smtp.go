// Package notify sends alert emails through the configured SMTP server.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/crucial707/ems-inventory/internal/validate"
)

// Mailer sends plain-text mail via SMTP. A zero-host Mailer is disabled and
// drops messages silently.
type Mailer struct {
	Host   string
	Port   string
	From   string
	UseTLS bool
}

// Enabled reports whether the mailer has a configured server.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != ""
}

// Send delivers a plain-text message. Sender and recipient addresses are
// format-checked before any connection is opened.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	if !validate.ValidEmail(m.From) || !validate.ValidEmail(to) {
		return fmt.Errorf("notify: invalid email address")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.Host + ":" + m.Port

	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("notify: dial %s: %w", addr, err)
	}
	defer c.Close()

	if m.UseTLS {
		if err := c.StartTLS(nil); err != nil {
			return fmt.Errorf("notify: starttls: %w", err)
		}
	}
	if err := c.Mail(m.From); err != nil {
		return fmt.Errorf("notify: mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("notify: rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("notify: data: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		return fmt.Errorf("notify: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("notify: close: %w", err)
	}
	return c.Quit()
}
