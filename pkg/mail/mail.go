// Package mail provides a fluent SMTP mailer.
//
// Usage:
//
//	mailer.Compose("user@example.com").
//	    Subject("Enquiry received").
//	    Body("<h1>Thank you</h1>").
//	    Send(ctx)
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/stationeryworks/stationery-backend/pkg/config"
)

// Sender is the delivery surface consumed by the notifier worker.
type Sender interface {
	Compose(to ...string) *Message
}

// Mailer builds messages against a fixed SMTP configuration.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Message is a fluent builder for an email.
type Message struct {
	to      []string
	cc      []string
	bcc     []string
	subject string
	body    string
	isHTML  bool
	cfg     config.SMTPConfig
}

// Compose starts a message to the given recipients.
func (m *Mailer) Compose(to ...string) *Message {
	return &Message{
		to:     to,
		isHTML: true,
		cfg:    m.cfg,
	}
}

// CC adds CC recipients.
func (msg *Message) CC(addresses ...string) *Message {
	msg.cc = append(msg.cc, addresses...)
	return msg
}

// BCC adds BCC recipients.
func (msg *Message) BCC(addresses ...string) *Message {
	msg.bcc = append(msg.bcc, addresses...)
	return msg
}

// Subject sets the email subject.
func (msg *Message) Subject(s string) *Message {
	msg.subject = s
	return msg
}

// Body sets the email body (HTML by default).
func (msg *Message) Body(html string) *Message {
	msg.body = html
	msg.isHTML = true
	return msg
}

// Text sets a plain-text body.
func (msg *Message) Text(text string) *Message {
	msg.body = text
	msg.isHTML = false
	return msg
}

// Template renders a parsed html/template with data and sets it as the body.
func (msg *Message) Template(tmpl *template.Template, data interface{}) *Message {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		msg.body = fmt.Sprintf("<!-- render error: %v -->", err)
		return msg
	}
	msg.body = buf.String()
	msg.isHTML = true
	return msg
}

// Send delivers the email via SMTP, bounded by the configured send timeout
// and the supplied context deadline, whichever is sooner.
func (msg *Message) Send(ctx context.Context) error {
	cfg := msg.cfg
	if cfg.Username == "" {
		return fmt.Errorf("mail: smtp username not configured")
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	allTo := append(append(append([]string{}, msg.to...), msg.cc...), msg.bcc...)
	raw := msg.buildRaw(from)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial: %w", err)
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	// Implicit TLS for port 465, STARTTLS otherwise.
	if cfg.Port == "465" {
		conn = tls.Client(conn, &tls.Config{ServerName: cfg.Host})
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Quit()

	if cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				return err
			}
		}
	}
	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	for _, rcpt := range allTo {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (msg *Message) buildRaw(from string) []byte {
	contentType := "text/plain"
	if msg.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.to, ", ") + "\r\n")
	if len(msg.cc) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + msg.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(msg.body)
	return []byte(b.String())
}
