package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends mail on behalf of the application. Implementations must
// bound their own execution time.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, html bool) error
	SendWithAttachment(ctx context.Context, to, subject, body string, attachment []byte, filename string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers over SMTP. A fresh connection per message keeps the
// implementation simple; volume here is a handful of mails per day.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(15 * time.Second),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return gomail.NewClient(m.cfg.Host, opts...)
}

func (m *SMTPMailer) compose(to, subject, body string, html bool) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	contentType := gomail.TypeTextPlain
	if html {
		contentType = gomail.TypeTextHTML
	}
	msg.SetBodyString(contentType, body)
	return msg, nil
}

func (m *SMTPMailer) deliver(ctx context.Context, msg *gomail.Msg) error {
	client, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string, html bool) error {
	msg, err := m.compose(to, subject, body, html)
	if err != nil {
		return err
	}
	return m.deliver(ctx, msg)
}

func (m *SMTPMailer) SendWithAttachment(ctx context.Context, to, subject, body string, attachment []byte, filename string) error {
	msg, err := m.compose(to, subject, body, false)
	if err != nil {
		return err
	}
	if err := msg.AttachReader(filename, bytes.NewReader(attachment)); err != nil {
		return fmt.Errorf("attach %s: %w", filename, err)
	}
	return m.deliver(ctx, msg)
}
