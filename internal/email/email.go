// Package email delivers rendered flyers to buyers by SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Attachment is a file attached to an outbound email.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers flyer emails. NoopSender stands in when SMTP is not
// configured.
type Sender interface {
	SendFlyerEmail(ctx context.Context, toEmail string, propertyCount int, listingsURL string, attachments ...Attachment) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendFlyerEmail(ctx context.Context, toEmail string, propertyCount int, listingsURL string, attachments ...Attachment) error {
	return nil
}

// SMTPSender delivers email over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender with the given credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// SendFlyerEmail sends the deal sheet PDF to one recipient.
func (s *SMTPSender) SendFlyerEmail(ctx context.Context, toEmail string, propertyCount int, listingsURL string, attachments ...Attachment) error {
	subject := fmt.Sprintf("%d new off-market deals attached", propertyCount)
	content, err := renderEmailTemplate("flyer.html", flyerEmailData{
		baseEmailData: baseEmailData{
			Title:    "New off-market deals",
			Heading:  fmt.Sprintf("%d deals just hit the list", propertyCount),
			CTALabel: "Browse all deals",
			CTAURL:   listingsURL,
		},
		PropertyCount: propertyCount,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content, attachments...)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
