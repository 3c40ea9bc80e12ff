// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"github.com/link360/pool-api/models"
)

// PledgeNotifier sends the intake-side emails: a confirmation to the
// submitter and a heads-up to the operators
type PledgeNotifier interface {
	SendPledgeConfirmation(ctx context.Context, pledge *models.Pledge, pool *models.Pool) error
	NotifyAdminNewPledge(ctx context.Context, pledge *models.Pledge, pool *models.Pool) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(ctx context.Context, to []string, subject, htmlBody string) error
}

// PledgeNotifierImpl implements PledgeNotifier on top of an EmailProvider
type PledgeNotifierImpl struct {
	emailProvider EmailProvider
	adminEmails   []string
}

// NewPledgeNotifier creates a new pledge notifier
func NewPledgeNotifier(emailProvider EmailProvider, adminEmails []string) PledgeNotifier {
	return &PledgeNotifierImpl{
		emailProvider: emailProvider,
		adminEmails:   adminEmails,
	}
}

// SendPledgeConfirmation emails the submitter their quote summary. All
// user-supplied strings are HTML-escaped before they reach the body.
func (s *PledgeNotifierImpl) SendPledgeConfirmation(ctx context.Context, pledge *models.Pledge, pool *models.Pool) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	safeName := html.EscapeString(pledge.UserName)
	safeTitle := html.EscapeString(pool.Title)
	total := pledge.EstShippingCost + pledge.EstPickupFee + pledge.HeavySurcharge

	subject := fmt.Sprintf("Pledge received – %s", safeTitle)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received your shipping interest for <strong>%s</strong>.</p>
<p>Estimated shipping: $%.2f | Pickup fee: $%.2f | Total: $%.2f</p>
<p>Volume: %.2f ft³</p>
<p>This is interest-only; no payment is due now. We'll contact you when the container is confirmed.</p>
<p>— Link360</p>`,
		safeName, safeTitle, pledge.EstShippingCost, pledge.EstPickupFee, total, pledge.ComputedFt3)

	return s.emailProvider.SendEmail(ctx, []string{pledge.UserEmail}, subject, body)
}

// NotifyAdminNewPledge emails the operator list about a new pledge
func (s *PledgeNotifierImpl) NotifyAdminNewPledge(ctx context.Context, pledge *models.Pledge, pool *models.Pool) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if len(s.adminEmails) == 0 {
		return nil
	}

	safeTitle := html.EscapeString(pool.Title)
	safeName := html.EscapeString(pledge.UserName)
	safeEmail := html.EscapeString(pledge.UserEmail)

	subject := fmt.Sprintf("New pledge: %s – %s", safeTitle, safeName)
	body := fmt.Sprintf(`<p>New pledge received.</p>
<p>Pool: %s</p>
<p>From: %s &lt;%s&gt;</p>
<p>Volume: %.2f ft³ | Est. revenue: $%.2f</p>
<p>— Link360</p>`,
		safeTitle, safeName, safeEmail, pledge.ComputedFt3, pledge.EstTotal)

	return s.emailProvider.SendEmail(ctx, s.adminEmails, subject, body)
}

// MockEmailProvider logs instead of sending; used when SMTP is not configured
type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(ctx context.Context, to []string, subject, htmlBody string) error {
	log.Printf("Email sent to %s [%s]: %s", strings.Join(to, ", "), subject, htmlBody)
	return nil
}

// SMTPEmailProvider sends mail through a plain SMTP relay
type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPEmailProvider(host string, port int, username, password, fromEmail string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
	}
}

func (p *SMTPEmailProvider) SendEmail(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	for _, addr := range to {
		if !strings.Contains(addr, "@") {
			return fmt.Errorf("invalid email address: %s", addr)
		}
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", p.fromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	var auth smtp.Auth
	if p.username != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}
	return smtp.SendMail(addr, auth, p.fromEmail, to, []byte(msg.String()))
}
