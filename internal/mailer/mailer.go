// Package mailer dispatches the outcome email after settlement. The
// template is a pure function of the order status; delivery happens over
// plain SMTP with auth, matching the transactional-mail relay this service
// is pointed at.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jcmexdev/checkout-core/internal/domain"
)

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPDispatcher sends status emails through an SMTP relay.
type SMTPDispatcher struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, send: smtp.SendMail}
}

// Send renders the status-appropriate template and delivers it to the
// order's customer.
func (d *SMTPDispatcher) Send(_ context.Context, order *domain.Order) error {
	if order.Customer == nil {
		return fmt.Errorf("mailer: order %s has no customer", order.ID)
	}

	subject, tmpl := templateFor(order.Status)

	var body bytes.Buffer
	if err := tmpl.Execute(&body, order); err != nil {
		return fmt.Errorf("mailer: render template for %s: %w", order.Status, err)
	}

	msg := buildMessage(d.cfg.From, order.Customer.Email, subject, body.String())
	addr := d.cfg.Host + ":" + d.cfg.Port
	auth := smtp.PlainAuth("", d.cfg.User, d.cfg.Pass, d.cfg.Host)

	if err := d.send(addr, auth, d.cfg.From, []string{order.Customer.Email}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", order.Customer.Email, err)
	}
	return nil
}

// templateFor maps the order status to its email. APPROVED gets the
// confirmation, PENDING the processing notice, and any failure status the
// payment-issue notice.
func templateFor(status domain.OrderStatus) (string, *template.Template) {
	switch status {
	case domain.OrderApproved:
		return "Your order is confirmed", confirmationTmpl
	case domain.OrderPending:
		return "Your order is processing", processingTmpl
	default:
		return "There was an issue with your order", issueTmpl
	}
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.Bytes()
}
