package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/checkout-core/internal/domain"
)

func sampleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:          "ord-1",
		OrderNumber: "ORD-123456-7890",
		Status:      status,
		Customer: &domain.Customer{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Address:  "12 Analytical Way",
			City:     "London",
			State:    "LD",
			ZipCode:  "10001",
		},
		Items: []domain.OrderItem{{
			Quantity: 2,
			Price:    49.99,
			Product:  &domain.Product{Title: "Trail Jacket"},
			Variant:  &domain.ProductVariant{Name: "Medium"},
		}},
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		status  domain.OrderStatus
		subject string
	}{
		{domain.OrderApproved, "Your order is confirmed"},
		{domain.OrderPending, "Your order is processing"},
		{domain.OrderDeclined, "There was an issue with your order"},
		{domain.OrderError, "There was an issue with your order"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			subject, tmpl := templateFor(tt.status)
			assert.Equal(t, tt.subject, subject)
			assert.NotNil(t, tmpl)
		})
	}
}

func TestSendConfirmation(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	d := NewSMTPDispatcher(SMTPConfig{
		Host: "mail.example.com", Port: "587",
		User: "relay", Pass: "secret", From: "shop@example.com",
	})
	d.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := d.Send(context.Background(), sampleOrder(domain.OrderApproved))
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Your order is confirmed")
	assert.Contains(t, body, "Content-Type: text/html")
	assert.Contains(t, body, "#ORD-123456-7890")
	assert.Contains(t, body, "Trail Jacket")
	assert.Contains(t, body, "Medium")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "London, LD 10001")
}

func TestSendIssueNotice(t *testing.T) {
	var gotMsg []byte
	d := NewSMTPDispatcher(SMTPConfig{Host: "mail.example.com", Port: "587"})
	d.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	err := d.Send(context.Background(), sampleOrder(domain.OrderDeclined))
	require.NoError(t, err)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: There was an issue with your order")
	assert.Contains(t, body, "DECLINED")
	assert.Contains(t, body, "retry the payment")
}

func TestSendRelayFailure(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{Host: "mail.example.com", Port: "587"})
	d.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 relay denied")
	}

	err := d.Send(context.Background(), sampleOrder(domain.OrderApproved))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ada@example.com")
}

func TestSendMissingCustomer(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{})
	order := sampleOrder(domain.OrderApproved)
	order.Customer = nil

	err := d.Send(context.Background(), order)
	assert.Error(t, err)
}
