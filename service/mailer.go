package service

import (
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends membership receipt emails over SMTP. A nil Mailer is valid
// and sends nothing, so deployments without SMTP config still work.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendSubscriptionReceipt mails a plain-text confirmation of the membership
// purchase.
func (m *Mailer) SendSubscriptionReceipt(to string, amountCents int64) error {
	if m == nil {
		return nil
	}
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Nexsy membership is active")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Thanks for subscribing to Nexsy!\n\nAmount charged: $%.2f\n\nYou now have full access to product submissions and member features.",
		float64(amountCents)/100))

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	return d.DialAndSend(msg)
}
