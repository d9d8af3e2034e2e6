package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends notification emails to sellers.
type Mailer interface {
	SendListingSoldEmail(toEmail, listingTitle string) error
}

type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendListingSoldEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing has been sold")
	msg.SetBody("text/plain", fmt.Sprintf("Congratulations! Your listing '%s' has been marked as sold.", listingTitle))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
