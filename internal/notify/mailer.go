package notify

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
)

// Mailer sends an email with a single PDF attachment. The interface exists so
// the application layer and tests never touch SMTP directly.
type Mailer interface {
	SendPDF(to, subject, body, filename string, pdf []byte) error
}

// SMTPMailer sends through a plain-auth SMTP relay configured from the
// environment: SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailerFromEnv reads the SMTP_* environment variables. It fails fast
// when the relay host or sender address is missing so a misconfigured
// deployment surfaces at startup rather than on the first send.
func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	m := &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
	if m.host == "" || m.from == "" {
		return nil, fmt.Errorf("SMTP_HOST and SMTP_FROM must be set")
	}
	if m.port == "" {
		m.port = "587"
	}
	return m, nil
}

func (m *SMTPMailer) SendPDF(to, subject, body, filename string, pdf []byte) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	msg := buildMIMEMessage(m.from, to, subject, body, filename, pdf)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}

// buildMIMEMessage assembles a multipart/mixed message with a text part and a
// base64-encoded PDF attachment.
func buildMIMEMessage(from, to, subject, body, filename string, pdf []byte) []byte {
	const boundary = "MEDSTORE-MIME-BOUNDARY"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: application/pdf\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(pdf)
	// RFC 2045 caps encoded lines at 76 characters.
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
