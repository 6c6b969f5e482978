package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/quotedprintable"
	netmail "net/mail"
	"sort"
	"strings"
	"time"
)

// Sender delivers a prepared message
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Message is a plain-text email
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
	Headers map[string]string
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// Bytes renders the message as an RFC 5322 document with a quoted-printable body.
func (m *Message) Bytes(date time.Time, messageID string) ([]byte, error) {
	if m.From == "" {
		return nil, fmt.Errorf("message has no sender")
	}
	if len(m.To) == 0 {
		return nil, fmt.Errorf("message has no recipients")
	}

	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, headerSanitizer.Replace(value))
	}

	writeHeader("From", m.From)
	writeHeader("To", strings.Join(m.To, ", "))
	if m.ReplyTo != "" {
		writeHeader("Reply-To", m.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", headerSanitizer.Replace(m.Subject)))
	writeHeader("Date", date.Format(time.RFC1123Z))
	if messageID != "" {
		writeHeader("Message-ID", "<"+messageID+">")
	}

	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(k, m.Headers[k])
	}

	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/plain; charset=UTF-8")
	writeHeader("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.Text)); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

// envelopeAddress extracts the bare address from "Name <addr>" forms
func envelopeAddress(address string) string {
	if parsed, err := netmail.ParseAddress(address); err == nil {
		return parsed.Address
	}
	return strings.TrimSpace(address)
}
