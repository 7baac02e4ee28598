package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
)

const DialogTitle = "Export Inventory Report"

var ErrNoRecipient = errors.New("mail share needs a recipient")

// Sink delivers an exported file. It returns a short label of where it went.
type Sink interface {
	Share(ctx context.Context, path, mimeType string) (string, error)
}

// MimeType maps an export extension to its content type.
func MimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// DirSink copies files into a shared folder.
type DirSink struct {
	Dir string
}

func (d DirSink) Share(ctx context.Context, path, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}

	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(d.Dir, filepath.Base(path))
	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return "dir:" + target, nil
}

// MailSink sends the file as an attachment.
type MailSink struct {
	From   string
	To     []string
	Sender enmime.Sender
}

func NewMailSink(cfg config.Config, to []string) (*MailSink, error) {
	if err := cfg.Require("SMTP_HOST", cfg.SMTPHost); err != nil {
		return nil, err
	}
	if err := cfg.Require("MAIL_FROM", cfg.MailFrom); err != nil {
		return nil, err
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	addr := cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort)
	return &MailSink{From: cfg.MailFrom, To: to, Sender: enmime.NewSMTP(addr, auth)}, nil
}

func (m *MailSink) Message(path, mimeType string) (enmime.MailBuilder, error) {
	if len(m.To) == 0 {
		return enmime.MailBuilder{}, ErrNoRecipient
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return enmime.MailBuilder{}, err
	}

	name := filepath.Base(path)
	b := enmime.Builder().
		From("", m.From).
		Subject(DialogTitle + ": " + name).
		Text([]byte(fmt.Sprintf("Attached: %s\n", name))).
		AddAttachment(content, mimeType, name)
	for _, to := range m.To {
		b = b.To("", to)
	}
	return b, nil
}

func (m *MailSink) Share(ctx context.Context, path, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := m.Message(path, mimeType)
	if err != nil {
		return "", err
	}
	if err := b.Send(m.Sender); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	return "mail:" + strings.Join(m.To, ","), nil
}
