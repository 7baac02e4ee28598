package share

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jhillyerd/enmime"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
)

type captureSender struct {
	from string
	to   []string
	msg  []byte
}

func (c *captureSender) Send(reversePath string, recipients []string, msg []byte) error {
	c.from, c.to, c.msg = reversePath, recipients, msg
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDirSink(t *testing.T) {
	src := writeFile(t, "Shaab_Food_20260301_0930.xlsx", "xlsx-bytes")
	dir := filepath.Join(t.TempDir(), "shared")

	via, err := DirSink{Dir: dir}.Share(context.Background(), src, MimeType(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "Shaab_Food_20260301_0930.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "xlsx-bytes" || !strings.HasPrefix(via, "dir:") {
		t.Fatalf("via=%q content=%q", via, got)
	}
}

func TestMailSinkBuildsAttachment(t *testing.T) {
	src := writeFile(t, "report.pdf", "%PDF-1.4 fake")
	sender := &captureSender{}
	sink := &MailSink{From: "iow@example.test", To: []string{"control@example.test"}, Sender: sender}

	via, err := sink.Share(context.Background(), src, MimeType(src))
	if err != nil {
		t.Fatal(err)
	}
	if via != "mail:control@example.test" {
		t.Fatalf("via=%q", via)
	}
	if sender.from != "iow@example.test" || len(sender.to) != 1 {
		t.Fatalf("from=%q to=%v", sender.from, sender.to)
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(sender.msg))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(env.GetHeader("Subject"), DialogTitle) {
		t.Fatalf("subject=%q", env.GetHeader("Subject"))
	}
	if len(env.Attachments) != 1 {
		t.Fatalf("attachments=%d", len(env.Attachments))
	}
	att := env.Attachments[0]
	if att.FileName != "report.pdf" || att.ContentType != "application/pdf" || string(att.Content) != "%PDF-1.4 fake" {
		t.Fatalf("attachment=%s %s %q", att.FileName, att.ContentType, att.Content)
	}
}

func TestMailSinkNeedsRecipient(t *testing.T) {
	src := writeFile(t, "report.pdf", "x")
	sink := &MailSink{From: "iow@example.test", Sender: &captureSender{}}
	if _, err := sink.Share(context.Background(), src, "application/pdf"); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("err=%v", err)
	}
}

func TestNewMailSinkRequiresHost(t *testing.T) {
	if _, err := NewMailSink(config.Config{MailFrom: "a@b.c"}, []string{"x@y.z"}); err == nil {
		t.Fatalf("expected missing host error")
	}
	sink, err := NewMailSink(config.Config{SMTPHost: "smtp.example.test", SMTPPort: 587, MailFrom: "a@b.c"}, []string{"x@y.z"})
	if err != nil {
		t.Fatal(err)
	}
	if sink.Sender == nil {
		t.Fatalf("no sender")
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"a.pdf":  "application/pdf",
		"a.XLSX": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.html": "text/html; charset=utf-8",
	}
	for in, want := range cases {
		if got := MimeType(in); got != want {
			t.Fatalf("MimeType(%q)=%q want %q", in, got, want)
		}
	}
}
