package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civica-app/civica-backend/config"
	mailtpl "github.com/civica-app/civica-backend/pkg/mailer/templates"
)

type fakeSender struct {
	err     error
	to      string
	subject string
	html    string
}

func (f *fakeSender) Send(_ context.Context, to, subject, _ string, html string) error {
	f.to, f.subject, f.html = to, subject, html
	return f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestWorkerRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s, Logger: quietLogger()}
	data := mailtpl.NewCodeData(&config.Config{AppName: "Civica"}, mailtpl.PasswordReset, "neo", "neo@example.com", "123456", time.Now().Add(10*time.Minute))
	body, err := json.Marshal(EmailJob{To: "neo@example.com", Template: mailtpl.Universal, Data: data})
	require.NoError(t, err)

	assert.Equal(t, Ack, w.Handle(context.Background(), body))
	assert.Equal(t, "neo@example.com", s.to)
	assert.Equal(t, "Your Civica password reset code", s.subject)
	assert.Contains(t, s.html, "123 456")
}

func TestWorkerPlainBody(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s, Logger: quietLogger()}
	body, _ := json.Marshal(EmailJob{To: "a@b.c", Subject: "News", HTML: "<p>hi</p>"})

	assert.Equal(t, Ack, w.Handle(context.Background(), body))
	assert.Equal(t, "News", s.subject)
}

func TestWorkerDropsBadJobs(t *testing.T) {
	w := &Worker{Sender: &fakeSender{}, Logger: quietLogger()}
	assert.Equal(t, Drop, w.Handle(context.Background(), []byte("{")))

	body, _ := json.Marshal(EmailJob{To: "a@b.c"})
	assert.Equal(t, Drop, w.Handle(context.Background(), body))

	body, _ = json.Marshal(EmailJob{To: "a@b.c", Template: "missing"})
	assert.Equal(t, Drop, w.Handle(context.Background(), body))
}

func TestWorkerRequeuesOnSendFailure(t *testing.T) {
	w := &Worker{Sender: &fakeSender{err: errors.New("mailgun down")}, Logger: quietLogger()}
	body, _ := json.Marshal(EmailJob{To: "a@b.c", Subject: "x", Text: "y"})
	assert.Equal(t, Requeue, w.Handle(context.Background(), body))
}

func TestEnsureRecipient(t *testing.T) {
	j := &EmailJob{To: "a@b.c"}
	j.EnsureRecipient()
	assert.Equal(t, "a@b.c", j.Data["Email"])
	assert.Equal(t, "a@b.c", j.Data["RecipientEmail"])
}
