package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/civica-app/civica-backend/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Requeue
)

var errEmptyJob = errors.New("email job has no recipient")

// Worker renders queued jobs and hands them to a Sender.
type Worker struct {
	Sender Sender
	Logger logrus.FieldLogger
}

// Render resolves subject and bodies for a job, using the template when set.
func Render(job *EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errEmptyJob
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("email job for %s has neither template nor body", job.To)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	job.EnsureRecipient()
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}

// Handle processes one raw message body. Malformed or unrenderable jobs are
// dropped; delivery failures are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email message")
		return Drop
	}
	subject, text, html, err := Render(&job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render email failed")
		return Drop
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("to", job.To).Error("send email failed")
		return Requeue
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}
