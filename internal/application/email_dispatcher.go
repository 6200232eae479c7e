package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/config"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/pkg/helpers"
	"github.com/civica-app/civica-backend/pkg/mailer"
	mailtpl "github.com/civica-app/civica-backend/pkg/mailer/templates"
)

// Notifier sends account emails. Implementations must not fail the caller.
type Notifier interface {
	SendCode(ctx context.Context, name string, code *entity.VerificationCode)
	SendWelcome(ctx context.Context, u *entity.User)
}

// EmailDispatcher publishes email jobs to the queue consumed by the email worker.
type EmailDispatcher struct {
	Pub     JSONPublisher
	Cfg     *config.Config
	Logger  logrus.FieldLogger
	Enabled bool
}

func NewEmailDispatcher(pub JSONPublisher, cfg *config.Config, logger logrus.FieldLogger) *EmailDispatcher {
	return &EmailDispatcher{Pub: pub, Cfg: cfg, Logger: logger, Enabled: cfg.MailSendEnabled && pub != nil}
}

func emailTypeFor(p entity.VerificationPurpose) string {
	switch p {
	case entity.PurposeEmailVerification:
		return mailtpl.VerificationCode
	case entity.PurposePasswordReset:
		return mailtpl.PasswordReset
	case entity.PurposeAccountDeletion:
		return mailtpl.AccountDeletion
	default:
		return mailtpl.VerificationCode
	}
}

func (d *EmailDispatcher) publish(ctx context.Context, job mailer.EmailJob) error {
	if !d.Enabled {
		d.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Debug("email sending disabled; job skipped")
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return d.Pub.PublishJSON(c, job)
}

// SendCode enqueues a one-time code email. Failures are logged only.
func (d *EmailDispatcher) SendCode(ctx context.Context, name string, code *entity.VerificationCode) {
	data := mailtpl.NewCodeData(d.Cfg, emailTypeFor(code.Purpose), name, code.Email, code.Code, code.ExpiresAt)
	job := mailer.EmailJob{To: code.Email, Template: mailtpl.Universal, Data: data}
	if err := d.publish(ctx, job); err != nil {
		helpers.LogError(d.Logger, "enqueue code email failed", err, logrus.Fields{"to": code.Email, "purpose": code.Purpose})
	}
}

func (d *EmailDispatcher) SendWelcome(ctx context.Context, u *entity.User) {
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.Universal, Data: mailtpl.NewWelcomeData(d.Cfg, u.Pseudo, u.Email)}
	if err := d.publish(ctx, job); err != nil {
		helpers.LogError(d.Logger, "enqueue welcome email failed", err, logrus.Fields{"to": u.Email})
	}
}

// Broadcast enqueues one plain email per recipient and reports how many were queued.
func (d *EmailDispatcher) Broadcast(ctx context.Context, to []string, subject, text, html string) (int, error) {
	sent := 0
	for _, addr := range to {
		if err := d.publish(ctx, mailer.EmailJob{To: addr, Subject: subject, Text: text, HTML: html}); err != nil {
			return sent, internal(err, "enqueue email failed")
		}
		sent++
	}
	return sent, nil
}
