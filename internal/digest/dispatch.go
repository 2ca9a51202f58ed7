package digest

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/beancode/signalist-backend/internal/email"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/platform/sendgrid"
)

// Dispatcher renders and sends per-recipient messages concurrently. Sends
// are fire-and-forget relative to each other: no ordering, no cross-recipient
// atomicity, and one failed send never cancels its siblings.
type Dispatcher struct {
	log         *logger.Logger
	mail        sendgrid.Client
	concurrency int
}

func NewDispatcher(log *logger.Logger, mail sendgrid.Client, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		log:         log.With("component", "Dispatcher"),
		mail:        mail,
		concurrency: concurrency,
	}
}

// Dispatch sends the digest to every recipient with a usable summary and
// returns how many sends succeeded. Absent summaries are skipped without a
// send call; send failures are logged and skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, date string, summaries []Summary) int {
	var sent atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, summary := range summaries {
		if summary.Absent() {
			d.log.Debug("Skipping recipient with absent summary", "email", summary.Recipient.Email)
			continue
		}
		g.Go(func() error {
			if d.sendOne(gctx, date, summary) {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(sent.Load())
}

func (d *Dispatcher) sendOne(ctx context.Context, date string, summary Summary) bool {
	msg, err := email.RenderDigest(email.DigestFields{
		Date:        date,
		NewsContent: summary.Text,
	})
	if err != nil {
		d.log.Error("Digest render failed", "email", summary.Recipient.Email, "error", err)
		return false
	}

	_, err = d.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: summary.Recipient.Email, Name: summary.Recipient.Name}},
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		Categories: []string{"daily-news-summary"},
	})
	if err != nil {
		d.log.Error("Digest send failed", "email", summary.Recipient.Email, "error", err)
		return false
	}

	d.log.Info("Digest sent", "email", summary.Recipient.Email)
	return true
}

// SendWelcome delivers the one-recipient welcome message.
func (d *Dispatcher) SendWelcome(ctx context.Context, recipient Recipient, intro string) error {
	msg, err := email.RenderWelcome(email.WelcomeFields{
		Name:  recipient.Name,
		Intro: intro,
	})
	if err != nil {
		return err
	}

	_, err = d.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: recipient.Email, Name: recipient.Name}},
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		Categories: []string{"welcome"},
	})
	if err != nil {
		return err
	}

	d.log.Info("Welcome email sent", "email", recipient.Email)
	return nil
}
