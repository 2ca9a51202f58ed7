package digest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beancode/signalist-backend/internal/platform/sendgrid"
)

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sendgrid.SendEmailRequest
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(req.To) > 0 && f.failFor[req.To[0].Email] {
		return nil, errors.New("smtp rejected")
	}
	f.sent = append(f.sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}

func (f *fakeMailer) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, r := range f.sent {
		out = append(out, r.To[0].Email)
	}
	return out
}

func TestDispatchSkipsAbsentSummaries(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(testLogger(t), mailer, 4)

	sent := d.Dispatch(context.Background(), "Friday, August 28, 2026", []Summary{
		{Recipient: Recipient{ID: "1", Name: "A", Email: "a@x.com"}, Text: "<p>news</p>"},
		{Recipient: Recipient{ID: "2", Name: "B", Email: "b@x.com"}}, // absent
	})

	if sent != 1 {
		t.Fatalf("expected 1 send, got %d", sent)
	}
	to := mailer.sentTo()
	if len(to) != 1 || to[0] != "a@x.com" {
		t.Fatalf("absent summary must never trigger a send, sent to %v", to)
	}
}

func TestDispatchFailureIsolation(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]bool{"b@x.com": true}}
	d := NewDispatcher(testLogger(t), mailer, 4)

	summaries := []Summary{
		{Recipient: Recipient{ID: "1", Name: "A", Email: "a@x.com"}, Text: "<p>a</p>"},
		{Recipient: Recipient{ID: "2", Name: "B", Email: "b@x.com"}, Text: "<p>b</p>"},
		{Recipient: Recipient{ID: "3", Name: "C", Email: "c@x.com"}, Text: "<p>c</p>"},
	}
	sent := d.Dispatch(context.Background(), "Friday, August 28, 2026", summaries)

	if sent != 2 {
		t.Fatalf("expected 2 successful sends around the failure, got %d", sent)
	}
	to := map[string]bool{}
	for _, e := range mailer.sentTo() {
		to[e] = true
	}
	if !to["a@x.com"] || !to["c@x.com"] || to["b@x.com"] {
		t.Fatalf("unexpected send set: %v", mailer.sentTo())
	}
}

func TestDispatchRendersRecipientFields(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(testLogger(t), mailer, 1)

	d.Dispatch(context.Background(), "Monday, August 31, 2026", []Summary{
		{Recipient: Recipient{ID: "1", Name: "Ada", Email: "ada@x.com"}, Text: "<p>news</p>"},
	})

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one send")
	}
	req := mailer.sent[0]
	if req.To[0].Name != "Ada" {
		t.Fatalf("expected recipient name on envelope")
	}
	if req.Subject != "Your Daily Market News Summary - Monday, August 31, 2026" {
		t.Fatalf("unexpected subject %q", req.Subject)
	}
}

func TestSendWelcome(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(testLogger(t), mailer, 1)

	err := d.SendWelcome(context.Background(), Recipient{ID: "1", Name: "Ada", Email: "ada@x.com"}, "Glad you joined.")
	if err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Subject != "Welcome to Signalist - your stock market toolkit is ready!" {
		t.Fatalf("unexpected welcome send: %+v", mailer.sent)
	}
}

func TestSendWelcomeFailurePropagates(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]bool{"ada@x.com": true}}
	d := NewDispatcher(testLogger(t), mailer, 1)

	if err := d.SendWelcome(context.Background(), Recipient{ID: "1", Name: "Ada", Email: "ada@x.com"}, "hi"); err == nil {
		t.Fatalf("expected send error to propagate for the one-recipient flow")
	}
}
