package email

import (
	"strings"
	"testing"
)

func TestRenderDigest(t *testing.T) {
	msg, err := RenderDigest(DigestFields{
		Date:        "Friday, August 28, 2026",
		NewsContent: "<h3>Markets rallied</h3><p>AAPL led gains.</p>",
	})
	if err != nil {
		t.Fatalf("RenderDigest: %v", err)
	}

	if msg.Subject != "Your Daily Market News Summary - Friday, August 28, 2026" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "<h3>Markets rallied</h3>") {
		t.Fatalf("expected model HTML injected unescaped")
	}
	if !strings.Contains(msg.HTML, "Friday, August 28, 2026") {
		t.Fatalf("expected date in body")
	}
	if !strings.Contains(msg.Text, "Friday, August 28, 2026") {
		t.Fatalf("expected date in plain text")
	}
}

func TestRenderDigestRejectsMissingFields(t *testing.T) {
	if _, err := RenderDigest(DigestFields{NewsContent: "<p>x</p>"}); err == nil {
		t.Fatalf("expected error for missing Date")
	}
	if _, err := RenderDigest(DigestFields{Date: "today"}); err == nil {
		t.Fatalf("expected error for missing NewsContent")
	}
	if _, err := RenderDigest(DigestFields{Date: "  ", NewsContent: "  "}); err == nil {
		t.Fatalf("expected whitespace-only fields to be rejected")
	}
}

func TestRenderWelcome(t *testing.T) {
	msg, err := RenderWelcome(WelcomeFields{
		Name:  "Ada",
		Intro: "Great to have you tracking <tech> stocks.",
	})
	if err != nil {
		t.Fatalf("RenderWelcome: %v", err)
	}

	if !strings.Contains(msg.HTML, "Welcome aboard, Ada") {
		t.Fatalf("expected name substitution")
	}
	// Intro is plain text from the model; markup must be escaped.
	if strings.Contains(msg.HTML, "<tech>") {
		t.Fatalf("expected intro to be HTML-escaped")
	}
	if !strings.Contains(msg.HTML, "&lt;tech&gt;") {
		t.Fatalf("expected escaped intro content")
	}
}

func TestRenderWelcomeRejectsMissingFields(t *testing.T) {
	if _, err := RenderWelcome(WelcomeFields{Intro: "hi"}); err == nil {
		t.Fatalf("expected error for missing Name")
	}
	if _, err := RenderWelcome(WelcomeFields{Name: "Ada"}); err == nil {
		t.Fatalf("expected error for missing Intro")
	}
}
