package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beancode/signalist-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(log, Config{
		APIKey:           "SG.test",
		BaseURL:          srv.URL,
		DefaultFromEmail: "signalist@beancode.pro",
		DefaultFromName:  "Signalist",
		MaxRetries:       1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSendBuildsWirePayload(t *testing.T) {
	var got mailSendRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer SG.test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("X-Message-Id", "msg-123")
		w.WriteHeader(http.StatusAccepted)
	}))

	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "a@x.com", Name: "A"}},
		Subject: "Your Daily Market News Summary - Friday, August 28, 2026",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "msg-123" || res.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected result: %+v", res)
	}

	if got.From.Email != "signalist@beancode.pro" {
		t.Fatalf("expected default from, got %q", got.From.Email)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "a@x.com" {
		t.Fatalf("unexpected personalizations: %+v", got.Personalizations)
	}
	if len(got.Content) != 2 || got.Content[0].Type != "text/plain" || got.Content[1].Type != "text/html" {
		t.Fatalf("unexpected content: %+v", got.Content)
	}
}

func TestSendValidatesRequest(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not reach upstream")
	}))

	if _, err := c.Send(context.Background(), SendEmailRequest{Subject: "s", Text: "t"}); err == nil {
		t.Fatalf("expected error for missing To")
	}
	if _, err := c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@x.com"}}, Text: "t"}); err == nil {
		t.Fatalf("expected error for missing Subject")
	}
	if _, err := c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@x.com"}}, Subject: "s"}); err == nil {
		t.Fatalf("expected error for missing content")
	}
}

func TestSendSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))

	_, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "a@x.com"}},
		Subject: "s",
		Text:    "t",
	})
	if err == nil {
		t.Fatalf("expected error on 401")
	}
}
