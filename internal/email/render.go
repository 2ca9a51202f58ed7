// Package email renders the outbound message bodies from explicit field
// structs. Required fields are validated before rendering so a half-filled
// message can never reach the mail transport.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var (
	digestTmpl  = template.Must(template.New("digest").Parse(digestHTMLTemplate))
	welcomeTmpl = template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
)

// Message is a fully rendered outbound email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// DigestFields feeds the daily digest template. NewsContent is
// model-produced HTML and is injected as-is.
type DigestFields struct {
	Date        string
	NewsContent string
}

func (f DigestFields) validate() error {
	if strings.TrimSpace(f.Date) == "" {
		return fmt.Errorf("email: digest Date required")
	}
	if strings.TrimSpace(f.NewsContent) == "" {
		return fmt.Errorf("email: digest NewsContent required")
	}
	return nil
}

// RenderDigest produces the daily digest message for one recipient.
func RenderDigest(f DigestFields) (Message, error) {
	if err := f.validate(); err != nil {
		return Message{}, err
	}

	var buf bytes.Buffer
	err := digestTmpl.Execute(&buf, struct {
		Date        string
		NewsContent template.HTML
	}{
		Date:        f.Date,
		NewsContent: template.HTML(f.NewsContent),
	})
	if err != nil {
		return Message{}, fmt.Errorf("email: render digest: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("Your Daily Market News Summary - %s", f.Date),
		Text:    fmt.Sprintf("Here is your market news summary for %s", f.Date),
		HTML:    buf.String(),
	}, nil
}

// WelcomeFields feeds the welcome template. Intro is plain text from the
// personalization step and is escaped on render.
type WelcomeFields struct {
	Name  string
	Intro string
}

func (f WelcomeFields) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("email: welcome Name required")
	}
	if strings.TrimSpace(f.Intro) == "" {
		return fmt.Errorf("email: welcome Intro required")
	}
	return nil
}

// RenderWelcome produces the signup welcome message.
func RenderWelcome(f WelcomeFields) (Message, error) {
	if err := f.validate(); err != nil {
		return Message{}, err
	}

	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, f); err != nil {
		return Message{}, fmt.Errorf("email: render welcome: %w", err)
	}

	return Message{
		Subject: "Welcome to Signalist - your stock market toolkit is ready!",
		Text:    "Thanks for joining Signalist",
		HTML:    buf.String(),
	}, nil
}
