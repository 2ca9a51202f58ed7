package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// newsSummaryPrompt turns a serialized article batch into digest body HTML.
// The {{newsData}} slot receives the articles as indented JSON.
const newsSummaryPrompt = `You are an expert financial analyst writing a personalized daily market brief for a retail investor.

Below is today's news data for the stocks this reader follows, as JSON:

{{newsData}}

Write a concise, friendly summary of what happened and why it matters. Rules:
- Lead with the single most consequential story.
- Group related items; never summarize articles one by one.
- Mention tickers in UPPERCASE the first time each appears.
- No investment advice, no price predictions, no disclaimers.
- Output clean HTML using only <h3>, <p>, <ul>, <li> and <strong> tags, no markdown and no <html> or <body> wrappers.
- Keep it under 300 words.`

// welcomeIntroPrompt personalizes the welcome email intro from signup
// attributes. The {{userProfile}} slot receives the profile lines.
const welcomeIntroPrompt = `You are writing the opening paragraph of a welcome email for Signalist, a stock market tracking app.

The new user's profile:
{{userProfile}}

Write 2-3 warm, personal sentences that reference their goals and interests. Plain text only, no greeting line and no sign-off, under 60 words.`

// NewsSummary builds the digest prompt for one recipient's article batch.
func NewsSummary(articles any) (string, error) {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("prompts: serialize articles: %w", err)
	}
	return strings.Replace(newsSummaryPrompt, "{{newsData}}", string(data), 1), nil
}

// UserProfile describes the signup attributes fed to the welcome prompt.
type UserProfile struct {
	Country           string
	InvestmentGoals   string
	RiskTolerance     string
	PreferredIndustry string
}

// WelcomeIntro builds the welcome-email personalization prompt.
func WelcomeIntro(p UserProfile) string {
	profile := fmt.Sprintf(
		"- Country: %s\n- Investment Goals: %s\n- Risk Tolerance: %s\n- Preferred Industry: %s",
		orUnspecified(p.Country),
		orUnspecified(p.InvestmentGoals),
		orUnspecified(p.RiskTolerance),
		orUnspecified(p.PreferredIndustry),
	)
	return strings.Replace(welcomeIntroPrompt, "{{userProfile}}", profile, 1)
}

func orUnspecified(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not specified"
	}
	return v
}
