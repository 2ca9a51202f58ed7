package welcomerun

import (
	"context"
	"fmt"

	"github.com/beancode/signalist-backend/internal/digest"
	"github.com/beancode/signalist-backend/internal/digest/prompts"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

type Activities struct {
	Log        *logger.Logger
	Summarizer *digest.Summarizer
	Dispatcher *digest.Dispatcher
}

// GenerateIntro personalizes the welcome intro. It never errors: inference
// failures fall back to the default text inside the summarizer.
func (a *Activities) GenerateIntro(ctx context.Context, event SignupEvent) (string, error) {
	if a == nil || a.Summarizer == nil {
		return "", fmt.Errorf("welcomerun: activities not configured")
	}
	return a.Summarizer.WelcomeIntro(ctx, prompts.UserProfile{
		Country:           event.Country,
		InvestmentGoals:   event.InvestmentGoals,
		RiskTolerance:     event.RiskTolerance,
		PreferredIndustry: event.PreferredIndustry,
	}), nil
}

func (a *Activities) SendEmail(ctx context.Context, input SendInput) error {
	if a == nil || a.Dispatcher == nil {
		return fmt.Errorf("welcomerun: activities not configured")
	}
	recipient := digest.Recipient{
		Name:  input.Event.Name,
		Email: input.Event.Email,
	}
	if !digest.EligibleRecipient(recipient.Name, recipient.Email) {
		return fmt.Errorf("welcomerun: signup event missing name or email")
	}
	return a.Dispatcher.SendWelcome(ctx, recipient, input.Intro)
}
