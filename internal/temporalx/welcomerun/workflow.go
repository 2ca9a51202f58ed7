package welcomerun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/beancode/signalist-backend/internal/digest"
)

const (
	WorkflowName = "sign-up-email"

	ActivityGenerateIntro = "welcome.generate-intro"
	ActivitySendEmail     = "welcome.send-email"
)

// SignupEvent carries the signup attributes from the registration flow.
type SignupEvent struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country"`
	InvestmentGoals   string `json:"investmentGoals"`
	RiskTolerance     string `json:"riskTolerance"`
	PreferredIndustry string `json:"preferredIndustry"`
}

// Workflow is the one-recipient welcome flow: personalize an intro from the
// signup attributes, then send a single mail. The intro step degrades to a
// default text, so only the send step can fail the workflow.
func Workflow(ctx workflow.Context, event SignupEvent) (digest.RunResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	intro := digest.DefaultWelcomeIntro
	if err := workflow.ExecuteActivity(ctx, ActivityGenerateIntro, event).Get(ctx, &intro); err != nil {
		workflow.GetLogger(ctx).Warn("Welcome intro step failed; using default", "error", err)
		intro = digest.DefaultWelcomeIntro
	}

	send := SendInput{Event: event, Intro: intro}
	if err := workflow.ExecuteActivity(ctx, ActivitySendEmail, send).Get(ctx, nil); err != nil {
		return digest.RunResult{Succeeded: false, Message: "welcome email send failed"}, nil
	}

	return digest.RunResult{Succeeded: true, Message: digest.MsgWelcomeSent}, nil
}

// SendInput pairs the signup event with the resolved intro text.
type SendInput struct {
	Event SignupEvent `json:"event"`
	Intro string      `json:"intro"`
}
