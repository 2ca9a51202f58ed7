package digestrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/beancode/signalist-backend/internal/digest"
)

// Workflow runs one end-to-end digest: load the directory, gather per-user
// bundles, summarize, dispatch, record the outcome. Each stage is a named
// activity the server retries independently (at-least-once), so a dispatch
// re-run may resend mail already sent by a prior attempt; that trade-off is
// accepted. The workflow never fails: partial per-recipient trouble is
// absorbed by the stages and only the run-level result comes back.
func Workflow(ctx workflow.Context) (digest.RunResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	startedAt := workflow.Now(ctx).UTC()

	var recipients []digest.Recipient
	if err := workflow.ExecuteActivity(ctx, ActivityLoadRecipients).Get(ctx, &recipients); err != nil {
		return completeRun(ctx, startedAt, digest.RunResult{Succeeded: false, Message: digest.MsgNoRecipients}, 0, 0)
	}

	if len(recipients) == 0 {
		return completeRun(ctx, startedAt, digest.RunResult{Succeeded: false, Message: digest.MsgNoRecipients}, 0, 0)
	}

	var bundles []digest.Bundle
	if err := workflow.ExecuteActivity(ctx, ActivityBuildBundles, recipients).Get(ctx, &bundles); err != nil {
		return completeRun(ctx, startedAt,
			digest.RunResult{Succeeded: false, Message: "content fetch stage failed"}, len(recipients), 0)
	}

	var summaries []digest.Summary
	if err := workflow.ExecuteActivity(ctx, ActivitySummarize, bundles).Get(ctx, &summaries); err != nil {
		return completeRun(ctx, startedAt,
			digest.RunResult{Succeeded: false, Message: "summarize stage failed"}, len(recipients), 0)
	}

	input := DispatchInput{
		Date:      FormatRunDate(workflow.Now(ctx)),
		Summaries: summaries,
	}
	var sent int
	if err := workflow.ExecuteActivity(ctx, ActivityDispatch, input).Get(ctx, &sent); err != nil {
		return completeRun(ctx, startedAt,
			digest.RunResult{Succeeded: false, Message: "dispatch stage failed"}, len(recipients), 0)
	}

	return completeRun(ctx, startedAt, digest.RunResult{Succeeded: true, Message: digest.MsgDigestSent}, len(recipients), sent)
}

// completeRun persists the run record best-effort and yields the result.
// Recording is observability, not pipeline state; its failure never changes
// the outcome.
func completeRun(ctx workflow.Context, startedAt time.Time, result digest.RunResult, recipients, sent int) (digest.RunResult, error) {
	record := RunRecord{
		Result:         result,
		RecipientCount: recipients,
		SentCount:      sent,
		StartedAt:      startedAt,
		FinishedAt:     workflow.Now(ctx).UTC(),
	}
	recordCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 2},
	})
	if err := workflow.ExecuteActivity(recordCtx, ActivityRecordRun, record).Get(recordCtx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("Run record write failed", "error", err)
	}
	return result, nil
}

// FormatRunDate renders the run date the way it appears in subjects and
// message bodies.
func FormatRunDate(t time.Time) string {
	return t.UTC().Format("Monday, January 2, 2006")
}
