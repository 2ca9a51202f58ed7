package digestrun

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/beancode/signalist-backend/internal/digest"
)

// newEnv registers the activity types under their workflow-visible names so
// the per-test mocks can bind to them.
func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()

	acts := &Activities{}
	env.RegisterActivityWithOptions(acts.LoadRecipients, activity.RegisterOptions{Name: ActivityLoadRecipients})
	env.RegisterActivityWithOptions(acts.BuildBundles, activity.RegisterOptions{Name: ActivityBuildBundles})
	env.RegisterActivityWithOptions(acts.SummarizeBundles, activity.RegisterOptions{Name: ActivitySummarize})
	env.RegisterActivityWithOptions(acts.DispatchSummaries, activity.RegisterOptions{Name: ActivityDispatch})
	env.RegisterActivityWithOptions(acts.RecordRun, activity.RegisterOptions{Name: ActivityRecordRun})
	return env
}

func TestWorkflowNoRecipients(t *testing.T) {
	env := newEnv(t)

	// Only the directory load and the run record are mocked; any other stage
	// running would error on unconfigured dependencies and change the
	// asserted message.
	env.OnActivity(ActivityLoadRecipients, mock.Anything).
		Return([]digest.Recipient{}, nil)

	var recorded RunRecord
	env.OnActivity(ActivityRecordRun, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, record RunRecord) error {
			recorded = record
			return nil
		})

	env.ExecuteWorkflow(Workflow)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result digest.RunResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.False(t, result.Succeeded)
	require.Equal(t, "no recipients", result.Message)

	require.Equal(t, 0, recorded.RecipientCount)
	require.Equal(t, 0, recorded.SentCount)
}

func TestWorkflowHappyPath(t *testing.T) {
	env := newEnv(t)

	recipients := []digest.Recipient{
		{ID: "1", Name: "A", Email: "a@x.com"},
		{ID: "2", Name: "B", Email: "b@x.com"},
	}
	bundles := []digest.Bundle{
		{Recipient: recipients[0]},
		{Recipient: recipients[1]},
	}
	summaries := []digest.Summary{
		{Recipient: recipients[0], Text: "<p>a</p>"},
		{Recipient: recipients[1]}, // absent; dispatcher skips it
	}

	env.OnActivity(ActivityLoadRecipients, mock.Anything).Return(recipients, nil)
	env.OnActivity(ActivityBuildBundles, mock.Anything, recipients).Return(bundles, nil)
	env.OnActivity(ActivitySummarize, mock.Anything, bundles).Return(summaries, nil)

	var dispatched DispatchInput
	env.OnActivity(ActivityDispatch, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, input DispatchInput) (int, error) {
			dispatched = input
			return 1, nil
		})

	var recorded RunRecord
	env.OnActivity(ActivityRecordRun, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, record RunRecord) error {
			recorded = record
			return nil
		})

	env.ExecuteWorkflow(Workflow)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result digest.RunResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.True(t, result.Succeeded)
	require.Equal(t, "news summary emails sent", result.Message)

	require.Len(t, dispatched.Summaries, 2)
	require.NotEmpty(t, dispatched.Date)

	require.Equal(t, 2, recorded.RecipientCount)
	require.Equal(t, 1, recorded.SentCount)
	require.True(t, recorded.Result.Succeeded)
}

func TestWorkflowAbsorbsStageFailure(t *testing.T) {
	env := newEnv(t)

	recipients := []digest.Recipient{{ID: "1", Name: "A", Email: "a@x.com"}}
	env.OnActivity(ActivityLoadRecipients, mock.Anything).Return(recipients, nil)
	env.OnActivity(ActivityBuildBundles, mock.Anything, mock.Anything).
		Return([]digest.Bundle(nil), temporalTestError{})
	env.OnActivity(ActivityRecordRun, mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(Workflow)

	require.True(t, env.IsWorkflowCompleted())
	// The run never raises past the orchestrator; it reports a structured
	// result instead.
	require.NoError(t, env.GetWorkflowError())

	var result digest.RunResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.False(t, result.Succeeded)
	require.Equal(t, "content fetch stage failed", result.Message)
}

func TestWorkflowRecordFailureDoesNotChangeResult(t *testing.T) {
	env := newEnv(t)

	env.OnActivity(ActivityLoadRecipients, mock.Anything).Return([]digest.Recipient{}, nil)
	env.OnActivity(ActivityRecordRun, mock.Anything, mock.Anything).Return(temporalTestError{})

	env.ExecuteWorkflow(Workflow)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result digest.RunResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, "no recipients", result.Message)
}

func TestFormatRunDate(t *testing.T) {
	ts := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "Friday, August 28, 2026", FormatRunDate(ts))
}

type temporalTestError struct{}

func (temporalTestError) Error() string { return "stage blew up" }
