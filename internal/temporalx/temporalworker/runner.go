package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/beancode/signalist-backend/internal/platform/envutil"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/temporalx"
	"github.com/beancode/signalist-backend/internal/temporalx/digestrun"
	"github.com/beancode/signalist-backend/internal/temporalx/welcomerun"
)

// Runner hosts the Temporal worker polling the signalist task queue.
type Runner struct {
	log *logger.Logger
	tc  temporalsdkclient.Client

	digestActs  *digestrun.Activities
	welcomeActs *welcomerun.Activities
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	digestActs *digestrun.Activities,
	welcomeActs *welcomerun.Activities,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if digestActs == nil || welcomeActs == nil {
		return nil, fmt.Errorf("temporal worker missing activities")
	}
	return &Runner{
		log:         log,
		tc:          tc,
		digestActs:  digestActs,
		welcomeActs: welcomeActs,
	}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	maxWait := envutil.Seconds("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)
	backoff := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MS", 250)
	backoffMax := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)

	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}

		w.Stop()

		// A missing namespace may heal when auto-registration is on.
		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
			_ = temporalx.EnsureNamespace(ctx, cfg, r.log)
		}

		if maxWait <= 0 || time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}

		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		}
		time.Sleep(clampBackoff(backoff, backoffMax, attempt))
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	w.RegisterWorkflowWithOptions(digestrun.Workflow, workflow.RegisterOptions{Name: digestrun.WorkflowName})
	w.RegisterActivityWithOptions(r.digestActs.LoadRecipients, activity.RegisterOptions{Name: digestrun.ActivityLoadRecipients})
	w.RegisterActivityWithOptions(r.digestActs.BuildBundles, activity.RegisterOptions{Name: digestrun.ActivityBuildBundles})
	w.RegisterActivityWithOptions(r.digestActs.SummarizeBundles, activity.RegisterOptions{Name: digestrun.ActivitySummarize})
	w.RegisterActivityWithOptions(r.digestActs.DispatchSummaries, activity.RegisterOptions{Name: digestrun.ActivityDispatch})
	w.RegisterActivityWithOptions(r.digestActs.RecordRun, activity.RegisterOptions{Name: digestrun.ActivityRecordRun})

	w.RegisterWorkflowWithOptions(welcomerun.Workflow, workflow.RegisterOptions{Name: welcomerun.WorkflowName})
	w.RegisterActivityWithOptions(r.welcomeActs.GenerateIntro, activity.RegisterOptions{Name: welcomerun.ActivityGenerateIntro})
	w.RegisterActivityWithOptions(r.welcomeActs.SendEmail, activity.RegisterOptions{Name: welcomerun.ActivitySendEmail})

	return w
}

func clampBackoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}
