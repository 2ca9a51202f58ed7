package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/beancode/signalist-backend/internal/platform/envutil"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/temporalx"
	"github.com/beancode/signalist-backend/internal/temporalx/digestrun"
)

// Scheduler fires the daily digest workflow on a cron expression. The
// workflow ID embeds the run date, so a duplicate fire for the same day is
// rejected by the server instead of producing a second digest.
type Scheduler struct {
	log  *logger.Logger
	tc   temporalsdkclient.Client
	cfg  temporalx.Config
	spec string
	cron *cron.Cron
}

func New(log *logger.Logger, tc temporalsdkclient.Client) (*Scheduler, error) {
	if tc == nil {
		return nil, fmt.Errorf("scheduler: temporal client is not configured")
	}
	return &Scheduler{
		log:  log,
		tc:   tc,
		cfg:  temporalx.LoadConfig(),
		spec: envutil.String("DIGEST_CRON", "0 12 * * *"),
	}, nil
}

// Start registers the cron entry and begins ticking. It returns once the
// entry is scheduled; Stop tears it down.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(s.spec, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.TriggerDigest(runCtx); err != nil {
			s.log.Error("Scheduled digest trigger failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron spec %q: %w", s.spec, err)
	}

	c.Start()
	s.cron = c
	s.log.Info("Digest schedule registered", "cron", s.spec, "task_queue", s.cfg.TaskQueue)

	if ctx != nil {
		go func() {
			<-ctx.Done()
			s.Stop()
		}()
	}
	return nil
}

// TriggerDigest starts one digest workflow run. Used by the cron entry and
// by the manual HTTP trigger.
func (s *Scheduler) TriggerDigest(ctx context.Context) error {
	run, err := s.tc.ExecuteWorkflow(ctx, digestStartOptions(s.cfg, time.Now()), digestrun.WorkflowName)
	if err != nil {
		return fmt.Errorf("scheduler: start digest workflow: %w", err)
	}
	s.log.Info("Digest workflow started", "workflow_id", run.GetID(), "run_id", run.GetRunID())
	return nil
}

func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	s.log.Info("Digest schedule stopped")
}

// DigestWorkflowID derives the per-day workflow ID.
func DigestWorkflowID(t time.Time) string {
	return "daily-news-summary-" + t.UTC().Format("2006-01-02")
}

// digestStartOptions builds the start options for one digest run. The
// reject-duplicate reuse policy makes the per-day ID binding even after the
// first run for that day has completed.
func digestStartOptions(cfg temporalx.Config, now time.Time) temporalsdkclient.StartWorkflowOptions {
	return temporalsdkclient.StartWorkflowOptions{
		ID:                       DigestWorkflowID(now),
		TaskQueue:                cfg.TaskQueue,
		WorkflowExecutionTimeout: time.Hour,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
}
