package digestrun

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/beancode/signalist-backend/internal/data/repos/runs"
	"github.com/beancode/signalist-backend/internal/digest"
	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

// DispatchInput carries the run date alongside the summaries so the
// dispatch step renders the same date the workflow decided on.
type DispatchInput struct {
	Date      string           `json:"date"`
	Summaries []digest.Summary `json:"summaries"`
}

// RunRecord is the persisted outcome of one run.
type RunRecord struct {
	Result         digest.RunResult `json:"result"`
	RecipientCount int              `json:"recipient_count"`
	SentCount      int              `json:"sent_count"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
}

// Activities hosts the digest pipeline stages behind Temporal activity
// boundaries. Stages keep their own failure isolation; activities only fail
// on wiring problems.
type Activities struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Directory  *digest.DirectoryReader
	Bundles    *digest.BundleBuilder
	Summarizer *digest.Summarizer
	Dispatcher *digest.Dispatcher
	Runs       runs.DigestRunRepo
}

func (a *Activities) LoadRecipients(ctx context.Context) ([]digest.Recipient, error) {
	if a == nil || a.Directory == nil {
		return nil, fmt.Errorf("digestrun: activities not configured")
	}
	return a.Directory.Load(ctx), nil
}

func (a *Activities) BuildBundles(ctx context.Context, recipients []digest.Recipient) ([]digest.Bundle, error) {
	if a == nil || a.Bundles == nil {
		return nil, fmt.Errorf("digestrun: activities not configured")
	}
	stop := startHeartbeat(ctx)
	defer stop()
	return a.Bundles.Build(ctx, recipients), nil
}

func (a *Activities) SummarizeBundles(ctx context.Context, bundles []digest.Bundle) ([]digest.Summary, error) {
	if a == nil || a.Summarizer == nil {
		return nil, fmt.Errorf("digestrun: activities not configured")
	}
	stop := startHeartbeat(ctx)
	defer stop()
	return a.Summarizer.Summarize(ctx, bundles), nil
}

func (a *Activities) DispatchSummaries(ctx context.Context, input DispatchInput) (int, error) {
	if a == nil || a.Dispatcher == nil {
		return 0, fmt.Errorf("digestrun: activities not configured")
	}
	stop := startHeartbeat(ctx)
	defer stop()
	return a.Dispatcher.Dispatch(ctx, input.Date, input.Summaries), nil
}

func (a *Activities) RecordRun(ctx context.Context, record RunRecord) error {
	if a == nil || a.Runs == nil || a.DB == nil {
		return fmt.Errorf("digestrun: activities not configured")
	}

	detail, err := datatypes.NewJSONType(record).MarshalJSON()
	if err != nil {
		detail = []byte("{}")
	}

	_, err = a.Runs.Create(ctx, a.DB, &types.DigestRun{
		ID:             uuid.New(),
		Succeeded:      record.Result.Succeeded,
		Message:        record.Result.Message,
		RecipientCount: record.RecipientCount,
		SentCount:      record.SentCount,
		StartedAt:      record.StartedAt,
		FinishedAt:     record.FinishedAt,
		Detail:         detail,
	})
	return err
}

// startHeartbeat records activity liveness while a fan-out stage runs.
func startHeartbeat(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
