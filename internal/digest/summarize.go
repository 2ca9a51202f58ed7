package digest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/beancode/signalist-backend/internal/digest/prompts"
	"github.com/beancode/signalist-backend/internal/platform/gemini"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

// DefaultWelcomeIntro is sent when welcome personalization fails; the
// welcome mail goes out regardless.
const DefaultWelcomeIntro = "Thanks for joining Signalist. You now have the tools to track markets and make smarter moves."

// Summarizer turns article bundles into digest prose via one inference call
// per recipient.
type Summarizer struct {
	log         *logger.Logger
	llm         gemini.Client
	concurrency int
}

func NewSummarizer(log *logger.Logger, llm gemini.Client, concurrency int) *Summarizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Summarizer{
		log:         log.With("component", "Summarizer"),
		llm:         llm,
		concurrency: concurrency,
	}
}

// Summarize produces one summary per bundle. Each recipient's inference call
// is independent; a failure yields an absent summary for that recipient only
// and the stage always completes for everyone.
func (s *Summarizer) Summarize(ctx context.Context, bundles []Bundle) []Summary {
	summaries := make([]Summary, len(bundles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, bundle := range bundles {
		g.Go(func() error {
			summaries[i] = s.summarizeOne(gctx, bundle)
			return nil
		})
	}
	_ = g.Wait()

	return summaries
}

func (s *Summarizer) summarizeOne(ctx context.Context, bundle Bundle) Summary {
	out := Summary{Recipient: bundle.Recipient}

	prompt, err := prompts.NewsSummary(bundle.Items)
	if err != nil {
		s.log.Error("Digest prompt build failed", "email", bundle.Recipient.Email, "error", err)
		return out
	}

	text, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		// Absent summary; excluded from dispatch, not retried this run.
		s.log.Warn("Digest summarization failed", "email", bundle.Recipient.Email, "error", err)
		return out
	}

	out.Text = text
	return out
}

// WelcomeIntro runs the one-recipient welcome variant: personalize an intro
// from signup attributes, with a literal fallback so the welcome mail is
// never blocked by inference failures.
func (s *Summarizer) WelcomeIntro(ctx context.Context, profile prompts.UserProfile) string {
	text, err := s.llm.GenerateText(ctx, prompts.WelcomeIntro(profile))
	if err != nil {
		s.log.Warn("Welcome intro personalization failed; using default", "error", err)
		return DefaultWelcomeIntro
	}
	return text
}
