package digest

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/beancode/signalist-backend/internal/data/repos/watchlist"
	"github.com/beancode/signalist-backend/internal/platform/finnhub"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

// SymbolResolver maps a recipient's email to the symbols they track.
type SymbolResolver interface {
	SymbolsByEmail(ctx context.Context, email string) ([]string, error)
}

// WatchlistResolver adapts the watchlist repo to the pipeline's resolver
// contract.
type WatchlistResolver struct {
	log  *logger.Logger
	db   *gorm.DB
	repo watchlist.WatchlistRepo
}

func NewWatchlistResolver(log *logger.Logger, db *gorm.DB, repo watchlist.WatchlistRepo) *WatchlistResolver {
	return &WatchlistResolver{
		log:  log.With("component", "WatchlistResolver"),
		db:   db,
		repo: repo,
	}
}

func (w *WatchlistResolver) SymbolsByEmail(ctx context.Context, email string) ([]string, error) {
	return w.repo.SymbolsByEmail(ctx, w.db, email)
}

// BundleBuilder resolves each recipient's watchlist and gathers their
// article bundle, falling back to the general feed whenever the scoped
// fetch yields nothing.
type BundleBuilder struct {
	log         *logger.Logger
	resolver    SymbolResolver
	news        finnhub.Client
	concurrency int
}

func NewBundleBuilder(log *logger.Logger, resolver SymbolResolver, news finnhub.Client, concurrency int) *BundleBuilder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BundleBuilder{
		log:         log.With("component", "BundleBuilder"),
		resolver:    resolver,
		news:        news,
		concurrency: concurrency,
	}
}

// Build gathers one bundle per recipient. Recipient units run independently;
// any per-recipient failure degrades that bundle (fallback content or empty
// items) and never aborts the stage.
func (b *BundleBuilder) Build(ctx context.Context, recipients []Recipient) []Bundle {
	bundles := make([]Bundle, len(recipients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, r := range recipients {
		g.Go(func() error {
			bundles[i] = b.buildOne(gctx, r)
			return nil
		})
	}
	_ = g.Wait()

	return bundles
}

func (b *BundleBuilder) buildOne(ctx context.Context, r Recipient) Bundle {
	symbols, err := b.resolver.SymbolsByEmail(ctx, r.Email)
	if err != nil {
		// Degrades into the general-feed path below.
		b.log.Warn("Watchlist lookup failed", "email", r.Email, "error", err)
		symbols = nil
	}

	var items []finnhub.Article
	if len(symbols) > 0 {
		items, err = b.news.CompanyNews(ctx, symbols, MaxArticles)
		if err != nil {
			b.log.Warn("Scoped news fetch failed", "email", r.Email, "symbols", symbols, "error", err)
			items = nil
		}
	}

	// Unconditional fallback: no watchlist and no matching news look the
	// same here, both get general market content.
	if len(items) == 0 {
		items, err = b.news.GeneralNews(ctx, MaxArticles)
		if err != nil {
			b.log.Warn("General news fetch failed", "email", r.Email, "error", err)
			items = nil
		}
	}

	if len(items) > MaxArticles {
		items = items[:MaxArticles]
	}
	if items == nil {
		items = []finnhub.Article{}
	}
	return Bundle{Recipient: r, Items: items}
}
