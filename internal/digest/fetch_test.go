package digest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/beancode/signalist-backend/internal/platform/finnhub"
)

type fakeResolver struct {
	symbols map[string][]string
	err     error
}

func (f *fakeResolver) SymbolsByEmail(_ context.Context, email string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.symbols[email], nil
}

type fakeNews struct {
	scoped       []finnhub.Article
	scopedErr    error
	general      []finnhub.Article
	generalErr   error
	scopedCalls  atomic.Int64
	generalCalls atomic.Int64
}

func (f *fakeNews) CompanyNews(_ context.Context, symbols []string, max int) ([]finnhub.Article, error) {
	f.scopedCalls.Add(1)
	if f.scopedErr != nil {
		return nil, f.scopedErr
	}
	out := f.scoped
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (f *fakeNews) GeneralNews(_ context.Context, max int) ([]finnhub.Article, error) {
	f.generalCalls.Add(1)
	if f.generalErr != nil {
		return nil, f.generalErr
	}
	out := f.general
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func fakeArticles(n int) []finnhub.Article {
	out := make([]finnhub.Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, finnhub.Article{ID: int64(i + 1), Headline: fmt.Sprintf("headline %d", i+1)})
	}
	return out
}

func TestBuildScopedFetchNoFallback(t *testing.T) {
	news := &fakeNews{scoped: fakeArticles(3), general: fakeArticles(6)}
	resolver := &fakeResolver{symbols: map[string][]string{"a@x.com": {"AAPL"}}}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}
	if len(bundles[0].Items) != 3 {
		t.Fatalf("expected the 3 scoped items, got %d", len(bundles[0].Items))
	}
	if news.generalCalls.Load() != 0 {
		t.Fatalf("expected no fallback call when scoped fetch has items")
	}
}

func TestBuildEmptyWatchlistFallsBack(t *testing.T) {
	news := &fakeNews{general: fakeArticles(8)}
	resolver := &fakeResolver{symbols: map[string][]string{}}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if news.scopedCalls.Load() != 0 {
		t.Fatalf("expected no scoped call for empty watchlist")
	}
	if news.generalCalls.Load() != 1 {
		t.Fatalf("expected exactly one fallback call, got %d", news.generalCalls.Load())
	}
	if len(bundles[0].Items) != MaxArticles {
		t.Fatalf("expected fallback capped at %d, got %d", MaxArticles, len(bundles[0].Items))
	}
}

func TestBuildScopedZeroMatchesFallsBack(t *testing.T) {
	news := &fakeNews{scoped: nil, general: fakeArticles(2)}
	resolver := &fakeResolver{symbols: map[string][]string{"a@x.com": {"OBSCURE"}}}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if news.scopedCalls.Load() != 1 || news.generalCalls.Load() != 1 {
		t.Fatalf("expected scoped then fallback, got scoped=%d general=%d",
			news.scopedCalls.Load(), news.generalCalls.Load())
	}
	if len(bundles[0].Items) != 2 {
		t.Fatalf("expected general items, got %d", len(bundles[0].Items))
	}
}

func TestBuildResolverErrorDegradesToFallback(t *testing.T) {
	news := &fakeNews{general: fakeArticles(1)}
	resolver := &fakeResolver{err: errors.New("lookup down")}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if len(bundles[0].Items) != 1 {
		t.Fatalf("expected fallback content despite resolver error, got %d items", len(bundles[0].Items))
	}
}

func TestBuildBothFetchesFailYieldsEmptyBundle(t *testing.T) {
	news := &fakeNews{scopedErr: errors.New("down"), generalErr: errors.New("down")}
	resolver := &fakeResolver{symbols: map[string][]string{"a@x.com": {"AAPL"}}}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if len(bundles) != 1 {
		t.Fatalf("stage must complete despite transport errors")
	}
	if len(bundles[0].Items) != 0 {
		t.Fatalf("expected empty bundle, got %d items", len(bundles[0].Items))
	}
}

func TestBuildBundleNeverExceedsCap(t *testing.T) {
	news := &fakeNews{scoped: fakeArticles(10)}
	resolver := &fakeResolver{symbols: map[string][]string{"a@x.com": {"AAPL"}}}
	b := NewBundleBuilder(testLogger(t), resolver, news, 4)

	bundles := b.Build(context.Background(), []Recipient{{ID: "1", Name: "A", Email: "a@x.com"}})
	if len(bundles[0].Items) > MaxArticles {
		t.Fatalf("bundle exceeds cap: %d", len(bundles[0].Items))
	}
}

func TestBuildKeepsRecipientOrderAndIsolation(t *testing.T) {
	news := &fakeNews{general: fakeArticles(2)}
	resolver := &fakeResolver{
		symbols: map[string][]string{"b@x.com": {"TSLA"}},
	}
	news.scoped = fakeArticles(1)
	b := NewBundleBuilder(testLogger(t), resolver, news, 2)

	recipients := []Recipient{
		{ID: "1", Name: "A", Email: "a@x.com"},
		{ID: "2", Name: "B", Email: "b@x.com"},
		{ID: "3", Name: "C", Email: "c@x.com"},
	}
	bundles := b.Build(context.Background(), recipients)
	if len(bundles) != 3 {
		t.Fatalf("expected a bundle per recipient")
	}
	for i, r := range recipients {
		if bundles[i].Recipient.Email != r.Email {
			t.Fatalf("bundle %d belongs to %s, want %s", i, bundles[i].Recipient.Email, r.Email)
		}
	}
}
