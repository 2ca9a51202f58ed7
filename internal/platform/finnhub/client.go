package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/beancode/signalist-backend/internal/platform/ctxutil"
	"github.com/beancode/signalist-backend/internal/platform/envutil"
	"github.com/beancode/signalist-backend/internal/platform/httpx"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

// Client fetches market news from Finnhub. Both calls return items in the
// upstream's order; callers cap counts but never re-sort.
type Client interface {
	// CompanyNews fetches recent news scoped to the given symbols,
	// interleaving results across symbols until max items are collected.
	CompanyNews(ctx context.Context, symbols []string, max int) ([]Article, error)
	// GeneralNews fetches the unscoped general market feed.
	GeneralNews(ctx context.Context, max int) ([]Article, error)
}

// Article is an upstream-owned record; the pipeline treats it as immutable.
type Article struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	LookbackDays  int
	CacheTTL      time.Duration
	PerSymbolTake int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:        strings.TrimSpace(os.Getenv("FINNHUB_API_KEY")),
		BaseURL:       strings.TrimSpace(os.Getenv("FINNHUB_BASE_URL")),
		Timeout:       envutil.Seconds("FINNHUB_TIMEOUT_SECONDS", 15),
		MaxRetries:    envutil.Int("FINNHUB_MAX_RETRIES", 3),
		LookbackDays:  envutil.Int("FINNHUB_LOOKBACK_DAYS", 5),
		CacheTTL:      envutil.Seconds("FINNHUB_CACHE_TTL_SECONDS", 300),
		PerSymbolTake: envutil.Int("FINNHUB_PER_SYMBOL_TAKE", 10),
	}
}

// New builds a Finnhub client. rdb is optional; when present, raw responses
// are cached for Config.CacheTTL so one run does not hammer the API with the
// same general-feed request per recipient.
func New(log *logger.Logger, cfg Config, rdb *goredis.Client) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing FINNHUB_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://finnhub.io"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 5
	}
	if cfg.PerSymbolTake <= 0 {
		cfg.PerSymbolTake = 10
	}

	return &client{
		log:        log.With("client", "FinnhubClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rdb:        rdb,
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	rdb        *goredis.Client
}

func (c *client) CompanyNews(ctx context.Context, symbols []string, max int) ([]Article, error) {
	if max <= 0 {
		return []Article{}, nil
	}

	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return []Article{}, nil
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -c.cfg.LookbackDays)

	perSymbol := make([][]Article, 0, len(cleaned))
	var lastErr error
	for _, sym := range cleaned {
		arts, err := c.companyNewsOne(ctx, sym, from, to)
		if err != nil {
			lastErr = err
			c.log.Warn("Company news fetch failed", "symbol", sym, "error", err)
			continue
		}
		if len(arts) > c.cfg.PerSymbolTake {
			arts = arts[:c.cfg.PerSymbolTake]
		}
		perSymbol = append(perSymbol, arts)
	}

	if len(perSymbol) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return interleave(perSymbol, max), nil
}

func (c *client) GeneralNews(ctx context.Context, max int) ([]Article, error) {
	if max <= 0 {
		return []Article{}, nil
	}
	q := url.Values{}
	q.Set("category", "general")
	arts, err := c.getArticles(ctx, "/api/v1/news", q, "finnhub:news:general")
	if err != nil {
		return nil, err
	}
	if len(arts) > max {
		arts = arts[:max]
	}
	return arts, nil
}

func (c *client) companyNewsOne(ctx context.Context, symbol string, from, to time.Time) ([]Article, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	cacheKey := fmt.Sprintf("finnhub:company-news:%s:%s", symbol, to.Format("2006-01-02"))
	return c.getArticles(ctx, "/api/v1/company-news", q, cacheKey)
}

// interleave round-robins across per-symbol result sets, deduping by URL,
// so one busy ticker cannot crowd the others out of a capped digest.
func interleave(sets [][]Article, max int) []Article {
	out := make([]Article, 0, max)
	seen := make(map[string]bool)
	for round := 0; len(out) < max; round++ {
		advanced := false
		for _, set := range sets {
			if round >= len(set) {
				continue
			}
			advanced = true
			a := set[round]
			key := a.URL
			if key == "" {
				key = fmt.Sprintf("%s#%d", a.Headline, a.ID)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a)
			if len(out) == max {
				break
			}
		}
		if !advanced {
			break
		}
	}
	return out
}

func (c *client) getArticles(ctx context.Context, path string, q url.Values, cacheKey string) ([]Article, error) {
	if raw, ok := c.cacheGet(ctx, cacheKey); ok {
		var arts []Article
		if err := json.Unmarshal(raw, &arts); err == nil {
			return arts, nil
		}
	}

	raw, err := c.do(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var arts []Article
	if err := json.Unmarshal(raw, &arts); err != nil {
		return nil, fmt.Errorf("finnhub: decode %s: %w", path, err)
	}

	c.cacheSet(ctx, cacheKey, raw)
	return arts, nil
}

func (c *client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.rdb == nil || key == "" {
		return nil, false
	}
	raw, err := c.rdb.Get(ctxutil.Default(ctx), key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Debug("News cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *client) cacheSet(ctx context.Context, key string, raw []byte) {
	if c.rdb == nil || key == "" || c.cfg.CacheTTL <= 0 {
		return
	}
	if err := c.rdb.Set(ctxutil.Default(ctx), key, raw, c.cfg.CacheTTL).Err(); err != nil {
		c.log.Debug("News cache write failed", "key", key, "error", err)
	}
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "finnhub: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("finnhub http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, path string, q url.Values) ([]byte, error) {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, q)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("Finnhub request retrying",
			"path", path,
			"attempt", attempt+1,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, errors.New("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, path string, q url.Values) (*http.Response, []byte, error) {
	u := c.cfg.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("X-Finnhub-Token", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
