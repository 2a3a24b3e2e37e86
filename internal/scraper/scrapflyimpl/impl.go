package scrapflyimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/fx"

	"github.com/icewatch/x-monitor/internal/scraper"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
	"github.com/icewatch/x-monitor/pkg/retry"
)

const (
	defaultAPIURL = "https://api.scrapfly.io/scrape"

	// The marker X's web app renders when it crashes inside the headless
	// browser. The page loads fine but carries no timeline, so the scrape
	// has to be retried.
	crashMarker = "Something went wrong, but"

	timelineOperation = "UserTweets"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type ScrapflyImpl struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// New builds the Scrapfly client. Construction fails when no API key is
// configured for the selected mode; a missing credential must never degrade
// into silent no-op scrapes.
func New(opts Opts) (*ScrapflyImpl, error) {
	key := opts.Config.ScrapflyKey()
	if key == "" {
		if opts.Config.Scrapfly.UseTest {
			return nil, fmt.Errorf("SCRAPFLY_USE_TEST is set but SCRAPFLY_TEST_KEY is empty")
		}
		return nil, fmt.Errorf("SCRAPFLY_KEY is not set (or set SCRAPFLY_USE_TEST=true with SCRAPFLY_TEST_KEY)")
	}

	return &ScrapflyImpl{
		apiURL: defaultAPIURL,
		apiKey: key,
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
		logger: opts.Logger.WithComponent("ScrapflyClient"),
	}, nil
}

var _ scraper.Client = (*ScrapflyImpl)(nil)

// scrapeResponse is the slice of Scrapfly's response envelope we care about:
// the rendered page content and the captured browser network exchanges.
type scrapeResponse struct {
	Result struct {
		Content     string `json:"content"`
		BrowserData struct {
			XhrCalls []xhrCall `json:"xhr_call"`
		} `json:"browser_data"`
	} `json:"result"`
}

type xhrCall struct {
	URL      string       `json:"url"`
	Response *xhrResponse `json:"response"`
}

type xhrResponse struct {
	Body string `json:"body"`
}

func (s *ScrapflyImpl) FetchTimeline(ctx context.Context, handle string) ([]scraper.RawTweet, error) {
	handle = NormalizeHandle(handle)
	if handle == "" {
		return nil, fmt.Errorf("empty handle")
	}

	var result scrapeResponse
	operation := func() error {
		res, err := s.scrapeProfile(ctx, handle)
		if err != nil {
			// Only a rendered crash page is worth retrying blindly; anything
			// else (auth failure, quota, network) propagates immediately.
			if errors.Is(err, scraper.ErrAppCrashed) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = *res
		return nil
	}

	if err := retry.Do(ctx, s.logger, "scrape profile "+handle, operation, retry.DefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to scrape profile %s: %w", handle, err)
	}

	tweets := extractTimeline(result.Result.BrowserData.XhrCalls, handle, s.logger)
	s.logger.Debug("Extracted raw tweets", "handle", handle, "count", len(tweets))
	return tweets, nil
}

func (s *ScrapflyImpl) scrapeProfile(ctx context.Context, handle string) (*scrapeResponse, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("url", "https://x.com/"+handle)
	q.Set("asp", "true")
	q.Set("render_js", "true")
	q.Set("auto_scroll", "true")
	q.Set("lang", "en-US")
	q.Set("wait_for_selector", "xhr:"+timelineOperation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scrape request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scrape response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result scrapeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode scrape response: %w", err)
	}

	if strings.Contains(result.Result.Content, crashMarker) {
		return nil, scraper.ErrAppCrashed
	}

	return &result, nil
}

// NormalizeHandle strips whitespace and a leading "@" so the handle can be
// embedded in a profile URL.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
