// Package rates fetches Iranian market exchange rates from the Navasan API
// and caches them in the store.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mowziolabs/mowzio/internal/store"
)

const (
	defaultAPIBase = "http://api.navasan.tech"

	cacheKey       = "exchange_rates"
	cacheTTL       = 2 * time.Hour
	requestTimeout = 10 * time.Second
)

// User-facing failure messages.
const (
	ErrMsgFetchFailed = "Looks like the market hamsters are on a coffee break. Couldn't fetch the rates just now!"
	ErrMsgCache       = "The cache seems to be playing hide-and-seek. Couldn't retrieve rates due to cache shenanigans."
	ErrMsgUnexpected  = "Uh oh! Something went sideways in the matrix while fetching rates. Maybe try again?"
)

// FetchError marks a failure talking to the Navasan API, as opposed to a
// store failure. Callers pick the user-facing message by error type.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// Item is one displayed exchange rate. Price is nil when the API had no
// usable value for it.
type Item struct {
	Icon  string `json:"icon"`
	Name  string `json:"name"`
	Price *int64 `json:"price"`
}

// watched maps Navasan response keys to display icon and name.
var watched = []struct {
	key  string
	icon string
	name string
}{
	{"usd", "🇺🇸", "USD"},
	{"eur", "🇪🇺", "EUR"},
	{"sekkeh", "🪙", "Emami"},
	{"bahar", "🪙", "Azadi"},
	{"nim", "🪙", "Half Azadi"},
	{"rob", "🪙", "Quarter Azadi"},
	{"18ayar", "✨", "Gold 18"},
}

// Service fetches and caches exchange rates.
type Service struct {
	apiKey     string
	apiBase    string
	store      store.Store
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewService(apiKey string, s store.Store, logger *zap.SugaredLogger) *Service {
	return &Service{
		apiKey:     apiKey,
		apiBase:    defaultAPIBase,
		store:      s,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// SetAPIBase overrides the Navasan endpoint. Tests point it at a local fake.
func (s *Service) SetAPIBase(base string) { s.apiBase = base }

// Latest returns current rates, served from cache when fresh.
func (s *Service) Latest(ctx context.Context) ([]Item, error) {
	cached, ok, err := s.store.Get(cacheKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var items []Item
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			s.logger.Infow("cache hit for exchange rates")
			return items, nil
		}
		// Corrupt cache entries are dropped and refetched.
		s.logger.Warnw("dropping unreadable exchange rate cache entry")
		_ = s.store.Delete(cacheKey)
	}

	s.logger.Infow("cache miss for exchange rates, fetching fresh data")
	items, err := s.fetch(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	s.cache(items)
	return items, nil
}

// cache stores items; failures are logged, not returned, because the caller
// already has the data.
func (s *Service) cache(items []Item) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Errorw("failed to serialize exchange rates for caching", "error", err)
		return
	}
	if err := s.store.Set(cacheKey, string(data), cacheTTL); err != nil {
		s.logger.Errorw("failed to cache fresh exchange rates", "error", err)
		return
	}
	s.logger.Infow("cached fresh exchange rates", "ttl", cacheTTL)
}

type navasanEntry struct {
	Value string `json:"value"`
}

func (s *Service) fetch(ctx context.Context) ([]Item, error) {
	url := fmt.Sprintf("%s/latest/?api_key=%s", s.apiBase, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rates: navasan returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rates: read response: %w", err)
	}

	var data map[string]navasanEntry
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("rates: parse response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("rates: empty response from navasan")
	}

	items := make([]Item, 0, len(watched))
	var failed []string
	for _, w := range watched {
		item := Item{Icon: w.icon, Name: w.name}
		if raw, ok := data[w.key]; ok && raw.Value != "" {
			if price, err := strconv.ParseInt(raw.Value, 10, 64); err == nil {
				item.Price = &price
			}
		}
		if item.Price == nil {
			failed = append(failed, item.Name)
		}
		items = append(items, item)
	}
	if len(failed) > 0 {
		s.logger.Warnw("could not extract prices", "items", strings.Join(failed, ", "))
	}
	return items, nil
}

// FormatHTML renders rates for a Telegram HTML-mode message.
func FormatHTML(items []Item) string {
	lines := []string{"<b>Exchange Rates:</b>\n"}
	for _, item := range items {
		if item.Price != nil {
			lines = append(lines, fmt.Sprintf("%s <b>%s</b>: <code>%s</code>",
				item.Icon, item.Name, groupDigits(*item.Price)))
		} else {
			lines = append(lines, fmt.Sprintf("%s <b>%s</b>: Not Available", item.Icon, item.Name))
		}
	}
	return strings.Join(lines, "\n")
}

// groupDigits formats n with thousands separators (1234567 → "1,234,567").
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
