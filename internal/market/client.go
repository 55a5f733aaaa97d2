// Package market provides the HTTP client for the external market data
// and news provider.
package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrAPIKeyMissing is returned when no provider API key is configured.
	ErrAPIKeyMissing = errors.New("market API key not set")

	// ErrRateLimited is returned when the provider answers with a rate
	// limit or information note instead of data.
	ErrRateLimited = errors.New("market API rate limit exceeded")

	// ErrNotFound is returned when the provider has no data for a symbol.
	ErrNotFound = errors.New("no market data for symbol")
)

// Quote is the latest price snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AsOf          time.Time `json:"as_of"`
}

// SearchMatch is one result of a symbol search.
type SearchMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// Article is one news item.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
}

// summarySymbols is the fixed index basket shown on the dashboard
// overview (ETF proxies for S&P 500, NASDAQ 100 and the Dow).
var summarySymbols = []string{"SPY", "QQQ", "DIA"}

type cachedQuote struct {
	quote   Quote
	fetched time.Time
}

// Client talks to an Alpha Vantage style quote/search/news API.
// Quotes are cached in memory for a short TTL.
type Client struct {
	baseURL string
	apiKey  string
	cli     *http.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

// NewClient creates a market data client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		cli:     &http.Client{Timeout: 10 * time.Second},
		ttl:     60 * time.Second,
		cache:   make(map[string]cachedQuote),
	}
}

// WithTTL sets a custom quote cache TTL.
func (c *Client) WithTTL(ttl time.Duration) *Client {
	c.ttl = ttl
	return c
}

// Quote returns the latest quote for a symbol.
func (c *Client) Quote(symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrNotFound
	}

	c.mu.RLock()
	if cached, ok := c.cache[symbol]; ok && time.Since(cached.fetched) < c.ttl {
		c.mu.RUnlock()
		return cached.quote, nil
	}
	c.mu.RUnlock()

	raw, err := c.get(url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return Quote{}, err
	}

	gq, ok := raw["Global Quote"].(map[string]any)
	if !ok || len(gq) == 0 {
		return Quote{}, ErrNotFound
	}

	priceStr, _ := gq["05. price"].(string)
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		return Quote{}, ErrNotFound
	}

	quote := Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Now(),
	}
	if changeStr, ok := gq["09. change"].(string); ok {
		quote.Change, _ = strconv.ParseFloat(changeStr, 64)
	}
	if pctStr, ok := gq["10. change percent"].(string); ok {
		quote.ChangePercent, _ = strconv.ParseFloat(strings.TrimSuffix(pctStr, "%"), 64)
	}
	if dayStr, ok := gq["07. latest trading day"].(string); ok && dayStr != "" {
		if t, e := time.Parse("2006-01-02", dayStr); e == nil {
			quote.AsOf = t
		}
	}

	c.mu.Lock()
	c.cache[symbol] = cachedQuote{quote: quote, fetched: time.Now()}
	c.mu.Unlock()

	return quote, nil
}

// Summary returns quotes for the dashboard's index basket. A symbol that
// fails to quote is skipped; the summary fails only when every symbol
// does.
func (c *Client) Summary() ([]Quote, error) {
	quotes := make([]Quote, 0, len(summarySymbols))
	var lastErr error
	for _, symbol := range summarySymbols {
		q, err := c.Quote(symbol)
		if err != nil {
			lastErr = err
			continue
		}
		quotes = append(quotes, q)
	}
	if len(quotes) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return quotes, nil
}

// Search returns symbol matches for a query.
func (c *Client) Search(query string) ([]SearchMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchMatch{}, nil
	}

	raw, err := c.get(url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {query},
	})
	if err != nil {
		return nil, err
	}

	best, _ := raw["bestMatches"].([]any)
	matches := make([]SearchMatch, 0, len(best))
	for _, item := range best {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		match := SearchMatch{}
		match.Symbol, _ = m["1. symbol"].(string)
		match.Name, _ = m["2. name"].(string)
		match.Type, _ = m["3. type"].(string)
		match.Region, _ = m["4. region"].(string)
		match.Currency, _ = m["8. currency"].(string)
		if match.Symbol == "" {
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// News returns up to limit market news articles.
func (c *Client) News(limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 20
	}

	raw, err := c.get(url.Values{
		"function": {"NEWS_SENTIMENT"},
		"limit":    {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	feed, _ := raw["feed"].([]any)
	articles := make([]Article, 0, len(feed))
	for _, item := range feed {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := Article{}
		a.Title, _ = m["title"].(string)
		a.URL, _ = m["url"].(string)
		a.Source, _ = m["source"].(string)
		a.Summary, _ = m["summary"].(string)
		a.PublishedAt, _ = m["time_published"].(string)
		if a.Title == "" {
			continue
		}
		articles = append(articles, a)
		if len(articles) == limit {
			break
		}
	}

	return articles, nil
}

// get performs one provider request and decodes the JSON body, mapping
// the provider's rate-limit notes to ErrRateLimited.
func (c *Client) get(params url.Values) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building market request: %w", err)
	}
	req.Header.Set("User-Agent", "investpro/1.0")

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market API returned %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing market response: %w", err)
	}

	// The provider reports throttling as a 200 with a note field.
	if _, ok := raw["Note"]; ok {
		return nil, ErrRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return nil, ErrRateLimited
	}

	return raw, nil
}
