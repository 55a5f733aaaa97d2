package handlers

import (
	"net/http"
	"strings"
	"time"

	"investpro/internal/errors"
	"investpro/internal/fetch"
	"investpro/internal/market"
)

// defaultRefreshQuiescence is how long after the last dashboard hit a
// background refresh of the market summary is scheduled. Bursts of
// requests collapse into a single upstream call.
const defaultRefreshQuiescence = 500 * time.Millisecond

// DashboardHandler handles the market data routes backing the dashboard.
// Summary and news go through single-flight fetchers so concurrent
// requests and slow upstream responses never clobber newer data with
// stale results.
type DashboardHandler struct {
	market  *market.Client
	summary *fetch.Fetcher[[]market.Quote]
	search  *fetch.Fetcher[[]market.SearchMatch]
	news    *fetch.Fetcher[[]market.Article]
	refresh *fetch.Debouncer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(client *market.Client) *DashboardHandler {
	return newDashboardHandler(client, defaultRefreshQuiescence)
}

// NewDashboardHandlerWithQuiescence creates a DashboardHandler with a
// custom refresh quiescence window.
func NewDashboardHandlerWithQuiescence(client *market.Client, quiescence time.Duration) *DashboardHandler {
	if quiescence <= 0 {
		quiescence = defaultRefreshQuiescence
	}
	return newDashboardHandler(client, quiescence)
}

func newDashboardHandler(client *market.Client, quiescence time.Duration) *DashboardHandler {
	return &DashboardHandler{
		market:  client,
		summary: fetch.New[[]market.Quote](),
		search:  fetch.New[[]market.SearchMatch](),
		news:    fetch.New[[]market.Article](),
		refresh: fetch.NewDebouncer(quiescence),
	}
}

// Summary returns quotes for the market index basket. Once warm it serves
// the fetcher's last-known data immediately and schedules a debounced
// background refresh; the first request fetches synchronously.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if st := h.summary.State(); st.Status == fetch.StatusReady {
		h.refresh.Trigger(func() {
			h.summary.Do(h.market.Summary)
		})
		writeJSON(w, http.StatusOK, map[string]any{"quotes": st.Data})
		return
	}

	quotes, err := h.summary.Do(h.market.Summary)
	if err != nil {
		writeError(w, marketError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

// Search looks up symbols matching the q query parameter. An empty query
// returns an empty match list without touching the upstream API. Lookups
// go through a fetcher so a slow response for an earlier query can never
// overwrite the state left by a later one.
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, map[string]any{"matches": []market.SearchMatch{}})
		return
	}

	matches, err := h.search.Do(func() ([]market.SearchMatch, error) {
		return h.market.Search(query)
	})
	if err != nil {
		writeError(w, marketError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

// News returns recent market news articles.
func (h *DashboardHandler) News(w http.ResponseWriter, r *http.Request) {
	articles, err := h.news.Do(func() ([]market.Article, error) {
		return h.market.News(0)
	})
	if err != nil {
		writeError(w, marketError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// Close stops any pending background refresh.
func (h *DashboardHandler) Close() {
	h.refresh.Stop()
}

// marketError maps market client failures onto the app error taxonomy.
func marketError(err error) error {
	switch err {
	case market.ErrRateLimited:
		return errors.New(errors.ErrRateLimit, "market data provider rate limit reached")
	case market.ErrNotFound:
		return errors.NotFound("symbol")
	default:
		return errors.Fetch("market data unavailable", err)
	}
}
