package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"investpro/internal/errors"
	"investpro/internal/models"
	"investpro/internal/repository"
)

// WatchlistHandler handles watchlist routes.
type WatchlistHandler struct {
	watchlist *repository.WatchlistRepository
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlist *repository.WatchlistRepository) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

type watchlistAddRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Currency string `json:"currency"`
}

// List returns the user's watchlist.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	entries, err := h.watchlist.GetByOwnerID(user.UID)
	if err != nil {
		writeError(w, errors.Fetch("loading watchlist", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"watchlist": entries})
}

// Add puts a symbol on the user's watchlist.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req watchlistAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Symbol) == "" {
		writeError(w, errors.ValidationField("symbol", "symbol is required"))
		return
	}

	stored, err := h.watchlist.Add(&models.WatchlistEntry{
		OwnerID:  user.UID,
		Symbol:   req.Symbol,
		Name:     req.Name,
		Market:   req.Market,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// Remove takes a symbol off the user's watchlist.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	symbol := chi.URLParam(r, "symbol")
	if err := h.watchlist.Remove(user.UID, symbol); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"removed": strings.ToUpper(strings.TrimSpace(symbol))})
}
