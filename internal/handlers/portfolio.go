package handlers

import (
	"net/http"

	"investpro/internal/errors"
	"investpro/internal/models"
	"investpro/internal/portfolio"
)

// PortfolioHandler handles portfolio routes.
type PortfolioHandler struct {
	manager *portfolio.Manager
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(manager *portfolio.Manager) *PortfolioHandler {
	return &PortfolioHandler{manager: manager}
}

type portfolioResponse struct {
	Holdings []*models.Holding      `json:"holdings"`
	Totals   models.PortfolioTotals `json:"totals"`
}

// Get returns the user's holdings with the derived totals.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	agg, err := h.manager.ForOwner(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolioResponse{
		Holdings: agg.Holdings(),
		Totals:   agg.Totals(),
	})
}

// AddHolding validates and persists a new investment position, then
// returns the stored record alongside the recomputed totals.
func (h *PortfolioHandler) AddHolding(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var candidate portfolio.Candidate
	if err := decodeJSON(r, &candidate); err != nil {
		writeError(w, err)
		return
	}

	agg, err := h.manager.ForOwner(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	stored, err := agg.Add(candidate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"holding": stored,
		"totals":  agg.Totals(),
	})
}
