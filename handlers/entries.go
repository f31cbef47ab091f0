package handlers

import (
	"net/http"

	"qoh-app-go/middleware"
	"qoh-app-go/services"

	"github.com/gorilla/mux"
)

// EntryHandler handles daily-entry ledger HTTP requests
type EntryHandler struct {
	ledger  *services.EntryLedgerService
	jackpot *services.JackpotService
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(ledger *services.EntryLedgerService, jackpot *services.JackpotService) *EntryHandler {
	return &EntryHandler{
		ledger:  ledger,
		jackpot: jackpot,
	}
}

// UpsertEntry records or corrects the tickets sold on one day
func (h *EntryHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Date        string `json:"date"`
		TicketsSold int    `json:"ticketsSold"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.ledger.UpsertDailyEntry(r.Context(), orgID, gameID, date, req.TicketsSold)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes one day's entry
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	vars := mux.Vars(r)
	gameID, err := pathObjectID(vars, "gameID")
	if err != nil {
		respondError(w, err)
		return
	}
	entryID, err := pathObjectID(vars, "entryID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ledger.DeleteEntry(r.Context(), orgID, gameID, entryID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteWeek removes the latest week of a game along with its entries
func (h *EntryHandler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	vars := mux.Vars(r)
	gameID, err := pathObjectID(vars, "gameID")
	if err != nil {
		respondError(w, err)
		return
	}
	weekID, err := pathObjectID(vars, "weekID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ledger.DeleteWeek(r.Context(), orgID, gameID, weekID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// RecomputeGame re-derives every computed figure of a game from its entries
func (h *EntryHandler) RecomputeGame(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ledger.RecomputeGame(r.Context(), orgID, gameID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CurrentJackpot returns the jackpot currently on display for a game
func (h *EntryHandler) CurrentJackpot(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	jackpot, err := h.jackpot.CurrentJackpot(r.Context(), orgID, gameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{"currentJackpot": jackpot})
}
