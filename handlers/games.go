package handlers

import (
	"net/http"

	"qoh-app-go/middleware"
	"qoh-app-go/services"

	"github.com/gorilla/mux"
)

// GameHandler handles game lifecycle HTTP requests
type GameHandler struct {
	lifecycle *services.GameLifecycleService
	reports   *services.ReportService
}

// NewGameHandler creates a new game handler
func NewGameHandler(lifecycle *services.GameLifecycleService, reports *services.ReportService) *GameHandler {
	return &GameHandler{
		lifecycle: lifecycle,
		reports:   reports,
	}
}

// CreateGame starts a new game for the organization
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	var req struct {
		GameNumber int    `json:"gameNumber"`
		StartDate  string `json:"startDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}

	game, err := h.lifecycle.CreateGame(r.Context(), orgID, req.GameNumber, startDate)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// ListGames returns all of the organization's games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	games, err := h.lifecycle.ListGames(r.Context(), orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// GetGame returns a single game with its weeks
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	game, weeks, err := h.lifecycle.GetGame(r.Context(), orgID, gameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":  game,
		"weeks": weeks,
	})
}

// CreateWeek opens the next week of a game
func (h *GameHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		StartDate string `json:"startDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}

	week, err := h.lifecycle.CreateWeek(r.Context(), orgID, gameID, startDate)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, week)
}

// RecordWinner records a week's card draw
func (h *GameHandler) RecordWinner(w http.ResponseWriter, r *http.Request) {
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

	var info services.WinnerInfo
	if err := decodeJSON(r, &info); err != nil {
		respondError(w, err)
		return
	}

	week, err := h.lifecycle.RecordWinner(r.Context(), orgID, gameID, weekID, info)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, week)
}

// GameReport returns the computed report for a game
func (h *GameHandler) GameReport(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.reports.BuildGameReport(r.Context(), orgID, gameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
