package handlers

import (
	"net/http"

	"qoh-app-go/middleware"
	"qoh-app-go/services"

	"github.com/gorilla/mux"
)

// ExpenseHandler handles expense and donation HTTP requests
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// AddExpense appends an expense or donation to a game
func (h *ExpenseHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Date       string  `json:"date"`
		Amount     float64 `json:"amount"`
		IsDonation bool    `json:"isDonation"`
		Memo       string  `json:"memo"`
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

	expense, err := h.expenses.AddExpense(r.Context(), orgID, gameID, date, req.Amount, req.IsDonation, req.Memo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// ListExpenses returns a game's expenses and donations
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	gameID, err := pathObjectID(mux.Vars(r), "gameID")
	if err != nil {
		respondError(w, err)
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), orgID, gameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

// DeleteExpense removes an expense from a game
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	vars := mux.Vars(r)
	gameID, err := pathObjectID(vars, "gameID")
	if err != nil {
		respondError(w, err)
		return
	}
	expenseID, err := pathObjectID(vars, "expenseID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.expenses.DeleteExpense(r.Context(), orgID, gameID, expenseID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
