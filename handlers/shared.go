package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var sharedLogger = logging.WithPrefix("handlers")

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		sharedLogger.Errorf("Failed to encode response: %v", err)
	}
}

// errorResponse is the body of every error reply
type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrGameClosed),
		errors.Is(err, models.ErrDuplicateGameNumber):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrInvalidJackpotAmount),
		errors.Is(err, models.ErrMissingWinnerInfo):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConsistencyViolation):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		sharedLogger.Errorf("Request failed: %v", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON parses a request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

// pathObjectID parses a mux path variable as an ObjectID
func pathObjectID(vars map[string]string, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid %s", models.ErrInvalidInput, name)
	}
	return id, nil
}

// parseDate parses a yyyy-mm-dd request date
func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want yyyy-mm-dd", models.ErrInvalidInput, value)
	}
	return date, nil
}
