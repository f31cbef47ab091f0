package handlers

import (
	"net/http"

	"qoh-app-go/middleware"
	"qoh-app-go/models"
	"qoh-app-go/services"
)

// ConfigurationHandler handles organization configuration HTTP requests
type ConfigurationHandler struct {
	configs *services.ConfigurationService
}

// NewConfigurationHandler creates a new configuration handler
func NewConfigurationHandler(configs *services.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configs: configs}
}

// GetConfiguration returns the organization's configuration
func (h *ConfigurationHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	cfg, err := h.configs.Get(r.Context(), orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// UpdateConfiguration replaces the organization's configuration
func (h *ConfigurationHandler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationFromContext(r)

	var cfg models.Configuration
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, err)
		return
	}
	// The path organization always wins over whatever the body claims.
	cfg.OrganizationID = orgID

	if err := h.configs.Update(r.Context(), &cfg); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}
