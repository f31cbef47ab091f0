package services

import (
	"context"

	"qoh-app-go/logging"
	"qoh-app-go/models"
)

// ConfigurationService is the admin surface for per-organization raffle
// constants. The engine itself never reads live configuration; games snapshot
// it at creation.
type ConfigurationService struct {
	configRepo ConfigurationRepository
	logger     *logging.Logger
}

// NewConfigurationService creates a new configuration service
func NewConfigurationService(configRepo ConfigurationRepository) *ConfigurationService {
	return &ConfigurationService{
		configRepo: configRepo,
		logger:     logging.WithPrefix("configuration"),
	}
}

// Get returns the organization's configuration, or the default table for an
// organization that has not saved one yet.
func (s *ConfigurationService) Get(ctx context.Context, organizationID string) (*models.Configuration, error) {
	cfg, err := s.configRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return models.DefaultConfiguration(organizationID), nil
	}
	return cfg, nil
}

// Update validates and saves the configuration. A percentage split that does
// not sum to 100 is allowed here so an admin can stage changes, but game
// creation will refuse to snapshot it.
func (s *ConfigurationService) Update(ctx context.Context, cfg *models.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.PercentagesSumTo100() {
		s.logger.Warnf("Organization %s percentages sum to %.1f, not 100; game creation will be blocked",
			cfg.OrganizationID, cfg.OrganizationPercentage+cfg.JackpotPercentage)
	}

	return s.configRepo.Upsert(ctx, cfg)
}
