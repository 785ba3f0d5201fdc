package mappers

import (
	"fmt"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
)

type WebsiteMapper interface {
	ToEntity(model *models.WebsiteModel) (*website.Website, error)
	ToModel(entity *website.Website) *models.WebsiteModel
	ToEntities(models []*models.WebsiteModel) ([]*website.Website, error)
}

type WebsiteMapperImpl struct{}

func NewWebsiteMapper() WebsiteMapper {
	return &WebsiteMapperImpl{}
}

func (m *WebsiteMapperImpl) ToEntity(model *models.WebsiteModel) (*website.Website, error) {
	if model == nil {
		return nil, nil
	}

	plan, err := website.ParsePlan(model.Plan)
	if err != nil {
		return nil, fmt.Errorf("website %d: %w", model.ID, err)
	}
	status, err := website.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("website %d: %w", model.ID, err)
	}

	return website.ReconstructWebsite(website.Snapshot{
		ID:                      model.ID,
		Domain:                  model.Domain,
		Title:                   model.Title,
		LicenseKey:              model.LicenseKey,
		Plan:                    plan,
		Status:                  status,
		CreditsTotal:            model.CreditsTotal,
		CreditsRemaining:        model.CreditsRemaining,
		CreditsUsed:             model.CreditsUsed,
		SubscriptionStart:       model.SubscriptionStart,
		SubscriptionEnd:         model.SubscriptionEnd,
		NextReset:               model.NextReset,
		LastSync:                model.LastSync,
		MessengerEnabled:        model.MessengerEnabled,
		FacebookPageID:          model.FacebookPageID,
		FacebookPageName:        model.FacebookPageName,
		FacebookPageAccessToken: model.FacebookPageAccessToken,
		TokenExpiresAt:          model.TokenExpiresAt,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}), nil
}

func (m *WebsiteMapperImpl) ToModel(entity *website.Website) *models.WebsiteModel {
	if entity == nil {
		return nil
	}
	s := entity.Snapshot()
	return &models.WebsiteModel{
		ID:                      s.ID,
		Domain:                  s.Domain,
		Title:                   s.Title,
		LicenseKey:              s.LicenseKey,
		Plan:                    s.Plan.String(),
		Status:                  s.Status.String(),
		CreditsTotal:            s.CreditsTotal,
		CreditsRemaining:        s.CreditsRemaining,
		CreditsUsed:             s.CreditsUsed,
		SubscriptionStart:       s.SubscriptionStart,
		SubscriptionEnd:         s.SubscriptionEnd,
		NextReset:               s.NextReset,
		LastSync:                s.LastSync,
		MessengerEnabled:        s.MessengerEnabled,
		FacebookPageID:          s.FacebookPageID,
		FacebookPageName:        s.FacebookPageName,
		FacebookPageAccessToken: s.FacebookPageAccessToken,
		TokenExpiresAt:          s.TokenExpiresAt,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

func (m *WebsiteMapperImpl) ToEntities(list []*models.WebsiteModel) ([]*website.Website, error) {
	entities := make([]*website.Website, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
