package usecases

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

type RegenerateLicenseKeyUseCase struct {
	repo   website.Repository
	audit  auditlog.Repository
	tx     Transactor
	logger logger.Interface
}

func NewRegenerateLicenseKeyUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	logger logger.Interface,
) *RegenerateLicenseKeyUseCase {
	return &RegenerateLicenseKeyUseCase{
		repo:   repo,
		audit:  audit,
		tx:     tx,
		logger: logger,
	}
}

// Execute replaces the license key. The audit entry stores masked keys
// only.
func (uc *RegenerateLicenseKeyUseCase) Execute(ctx context.Context, actor Actor, id uint) (*dto.RegenerateLicenseKeyResponse, error) {
	var newKey string
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		w, err := lockWebsite(ctx, uc.repo, uc.logger, id)
		if err != nil {
			return err
		}
		oldKey := w.LicenseKey()
		if newKey, err = w.RegenerateLicenseKey(); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, w); err != nil {
			return err
		}
		entry, err := auditlog.NewEntry(&id, actor.ID, auditlog.ActionRegenerateLicenseKey,
			map[string]any{"licenseKey": utils.MaskSecret(oldKey)},
			map[string]any{"licenseKey": utils.MaskSecret(newKey)},
			"Manual license key regeneration")
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "regenerate license key", id, err)
	}

	uc.logger.Infow("license key regenerated", "website_id", id, "license_key", utils.MaskSecret(newKey))

	return &dto.RegenerateLicenseKeyResponse{LicenseKey: newKey}, nil
}
