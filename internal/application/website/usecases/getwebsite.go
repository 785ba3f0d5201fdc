package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const (
	detailUsageLogs = 50
	detailAdminLogs = 20
)

// GetWebsiteUseCase returns a website with its latest usage and audit
// records.
type GetWebsiteUseCase struct {
	repo   website.Repository
	usage  usagelog.Repository
	audit  auditlog.Repository
	logger logger.Interface
}

func NewGetWebsiteUseCase(repo website.Repository, usage usagelog.Repository, audit auditlog.Repository, logger logger.Interface) *GetWebsiteUseCase {
	return &GetWebsiteUseCase{
		repo:   repo,
		usage:  usage,
		audit:  audit,
		logger: logger,
	}
}

func (uc *GetWebsiteUseCase) Execute(ctx context.Context, id uint) (*dto.WebsiteDetailResponse, error) {
	w, err := loadWebsite(ctx, uc.repo, uc.logger, id)
	if err != nil {
		return nil, err
	}

	var (
		usage []*usagelog.Entry
		audit []*auditlog.EntryView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usage, _, err = uc.usage.List(gctx, usagelog.ListFilter{Page: 1, PageSize: detailUsageLogs, WebsiteID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		audit, _, err = uc.audit.List(gctx, auditlog.ListFilter{Page: 1, PageSize: detailAdminLogs, WebsiteID: &id})
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to load website activity", "error", err, "website_id", id)
		return nil, fmt.Errorf("failed to load website activity: %w", err)
	}

	if usage == nil {
		usage = []*usagelog.Entry{}
	}
	if audit == nil {
		audit = []*auditlog.EntryView{}
	}
	return &dto.WebsiteDetailResponse{
		WebsiteResponse: dto.ToWebsiteResponse(w),
		UsageLogs:       usage,
		AdminLogs:       audit,
	}, nil
}
