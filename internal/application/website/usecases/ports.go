package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// CreditsPusher mirrors a website's allowance to the credits backend.
type CreditsPusher interface {
	SetCredits(ctx context.Context, a credits.Allowance) error
}

// WebsiteNotifier tells operations about new websites.
type WebsiteNotifier interface {
	WebsiteCreated(ctx context.Context, ev email.WebsiteEvent) error
}

// Transactor runs fn in one database transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor is the staff member performing a change; ID is nil for system jobs.
type Actor struct {
	ID *uint
}

func allowanceOf(w *website.Website) credits.Allowance {
	return credits.Allowance{
		Domain:           w.Domain(),
		CreditsTotal:     w.CreditsTotal(),
		CreditsRemaining: w.CreditsRemaining(),
		Plan:             w.Plan().String(),
	}
}

// pushAllowance reports push failures without failing the caller. An
// unconfigured backend is not a failure.
func pushAllowance(ctx context.Context, pusher CreditsPusher, log logger.Interface, w *website.Website) {
	err := pusher.SetCredits(ctx, allowanceOf(w))
	switch {
	case err == nil:
	case errors.Is(err, credits.ErrNotConfigured):
		log.Debugw("credits backend not configured, skipping push", "domain", w.Domain())
	default:
		log.Warnw("failed to push credits to backend", "error", err, "domain", w.Domain())
	}
}

// toAppError maps website domain errors onto API errors.
func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, website.ErrWebsiteNotFound):
		return apperrors.NewNotFoundError("Website not found")
	case errors.Is(err, website.ErrDomainTaken):
		return apperrors.NewConflictError("Domain already exists")
	case errors.Is(err, website.ErrInvalidDomain),
		errors.Is(err, website.ErrInvalidTitle),
		errors.Is(err, website.ErrInvalidPlan),
		errors.Is(err, website.ErrInvalidStatus),
		errors.Is(err, website.ErrInvalidCredits),
		errors.Is(err, website.ErrInvalidCreditAmount),
		errors.Is(err, website.ErrInvalidSubscriptionPeriod):
		return apperrors.NewValidationError(err.Error())
	}
	return err
}

// loadWebsite returns a not-found AppError when id matches nothing.
func loadWebsite(ctx context.Context, repo website.Repository, log logger.Interface, id uint) (*website.Website, error) {
	w, err := repo.GetByID(ctx, id)
	return found(log, id, w, err)
}

// lockWebsite is loadWebsite under a row lock. Call it inside
// RunInTransaction before mutating and calling Update.
func lockWebsite(ctx context.Context, repo website.Repository, log logger.Interface, id uint) (*website.Website, error) {
	w, err := repo.GetByIDForUpdate(ctx, id)
	return found(log, id, w, err)
}

func found(log logger.Interface, id uint, w *website.Website, err error) (*website.Website, error) {
	if err != nil {
		log.Errorw("failed to get website", "error", err, "website_id", id)
		return nil, err
	}
	if w == nil {
		return nil, toAppError(website.ErrWebsiteNotFound)
	}
	return w, nil
}

// wrapWriteError passes API errors through and wraps everything else.
func wrapWriteError(log logger.Interface, op string, id uint, err error) error {
	mapped := toAppError(err)
	if apperrors.GetAppError(mapped) != nil {
		return mapped
	}
	log.Errorw("failed to "+op, "error", err, "website_id", id)
	return fmt.Errorf("failed to %s: %w", op, err)
}
