package provider

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/repository"
)

type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Provider, error) {
	p, err := repository.NewProviderRepository(s.db).GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Provider, int64, error) {
	return repository.NewProviderRepository(s.db).List(ctx, limit, offset)
}

// UpdateFlags sets the admin-controlled eligibility and ranking flags.
// Verifying a provider is what lets it start receiving leads.
func (s *Service) UpdateFlags(ctx context.Context, id int64, req UpdateFlagsRequest) (*domain.Provider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Verified != nil {
		p.Verified = *req.Verified
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if err := repository.NewProviderRepository(s.db).Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("provider_id", p.ID).
		Bool("verified", p.Verified).
		Bool("active", p.Active).
		Bool("featured", p.Featured).
		Msg("provider flags updated")
	return p, nil
}

func (s *Service) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return repository.NewSubscriptionRepository(s.db).ListPlans(ctx)
}

func (s *Service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error) {
	p := &domain.Plan{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Priority:     req.Priority,
		Active:       true,
	}
	if err := repository.NewSubscriptionRepository(s.db).CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Subscribe(ctx context.Context, providerID int64, planID string) (*domain.Subscription, error) {
	subs := repository.NewSubscriptionRepository(s.db)

	plan, err := subs.GetPlan(ctx, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, ErrPlanInactive
	}

	sub, err := subs.Subscribe(ctx, providerID, plan)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("provider_id", providerID).
		Str("plan_id", planID).
		Msg("provider subscribed")
	return sub, nil
}

func (s *Service) ActiveSubscriptions(ctx context.Context, providerID int64) ([]domain.Subscription, error) {
	return repository.NewSubscriptionRepository(s.db).ActiveForProvider(ctx, providerID)
}
