package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rihla/internal/domain"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) CreatePlan(ctx context.Context, p *domain.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *SubscriptionRepository) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var p domain.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SubscriptionRepository) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	var ps []domain.Plan
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("priority DESC, id").Find(&ps).Error
	return ps, err
}

// Subscribe opens a subscription for the provider on the given plan,
// expiring after the plan's duration.
func (r *SubscriptionRepository) Subscribe(ctx context.Context, providerID int64, plan *domain.Plan) (*domain.Subscription, error) {
	now := time.Now()
	s := &domain.Subscription{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		PlanID:     plan.ID,
		Status:     domain.SubscriptionActive,
		StartedAt:  now,
	}
	if plan.DurationDays > 0 {
		exp := now.AddDate(0, 0, plan.DurationDays)
		s.ExpiresAt = &exp
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubscriptionRepository) ActiveForProvider(ctx context.Context, providerID int64) ([]domain.Subscription, error) {
	now := time.Now()
	var ss []domain.Subscription
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("status = ?", domain.SubscriptionActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Preload("Plan").
		Find(&ss).Error
	return ss, err
}
