package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"rihla/internal/domain"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProviderRepository) Update(ctx context.Context, p *domain.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Provider, error) {
	var ps []domain.Provider
	if len(ids) == 0 {
		return ps, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error
	return ps, err
}

func (r *ProviderRepository) List(ctx context.Context, limit, offset int) ([]domain.Provider, int64, error) {
	var ps []domain.Provider
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Provider{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&ps).Error
	return ps, total, err
}

// FindEligible returns active verified providers matching any of the given
// business types, excluding the given provider ids.
func (r *ProviderRepository) FindEligible(ctx context.Context, types []domain.BusinessType, exclude []int64) ([]domain.Provider, error) {
	q := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("verified = ?", true)
	if len(types) > 0 {
		q = q.Where("business_type IN ?", types)
	}
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}

	var ps []domain.Provider
	err := q.Find(&ps).Error
	return ps, err
}

// FindEligibleSubscribed narrows FindEligible to providers holding at least
// one active, non-expired subscription.
func (r *ProviderRepository) FindEligibleSubscribed(ctx context.Context, types []domain.BusinessType, exclude []int64) ([]domain.Provider, error) {
	now := time.Now()
	q := r.db.WithContext(ctx).
		Distinct("providers.*").
		Joins("JOIN subscriptions ON subscriptions.provider_id = providers.id").
		Where("providers.active = ?", true).
		Where("providers.verified = ?", true).
		Where("subscriptions.status = ?", domain.SubscriptionActive).
		Where("subscriptions.expires_at IS NULL OR subscriptions.expires_at > ?", now)
	if len(types) > 0 {
		q = q.Where("providers.business_type IN ?", types)
	}
	if len(exclude) > 0 {
		q = q.Where("providers.id NOT IN ?", exclude)
	}

	var ps []domain.Provider
	err := q.Find(&ps).Error
	return ps, err
}

// FindPremium returns active verified providers holding a current
// subscription on a priority plan, one candidate per provider carrying its
// best plan priority and most recent subscription start.
func (r *ProviderRepository) FindPremium(ctx context.Context) ([]domain.PremiumCandidate, error) {
	now := time.Now()

	var subs []domain.Subscription
	err := r.db.WithContext(ctx).
		Joins("JOIN plans ON plans.id = subscriptions.plan_id AND plans.priority > 0").
		Where("subscriptions.status = ?", domain.SubscriptionActive).
		Where("subscriptions.expires_at IS NULL OR subscriptions.expires_at > ?", now).
		Preload("Plan").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	best := make(map[int64]domain.Subscription)
	for _, s := range subs {
		cur, ok := best[s.ProviderID]
		if !ok || s.Plan.Priority > cur.Plan.Priority ||
			(s.Plan.Priority == cur.Plan.Priority && s.StartedAt.After(cur.StartedAt)) {
			best[s.ProviderID] = s
		}
	}

	ids := make([]int64, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}

	var ps []domain.Provider
	err = r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("active = ?", true).
		Where("verified = ?", true).
		Find(&ps).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.PremiumCandidate, 0, len(ps))
	for _, p := range ps {
		s := best[p.ID]
		out = append(out, domain.PremiumCandidate{
			Provider:     p,
			PlanPriority: s.Plan.Priority,
			SubscribedAt: s.StartedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider.ID < out[j].Provider.ID })
	return out, nil
}
