package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rihla/internal/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// LeadFilters narrows List output. Budget matches the free-text budget
// descriptor by containment; there is no numeric contract on that field.
type LeadFilters struct {
	Status *domain.LeadStatus
	UserID *int64
	Kind   *domain.LeadKind
	Budget string
	Limit  int
	Offset int
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var l domain.Lead
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LeadRepository) List(ctx context.Context, f LeadFilters) ([]domain.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lead{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.Budget != "" {
		q = q.Where("budget LIKE ?", "%"+f.Budget+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var leads []domain.Lead
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&leads).Error
	return leads, total, err
}

// FindUndistributed returns open leads that no provider has received yet.
func (r *LeadRepository) FindUndistributed(ctx context.Context, limit int) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("distributed = ?", false).
		Where("status = ?", domain.LeadPending).
		Order("id").
		Limit(limit).
		Find(&leads).Error
	return leads, err
}

// FindExpiredOpen returns leads past their expiry timestamp still in an
// open status.
func (r *LeadRepository) FindExpiredOpen(ctx context.Context, now time.Time, limit int) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Where("status IN ?", []domain.LeadStatus{domain.LeadPending, domain.LeadContacted}).
		Order("id").
		Limit(limit).
		Find(&leads).Error
	return leads, err
}

// FindTerminalOlderThan returns ids of expired/rejected leads last touched
// before the cutoff, for retention cleanup.
func (r *LeadRepository) FindTerminalOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("status IN ?", []domain.LeadStatus{domain.LeadExpired, domain.LeadRejected}).
		Where("updated_at < ?", cutoff).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// CountByStatus returns lead counts grouped by status.
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[domain.LeadStatus]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.LeadStatus]int64)
	for rows.Next() {
		var status domain.LeadStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
