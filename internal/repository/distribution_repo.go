package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rihla/internal/domain"
)

// DistributionRepository is the ledger's storage layer. Construct it over a
// transaction handle to make its writes part of that transaction.
type DistributionRepository struct {
	db *gorm.DB
}

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// GetOrCreate returns the delivery record for (lead, provider), creating it
// with status sent when absent. The unique index makes this safe under
// races: a losing writer degrades to fetching the winner's row. The second
// return value reports whether this call created the record.
func (r *DistributionRepository) GetOrCreate(ctx context.Context, leadID, providerID int64) (*domain.Distribution, bool, error) {
	var d domain.Distribution
	err := r.db.WithContext(ctx).
		Where("lead_id = ? AND provider_id = ?", leadID, providerID).
		First(&d).Error
	if err == nil {
		return &d, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	d = domain.Distribution{
		ID:         uuid.NewString(),
		LeadID:     leadID,
		ProviderID: providerID,
		Status:     domain.DistributionSent,
		SentAt:     time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		if isUniqueConstraintError(err) {
			var existing domain.Distribution
			if ferr := r.db.WithContext(ctx).
				Where("lead_id = ? AND provider_id = ?", leadID, providerID).
				First(&existing).Error; ferr != nil {
				return nil, false, ferr
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &d, true, nil
}

func (r *DistributionRepository) GetByID(ctx context.Context, id string) (*domain.Distribution, error) {
	var d domain.Distribution
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DistributionRepository) Update(ctx context.Context, d *domain.Distribution) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// ProviderIDsForLead returns every provider already holding a delivery
// record for the lead; the eligibility filter excludes them.
func (r *DistributionRepository) ProviderIDsForLead(ctx context.Context, leadID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Distribution{}).
		Where("lead_id = ?", leadID).
		Pluck("provider_id", &ids).Error
	return ids, err
}

func (r *DistributionRepository) ListByLead(ctx context.Context, leadID int64) ([]domain.Distribution, error) {
	var ds []domain.Distribution
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("sent_at").
		Find(&ds).Error
	return ds, err
}

func (r *DistributionRepository) ListByProvider(ctx context.Context, providerID int64, status *domain.DistributionStatus, limit, offset int) ([]domain.Distribution, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Distribution{}).Where("provider_id = ?", providerID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var ds []domain.Distribution
	err := q.Preload("Lead").Order("sent_at DESC").Limit(limit).Offset(offset).Find(&ds).Error
	return ds, total, err
}

// OpenByLead returns non-terminal records for a lead, used when a rejected
// lead cascades to ignoring its pending deliveries.
func (r *DistributionRepository) OpenByLead(ctx context.Context, leadID int64) ([]domain.Distribution, error) {
	var ds []domain.Distribution
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Where("status IN ?", []domain.DistributionStatus{domain.DistributionSent, domain.DistributionViewed}).
		Find(&ds).Error
	return ds, err
}

func (r *DistributionRepository) DeleteByLead(ctx context.Context, leadID int64) error {
	return r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&domain.Distribution{}).Error
}

func (r *DistributionRepository) CountByStatusForProvider(ctx context.Context, providerID int64) (map[domain.DistributionStatus]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&domain.Distribution{}).
		Select("status, COUNT(*) AS count").
		Where("provider_id = ?", providerID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DistributionStatus]int64)
	for rows.Next() {
		var status domain.DistributionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
