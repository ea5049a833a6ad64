package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rihla/internal/domain"
)

type CRMRepository struct {
	db *gorm.DB
}

func NewCRMRepository(db *gorm.DB) *CRMRepository {
	return &CRMRepository{db: db}
}

func (r *CRMRepository) CreateInteraction(ctx context.Context, i *domain.Interaction) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *CRMRepository) GetInteraction(ctx context.Context, id int64) (*domain.Interaction, error) {
	var i domain.Interaction
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *CRMRepository) ListInteractions(ctx context.Context, providerID, leadID int64) ([]domain.Interaction, error) {
	q := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if leadID != 0 {
		q = q.Where("lead_id = ?", leadID)
	}

	var is []domain.Interaction
	err := q.Order("created_at DESC").Find(&is).Error
	return is, err
}

// FindDueFollowUps returns interactions whose follow-up date falls within
// [dayStart, dayEnd) and which have not been reminded yet.
func (r *CRMRepository) FindDueFollowUps(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Interaction, error) {
	var is []domain.Interaction
	err := r.db.WithContext(ctx).
		Where("follow_up_at >= ? AND follow_up_at < ?", dayStart, dayEnd).
		Where("reminder_sent = ?", false).
		Order("id").
		Find(&is).Error
	return is, err
}

func (r *CRMRepository) MarkReminderSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}

func (r *CRMRepository) CreateNote(ctx context.Context, n *domain.LeadNote) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListNotesForLead returns the provider's own notes plus other providers'
// shared (non-private) notes on the lead.
func (r *CRMRepository) ListNotesForLead(ctx context.Context, leadID, providerID int64) ([]domain.LeadNote, error) {
	var ns []domain.LeadNote
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Where("provider_id = ? OR private = ?", providerID, false).
		Order("created_at DESC").
		Find(&ns).Error
	return ns, err
}

func (r *CRMRepository) DeleteByLead(ctx context.Context, leadID int64) error {
	if err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&domain.Interaction{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&domain.LeadNote{}).Error
}
