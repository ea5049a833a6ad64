package lead

import (
	"context"

	"gorm.io/gorm"

	"rihla/internal/domain"
)

// Distributor routes a freshly created lead to providers and closes out
// open deliveries when a lead is rejected. Implemented by the
// distribution service.
type Distributor interface {
	AutoDistribute(ctx context.Context, tx *gorm.DB, l *domain.Lead) ([]domain.Distribution, error)
	IgnoreOpenForLead(ctx context.Context, tx *gorm.DB, leadID int64) error
}
