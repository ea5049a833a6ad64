package distribution

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/notification"
	"rihla/internal/repository"
)

// Ledger state transitions. The machine is sent → viewed → responded,
// forward only, with ignored as an alternative terminal reachable from
// sent or viewed. A provider response always wins from any non-terminal
// state; terminal states accept nothing further.

// MarkViewed records the provider's first view. Any state other than sent
// makes it a no-op, not an error.
func (s *Service) MarkViewed(ctx context.Context, id string, actor domain.Actor) (*domain.Distribution, error) {
	d, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if d.Status != domain.DistributionSent {
		return d, nil
	}

	now := time.Now()
	d.Status = domain.DistributionViewed
	d.ViewedAt = &now
	if err := repository.NewDistributionRepository(s.db).Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Respond stores the provider's answer. It transitions to responded from
// any non-terminal state, moves the lead from pending to contacted, and
// rejects non-positive quoted prices.
func (s *Service) Respond(ctx context.Context, id string, actor domain.Actor, message string, price *float64) (*domain.Distribution, error) {
	if price != nil && *price <= 0 {
		return nil, validationErr("quoted_price", "must be positive")
	}

	d, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if d.Status == domain.DistributionIgnored {
		return nil, validationErr("status", "distribution was ignored")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		d.Status = domain.DistributionResponded
		if d.RespondedAt == nil {
			d.RespondedAt = &now
		}
		if message != "" {
			d.ResponseMessage = message
		}
		if price != nil {
			d.QuotedPrice = price
		}
		if err := repository.NewDistributionRepository(tx).Update(ctx, d); err != nil {
			return err
		}

		leads := repository.NewLeadRepository(tx)
		l, err := leads.GetByID(ctx, d.LeadID)
		if err != nil {
			return err
		}
		if l.Status.CanTransition(domain.LeadContacted) {
			l.Status = domain.LeadContacted
			if err := leads.Update(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(notification.LeadResponded(d.ID))
	return d, nil
}

// MarkIgnored is the admin/provider-driven terminal transition used when a
// lead is rejected. Terminal records are left untouched.
func (s *Service) MarkIgnored(ctx context.Context, id string, actor domain.Actor) (*domain.Distribution, error) {
	d, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if d.Terminal() {
		return d, nil
	}

	d.Status = domain.DistributionIgnored
	if err := repository.NewDistributionRepository(s.db).Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// IgnoreOpenForLead moves every non-terminal delivery of a lead to
// ignored, on the caller's transaction. Used when a lead is rejected.
func (s *Service) IgnoreOpenForLead(ctx context.Context, tx *gorm.DB, leadID int64) error {
	ledger := repository.NewDistributionRepository(tx)
	open, err := ledger.OpenByLead(ctx, leadID)
	if err != nil {
		return err
	}
	for i := range open {
		open[i].Status = domain.DistributionIgnored
		if err := ledger.Update(ctx, &open[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListForProvider returns the provider's inbox, newest first.
func (s *Service) ListForProvider(ctx context.Context, actor domain.Actor, status *domain.DistributionStatus, limit, offset int) ([]domain.Distribution, int64, error) {
	if !actor.IsProvider() {
		return nil, 0, ErrNotDistributee
	}
	return repository.NewDistributionRepository(s.db).ListByProvider(ctx, actor.ProviderID, status, limit, offset)
}

func (s *Service) ListForLead(ctx context.Context, leadID int64) ([]domain.Distribution, error) {
	if _, err := s.loadLead(ctx, s.db, leadID); err != nil {
		return nil, err
	}
	return repository.NewDistributionRepository(s.db).ListByLead(ctx, leadID)
}

// ProviderSummary returns the provider's delivery counts by status.
func (s *Service) ProviderSummary(ctx context.Context, actor domain.Actor) (map[domain.DistributionStatus]int64, error) {
	if !actor.IsProvider() {
		return nil, ErrNotDistributee
	}
	return repository.NewDistributionRepository(s.db).CountByStatusForProvider(ctx, actor.ProviderID)
}

func (s *Service) loadOwned(ctx context.Context, id string, actor domain.Actor) (*domain.Distribution, error) {
	d, err := repository.NewDistributionRepository(s.db).GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDistributionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && d.ProviderID != actor.ProviderID {
		return nil, ErrNotDistributee
	}
	return d, nil
}
