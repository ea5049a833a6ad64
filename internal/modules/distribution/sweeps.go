package distribution

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/notification"
	"rihla/internal/repository"
)

const sweepBatchSize = 200

// RetentionPeriod is how long terminal leads are kept before cleanup.
const RetentionPeriod = 365 * 24 * time.Hour

// SweepAssignPremium picks up leads that went undistributed (no eligible
// candidates at creation time) and routes them to premium-subscribed
// providers. Package and service leads go to their owner when the owner
// holds a premium plan; custom leads go to premium providers matching the
// classified business types, ranked by plan priority. Each lead runs in
// its own transaction so one failure does not poison the batch.
func (s *Service) SweepAssignPremium(ctx context.Context) (int, error) {
	leads, err := repository.NewLeadRepository(s.db).FindUndistributed(ctx, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	if len(leads) == 0 {
		return 0, nil
	}

	premium, err := repository.NewProviderRepository(s.db).FindPremium(ctx)
	if err != nil {
		return 0, err
	}
	if len(premium) == 0 {
		return 0, nil
	}

	assigned := 0
	for i := range leads {
		l := leads[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			n, err := s.assignPremium(ctx, tx, &l, premium)
			if err != nil {
				return err
			}
			assigned += n
			return nil
		})
		if err != nil {
			s.log.Warn().Err(err).Int64("lead_id", l.ID).Msg("premium assignment failed")
		}
	}
	if assigned > 0 {
		s.log.Info().Int("leads", assigned).Msg("premium sweep assigned leads")
	}
	return assigned, nil
}

func (s *Service) assignPremium(ctx context.Context, tx *gorm.DB, l *domain.Lead, premium []domain.PremiumCandidate) (int, error) {
	candidates, err := s.premiumCandidatesFor(ctx, tx, l, premium)
	if err != nil || len(candidates) == 0 {
		return 0, err
	}

	ledger := repository.NewDistributionRepository(tx)
	var created []string
	for _, c := range candidates {
		d, isNew, err := ledger.GetOrCreate(ctx, l.ID, c.ID)
		if err != nil {
			return 0, err
		}
		if isNew {
			created = append(created, d.ID)
		}
	}
	if len(created) == 0 {
		return 0, nil
	}

	if err := s.markDistributed(ctx, tx, l, domain.LeadPriorityPremium); err != nil {
		return 0, err
	}
	for _, id := range created {
		s.enqueue(notification.LeadAssigned(id))
	}
	return 1, nil
}

func (s *Service) premiumCandidatesFor(ctx context.Context, tx *gorm.DB, l *domain.Lead, premium []domain.PremiumCandidate) ([]domain.Provider, error) {
	if l.HasTarget() {
		ownerID, err := s.resolveOwnerProvider(ctx, tx, l)
		if err != nil || ownerID == 0 {
			return nil, err
		}
		for _, c := range premium {
			if c.Provider.ID == ownerID {
				return []domain.Provider{c.Provider}, nil
			}
		}
		return nil, nil
	}

	types := s.classifier.InferTargetTypes(ContentOf(l, ""))
	wanted := make(map[domain.BusinessType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var matched []domain.PremiumCandidate
	for _, c := range premium {
		if wanted[c.Provider.BusinessType] {
			matched = append(matched, c)
		}
	}
	ranked := RankBySubscription(matched, s.cfg.MaxProviders)
	out := make([]domain.Provider, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Provider)
	}
	return out, nil
}

// SweepExpire moves leads past their TTL into the expired state. Safe to
// run repeatedly; already-terminal leads are not picked up.
func (s *Service) SweepExpire(ctx context.Context) (int, error) {
	leads, err := repository.NewLeadRepository(s.db).FindExpiredOpen(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range leads {
		l := leads[i]
		if !l.Status.CanTransition(domain.LeadExpired) {
			continue
		}
		l.Status = domain.LeadExpired
		if err := repository.NewLeadRepository(s.db).Update(ctx, &l); err != nil {
			s.log.Warn().Err(err).Int64("lead_id", l.ID).Msg("lead expiry failed")
			continue
		}
		expired++
	}
	if expired > 0 {
		s.log.Info().Int("leads", expired).Msg("expired stale leads")
	}
	return expired, nil
}

// SweepFollowUpReminders fires one reminder per interaction whose
// follow-up date falls on the current day. MarkReminderSent keeps the
// sweep from firing twice for the same interaction.
func (s *Service) SweepFollowUpReminders(ctx context.Context) (int, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	crm := repository.NewCRMRepository(s.db)
	due, err := crm.FindDueFollowUps(ctx, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, it := range due {
		if err := crm.MarkReminderSent(ctx, it.ID); err != nil {
			s.log.Warn().Err(err).Int64("interaction_id", it.ID).Msg("reminder mark failed")
			continue
		}
		s.enqueue(notification.FollowUpDue(it.ID))
		sent++
	}
	return sent, nil
}

// SweepRetentionCleanup deletes terminal leads older than the retention
// period together with their distributions and CRM records.
func (s *Service) SweepRetentionCleanup(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-RetentionPeriod)
	ids, err := repository.NewLeadRepository(s.db).FindTerminalOlderThan(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := repository.NewDistributionRepository(tx).DeleteByLead(ctx, id); err != nil {
				return err
			}
			if err := repository.NewCRMRepository(tx).DeleteByLead(ctx, id); err != nil {
				return err
			}
			return tx.WithContext(ctx).Delete(&domain.Lead{}, id).Error
		})
		if err != nil {
			s.log.Warn().Err(err).Int64("lead_id", id).Msg("retention cleanup failed")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info().Int("leads", removed).Msg("retention cleanup removed leads")
	}
	return removed, nil
}
