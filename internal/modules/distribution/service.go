package distribution

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/notification"
	"rihla/internal/repository"
)

// Notifier is the decoupled notification collaborator: fire-and-forget,
// at-least-once; commits never wait on it.
type Notifier interface {
	Enqueue(e notification.Event)
}

type Config struct {
	MaxProviders int
	Classifier   ClassifierConfig
}

func DefaultConfig() Config {
	return Config{
		MaxProviders: DefaultMaxProviders,
		Classifier:   DefaultClassifierConfig(),
	}
}

// Service is the distribution orchestrator: it wires the classifier,
// eligibility filter, ranking policy and ledger into the auto, manual,
// redistribution and sweep entry points.
type Service struct {
	db         *gorm.DB
	cfg        Config
	classifier *Classifier
	notifier   Notifier
	log        zerolog.Logger
}

func NewService(db *gorm.DB, cfg Config, notifier Notifier, log zerolog.Logger) *Service {
	cfg.MaxProviders = ClampFanOut(cfg.MaxProviders)
	if len(cfg.Classifier.Rules) == 0 {
		cfg.Classifier = DefaultClassifierConfig()
	}
	return &Service{
		db:         db,
		cfg:        cfg,
		classifier: NewClassifier(cfg.Classifier),
		notifier:   notifier,
		log:        log.With().Str("component", "distribution").Logger(),
	}
}

// AutoDistribute runs the full pipeline for a freshly created lead on the
// caller's transaction, so the lead row, its delivery records and the
// distributed flag commit or roll back together.
func (s *Service) AutoDistribute(ctx context.Context, tx *gorm.DB, l *domain.Lead) ([]domain.Distribution, error) {
	return s.distribute(ctx, tx, l, Selector{}, s.cfg.MaxProviders)
}

// Distribute is the admin entry point. Explicit provider ids take
// precedence over business types, which take precedence over
// auto-classification. With strict set, a pass that creates nothing
// because every named provider already holds the lead is a conflict.
func (s *Service) Distribute(ctx context.Context, leadID int64, sel Selector, maxProviders int, strict bool) ([]domain.Distribution, error) {
	if len(sel.ProviderIDs) > 0 {
		sel.BusinessTypes = nil
	}

	var created []domain.Distribution
	err := s.db.Transaction(func(tx *gorm.DB) error {
		l, err := s.loadLead(ctx, tx, leadID)
		if err != nil {
			return err
		}

		created, err = s.distribute(ctx, tx, l, sel, maxProviders)
		if err != nil {
			return err
		}
		if strict && len(created) == 0 && len(sel.ProviderIDs) > 0 {
			return ErrAlreadyDistributed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Redistribute re-runs the auto pipeline against the current exclusion
// set, topping the lead up with providers it has not reached yet. The
// ledger makes this naturally idempotent: only the delta is created.
func (s *Service) Redistribute(ctx context.Context, leadID int64) ([]domain.Distribution, error) {
	var created []domain.Distribution
	err := s.db.Transaction(func(tx *gorm.DB) error {
		l, err := s.loadLead(ctx, tx, leadID)
		if err != nil {
			return err
		}
		created, err = s.distribute(ctx, tx, l, Selector{}, s.cfg.MaxProviders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) distribute(ctx context.Context, tx *gorm.DB, l *domain.Lead, sel Selector, maxProviders int) ([]domain.Distribution, error) {
	ledger := repository.NewDistributionRepository(tx)

	excluded, err := ledger.ProviderIDsForLead(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.resolveCandidates(ctx, tx, l, sel, excluded)
	if err != nil {
		return nil, err
	}

	ranked := RankAndTruncate(candidates, maxProviders)

	created := make([]domain.Distribution, 0, len(ranked))
	for _, p := range ranked {
		d, isNew, err := ledger.GetOrCreate(ctx, l.ID, p.ID)
		if err != nil {
			return nil, err
		}
		if isNew {
			created = append(created, *d)
		}
	}

	if len(created) > 0 {
		if err := s.markDistributed(ctx, tx, l, 0); err != nil {
			return nil, err
		}
		for _, d := range created {
			s.enqueue(notification.LeadAssigned(d.ID))
		}
		s.log.Info().
			Int64("lead_id", l.ID).
			Int("created", len(created)).
			Msg("lead distributed")
	}
	return created, nil
}

func (s *Service) markDistributed(ctx context.Context, tx *gorm.DB, l *domain.Lead, priority int) error {
	now := time.Now()
	updates := map[string]any{}
	if !l.Distributed {
		l.Distributed = true
		l.DistributedAt = &now
		updates["distributed"] = true
		updates["distributed_at"] = now
	}
	if priority > l.Priority {
		l.Priority = priority
		updates["priority"] = priority
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", l.ID).Updates(updates).Error
}

func (s *Service) loadLead(ctx context.Context, tx *gorm.DB, leadID int64) (*domain.Lead, error) {
	l, err := repository.NewLeadRepository(tx).GetByID(ctx, leadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) enqueue(e notification.Event) {
	if s.notifier != nil {
		s.notifier.Enqueue(e)
	}
}
