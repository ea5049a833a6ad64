package lead

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/pkg/validator"
	"rihla/internal/repository"
)

type Service struct {
	db          *gorm.DB
	distributor Distributor
	log         zerolog.Logger
}

func NewService(db *gorm.DB, distributor Distributor, log zerolog.Logger) *Service {
	return &Service{db: db, distributor: distributor, log: log}
}

// Create validates and persists the lead, then distributes it inside the
// same transaction. Zero matched providers is not an error; the premium
// sweep picks such leads up later.
func (s *Service) Create(ctx context.Context, userID int64, req CreateLeadRequest) (*domain.Lead, int, error) {
	l, err := s.buildLead(ctx, userID, req)
	if err != nil {
		return nil, 0, err
	}

	var distributed int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLeadRepository(tx).Create(ctx, l); err != nil {
			return err
		}
		created, err := s.distributor.AutoDistribute(ctx, tx, l)
		if err != nil {
			return err
		}
		distributed = len(created)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.log.Info().
		Int64("lead_id", l.ID).
		Str("kind", string(l.Kind)).
		Int("distributed_to", distributed).
		Msg("lead created")
	return l, distributed, nil
}

func (s *Service) buildLead(ctx context.Context, userID int64, req CreateLeadRequest) (*domain.Lead, error) {
	kind := domain.LeadKind(req.Kind)

	if req.PreferredDate != nil && req.PreferredDate.Before(time.Now().Truncate(24*time.Hour)) {
		return nil, fmt.Errorf("%w: preferred date is in the past", ErrValidation)
	}

	partySize := req.PartySize
	if partySize == 0 {
		partySize = 1
	}
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
	}

	catalog := repository.NewCatalogRepository(s.db)
	switch kind {
	case domain.LeadKindPackage:
		if req.PackageID == nil || req.ServiceID != nil {
			return nil, fmt.Errorf("%w: package lead requires package_id and no service_id", ErrValidation)
		}
		if _, err := catalog.GetPackage(ctx, *req.PackageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, err
		}
	case domain.LeadKindService:
		if req.ServiceID == nil || req.PackageID != nil {
			return nil, fmt.Errorf("%w: service lead requires service_id and no package_id", ErrValidation)
		}
		if _, err := catalog.GetService(ctx, *req.ServiceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, err
		}
	case domain.LeadKindCustom:
		if req.PackageID != nil || req.ServiceID != nil {
			return nil, fmt.Errorf("%w: custom lead must not reference a package or service", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown lead kind %q", ErrValidation, req.Kind)
	}

	l := &domain.Lead{
		UserID:              userID,
		Kind:                kind,
		PackageID:           req.PackageID,
		ServiceID:           req.ServiceID,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		PreferredDate:       req.PreferredDate,
		PartySize:           partySize,
		Budget:              req.Budget,
		DepartureCity:       req.DepartureCity,
		HotelCategory:       req.HotelCategory,
		SpecialRequirements: req.SpecialRequirements,
		CustomMessage:       req.CustomMessage,
		SelectedServices:    req.SelectedServices,
		Status:              domain.LeadPending,
		ExpiresAt:           time.Now().Add(domain.LeadTTL),
	}
	if fields := validator.Validate(l); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64, actor domain.Actor) (*domain.Lead, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && l.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return l, nil
}

// List returns the caller's own leads; admins see everything.
func (s *Service) List(ctx context.Context, actor domain.Actor, q ListQuery) ([]domain.Lead, int64, error) {
	f := repository.LeadFilters{
		Budget: q.Budget,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Status != "" {
		st := domain.LeadStatus(q.Status)
		f.Status = &st
	}
	if q.Kind != "" {
		k := domain.LeadKind(q.Kind)
		f.Kind = &k
	}
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}
	return repository.NewLeadRepository(s.db).List(ctx, f)
}

// UpdateStatus drives the forward-only state machine. Rejecting a lead
// also closes out every open delivery in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, id int64, actor domain.Actor, to domain.LeadStatus) (*domain.Lead, error) {
	l, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if !l.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, l.Status, to)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		l.Status = to
		if err := repository.NewLeadRepository(tx).Update(ctx, l); err != nil {
			return err
		}
		if to == domain.LeadRejected {
			return s.distributor.IgnoreOpenForLead(ctx, tx, l.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("lead_id", l.ID).Str("status", string(to)).Msg("lead status updated")
	return l, nil
}

// GetStats reports the lead funnel. Conversion counts converted leads;
// response counts leads a provider engaged with (contacted or converted).
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	byStatus, err := repository.NewLeadRepository(s.db).CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	stats := &Stats{Total: total, ByStatus: byStatus}
	if total > 0 {
		converted := byStatus[domain.LeadConverted]
		responded := byStatus[domain.LeadContacted] + converted
		stats.ConversionRate = round2(float64(converted) / float64(total) * 100)
		stats.ResponseRate = round2(float64(responded) / float64(total) * 100)
	}
	return stats, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Lead, error) {
	l, err := repository.NewLeadRepository(s.db).GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
