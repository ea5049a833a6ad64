package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/repository"
)

// CRM records are bookkeeping on top of the distribution ledger: a
// provider may only log against leads that were actually delivered to it.
type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) LogInteraction(ctx context.Context, providerID int64, req LogInteractionRequest) (*domain.Interaction, error) {
	kind := domain.InteractionKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}
	if req.FollowUpAt != nil && req.FollowUpAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: follow-up date is in the past", ErrValidation)
	}

	if err := s.requireDistributee(ctx, req.LeadID, providerID); err != nil {
		return nil, err
	}

	i := &domain.Interaction{
		ProviderID:    providerID,
		LeadID:        req.LeadID,
		Kind:          kind,
		Notes:         req.Notes,
		Successful:    req.Successful,
		FollowUpAt:    req.FollowUpAt,
		FollowUpNotes: req.FollowUpNotes,
	}
	if err := repository.NewCRMRepository(s.db).CreateInteraction(ctx, i); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("provider_id", providerID).
		Int64("lead_id", req.LeadID).
		Str("kind", req.Kind).
		Msg("interaction logged")
	return i, nil
}

func (s *Service) ListInteractions(ctx context.Context, providerID, leadID int64) ([]domain.Interaction, error) {
	return repository.NewCRMRepository(s.db).ListInteractions(ctx, providerID, leadID)
}

func (s *Service) AddNote(ctx context.Context, providerID int64, req AddNoteRequest) (*domain.LeadNote, error) {
	if err := s.requireDistributee(ctx, req.LeadID, providerID); err != nil {
		return nil, err
	}

	private := true
	if req.Private != nil {
		private = *req.Private
	}

	n := &domain.LeadNote{
		ProviderID: providerID,
		LeadID:     req.LeadID,
		Body:       req.Body,
		Private:    private,
	}
	if err := repository.NewCRMRepository(s.db).CreateNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListNotes(ctx context.Context, leadID, providerID int64) ([]domain.LeadNote, error) {
	if err := s.requireDistributee(ctx, leadID, providerID); err != nil {
		return nil, err
	}
	return repository.NewCRMRepository(s.db).ListNotesForLead(ctx, leadID, providerID)
}

func (s *Service) requireDistributee(ctx context.Context, leadID, providerID int64) error {
	ids, err := repository.NewDistributionRepository(s.db).ProviderIDsForLead(ctx, leadID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == providerID {
			return nil
		}
	}
	return ErrNotDistributee
}
