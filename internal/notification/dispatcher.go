package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/repository"
)

const dispatchTimeout = 10 * time.Second

// Dispatcher delivers notification events decoupled from the operations
// that emit them: Enqueue never blocks and ledger commits never wait on
// delivery. Idempotency markers on the distribution row keep re-enqueued
// events from producing duplicate sends.
type Dispatcher struct {
	db    *gorm.DB
	hub   *Hub
	log   zerolog.Logger
	queue chan Event
	done  chan struct{}
}

func NewDispatcher(db *gorm.DB, hub *Hub, log zerolog.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		db:    db,
		hub:   hub,
		log:   log.With().Str("component", "notification").Logger(),
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for e := range d.queue {
			d.process(e)
		}
	}()
}

// Stop drains the queue and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}

// Enqueue is fire-and-forget; when the queue is full the event is dropped
// and logged rather than blocking the caller.
func (d *Dispatcher) Enqueue(e Event) {
	select {
	case d.queue <- e:
	default:
		d.log.Warn().Str("kind", e.Kind).Msg("notification queue full, dropping event")
	}
}

func (d *Dispatcher) process(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	var err error
	switch e.Kind {
	case domain.NotificationLeadAssigned:
		err = d.deliverAssignment(ctx, e.DistributionID)
	case domain.NotificationLeadResponded:
		err = d.deliverResponse(ctx, e.DistributionID)
	case domain.NotificationFollowUpDue:
		err = d.deliverFollowUp(ctx, e.InteractionID)
	default:
		d.log.Warn().Str("kind", e.Kind).Msg("unknown event kind")
		return
	}
	if err != nil {
		d.log.Error().Err(err).Str("kind", e.Kind).Msg("notification delivery failed")
	}
}

func (d *Dispatcher) deliverAssignment(ctx context.Context, distributionID string) error {
	dists := repository.NewDistributionRepository(d.db)

	dist, err := dists.GetByID(ctx, distributionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The originating transaction rolled back; nothing to deliver.
		d.log.Debug().Str("distribution_id", distributionID).Msg("skipping unknown distribution")
		return nil
	}
	if err != nil {
		return err
	}
	if dist.InAppSent {
		return nil
	}

	provider, err := repository.NewProviderRepository(d.db).GetByID(ctx, dist.ProviderID)
	if err != nil {
		return err
	}
	lead, err := repository.NewLeadRepository(d.db).GetByID(ctx, dist.LeadID)
	if err != nil {
		return err
	}

	n := &domain.Notification{
		UserID: provider.UserID,
		Type:   domain.NotificationLeadAssigned,
		Title:  "New lead",
		Body:   fmt.Sprintf("A new %s lead from %s is waiting for your response.", lead.Kind, lead.ContactName),
		Data:   mustJSON(map[string]any{"distribution_id": dist.ID, "lead_id": lead.ID}),
	}
	if err := repository.NewNotificationRepository(d.db).Create(ctx, n); err != nil {
		return err
	}

	d.hub.Push(provider.UserID, &WSEvent{Type: n.Type, Payload: n})

	dist.InAppSent = true
	return dists.Update(ctx, dist)
}

func (d *Dispatcher) deliverResponse(ctx context.Context, distributionID string) error {
	dists := repository.NewDistributionRepository(d.db)

	dist, err := dists.GetByID(ctx, distributionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Debug().Str("distribution_id", distributionID).Msg("skipping unknown distribution")
		return nil
	}
	if err != nil {
		return err
	}
	if dist.ResponseSent {
		return nil
	}

	lead, err := repository.NewLeadRepository(d.db).GetByID(ctx, dist.LeadID)
	if err != nil {
		return err
	}
	provider, err := repository.NewProviderRepository(d.db).GetByID(ctx, dist.ProviderID)
	if err != nil {
		return err
	}

	n := &domain.Notification{
		UserID: lead.UserID,
		Type:   domain.NotificationLeadResponded,
		Title:  "Provider responded",
		Body:   fmt.Sprintf("%s responded to your inquiry.", provider.CompanyName),
		Data:   mustJSON(map[string]any{"distribution_id": dist.ID, "lead_id": lead.ID}),
	}
	if err := repository.NewNotificationRepository(d.db).Create(ctx, n); err != nil {
		return err
	}

	d.hub.Push(lead.UserID, &WSEvent{Type: n.Type, Payload: n})

	dist.ResponseSent = true
	return dists.Update(ctx, dist)
}

func (d *Dispatcher) deliverFollowUp(ctx context.Context, interactionID int64) error {
	crm := repository.NewCRMRepository(d.db)

	i, err := crm.GetInteraction(ctx, interactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Debug().Int64("interaction_id", interactionID).Msg("skipping unknown interaction")
		return nil
	}
	if err != nil {
		return err
	}

	provider, err := repository.NewProviderRepository(d.db).GetByID(ctx, i.ProviderID)
	if err != nil {
		return err
	}

	n := &domain.Notification{
		UserID: provider.UserID,
		Type:   domain.NotificationFollowUpDue,
		Title:  "Follow-up due today",
		Body:   fmt.Sprintf("Follow up on lead #%d: %s", i.LeadID, i.FollowUpNotes),
		Data:   mustJSON(map[string]any{"interaction_id": i.ID, "lead_id": i.LeadID}),
	}
	if err := repository.NewNotificationRepository(d.db).Create(ctx, n); err != nil {
		return err
	}

	d.hub.Push(provider.UserID, &WSEvent{Type: n.Type, Payload: n})
	return nil
}

func mustJSON(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}
