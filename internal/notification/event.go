package notification

import "rihla/internal/domain"

// Event is the enqueue unit handed to the dispatcher. It carries ids only;
// the dispatcher dereferences them at delivery time, so events whose
// originating transaction rolled back resolve to nothing and are skipped.
type Event struct {
	Kind           string
	DistributionID string
	InteractionID  int64
}

func LeadAssigned(distributionID string) Event {
	return Event{Kind: domain.NotificationLeadAssigned, DistributionID: distributionID}
}

func LeadResponded(distributionID string) Event {
	return Event{Kind: domain.NotificationLeadResponded, DistributionID: distributionID}
}

func FollowUpDue(interactionID int64) Event {
	return Event{Kind: domain.NotificationFollowUpDue, InteractionID: interactionID}
}
