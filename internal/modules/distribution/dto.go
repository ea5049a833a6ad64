package distribution

import "rihla/internal/domain"

// DistributeRequest triggers a manual distribution pass. ProviderIDs take
// precedence over BusinessTypes; with neither set the classifier picks
// the target types from the lead's content. SubscribedOnly restricts
// type-matched candidates to providers with an active subscription.
type DistributeRequest struct {
	ProviderIDs    []int64  `json:"provider_ids,omitempty"`
	BusinessTypes  []string `json:"business_types,omitempty"`
	MaxProviders   int      `json:"max_providers,omitempty"`
	Strict         bool     `json:"strict,omitempty"`
	SubscribedOnly bool     `json:"subscribed_only,omitempty"`
}

func (r DistributeRequest) selector() Selector {
	sel := Selector{ProviderIDs: r.ProviderIDs, SubscribedOnly: r.SubscribedOnly}
	for _, t := range r.BusinessTypes {
		sel.BusinessTypes = append(sel.BusinessTypes, domain.BusinessType(t))
	}
	return sel
}

type RespondRequest struct {
	Message     string   `json:"message"`
	QuotedPrice *float64 `json:"quoted_price,omitempty"`
}

type DistributionResponse struct {
	ID          string                    `json:"id"`
	LeadID      int64                     `json:"lead_id"`
	ProviderID  int64                     `json:"provider_id"`
	Status      domain.DistributionStatus `json:"status"`
	SentAt      string                    `json:"sent_at"`
	ViewedAt    *string                   `json:"viewed_at,omitempty"`
	RespondedAt *string                   `json:"responded_at,omitempty"`
	Message     string                    `json:"response_message,omitempty"`
	QuotedPrice *float64                  `json:"quoted_price,omitempty"`
	Lead        *domain.Lead              `json:"lead,omitempty"`
}

func toResponse(d *domain.Distribution) DistributionResponse {
	resp := DistributionResponse{
		ID:          d.ID,
		LeadID:      d.LeadID,
		ProviderID:  d.ProviderID,
		Status:      d.Status,
		SentAt:      d.SentAt.Format(timeLayout),
		Message:     d.ResponseMessage,
		QuotedPrice: d.QuotedPrice,
	}
	if d.ViewedAt != nil {
		s := d.ViewedAt.Format(timeLayout)
		resp.ViewedAt = &s
	}
	if d.RespondedAt != nil {
		s := d.RespondedAt.Format(timeLayout)
		resp.RespondedAt = &s
	}
	resp.Lead = d.Lead
	return resp
}

func toResponses(ds []domain.Distribution) []DistributionResponse {
	out := make([]DistributionResponse, 0, len(ds))
	for i := range ds {
		out = append(out, toResponse(&ds[i]))
	}
	return out
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
