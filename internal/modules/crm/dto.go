package crm

import "time"

type LogInteractionRequest struct {
	LeadID     int64  `json:"lead_id" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
	Notes      string `json:"notes,omitempty"`
	Successful bool   `json:"successful,omitempty"`

	FollowUpAt    *time.Time `json:"follow_up_at,omitempty"`
	FollowUpNotes string     `json:"follow_up_notes,omitempty"`
}

type AddNoteRequest struct {
	LeadID  int64  `json:"lead_id" binding:"required"`
	Body    string `json:"body" binding:"required"`
	Private *bool  `json:"private,omitempty"`
}
