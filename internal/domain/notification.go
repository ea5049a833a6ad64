package domain

import "time"

// Notification type constants
const (
	NotificationLeadAssigned  = "lead.assigned"
	NotificationLeadResponded = "lead.responded"
	NotificationFollowUpDue   = "crm.follow_up_due"
)

// Notification is an in-app notification record for a user.
type Notification struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"index"`
	Type      string     `json:"type" gorm:"index"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Data      string     `json:"data" gorm:"type:text"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
}
