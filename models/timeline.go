package models

import "time"

// Timeline event types
const (
	EventTypePetition = "petition"
	EventTypeDecision = "decision"
	EventTypeHearing  = "hearing"
	EventTypeDeadline = "deadline"
	EventTypeDocument = "document"
	EventTypeNote     = "note"
	EventTypeOther    = "other"
)

// TimelineEvent is an entry of GET /processes/{id}/timeline
type TimelineEvent struct {
	ID          ID        `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OccurredAt  Timestamp `json:"occurred_at"`
	CreatedAt   Timestamp `json:"created_at"`
}

// When returns occurred_at, or created_at when the event has no occurrence date
func (e TimelineEvent) When() time.Time {
	if !e.OccurredAt.IsZero() {
		return e.OccurredAt.Time
	}
	return e.CreatedAt.Time
}

// Deadline status constants
const (
	DeadlineStatusPending   = "pending"
	DeadlineStatusCompleted = "completed"
)

// Deadline is an entry of GET /processes/{id}/deadlines
type Deadline struct {
	ID      ID        `json:"id"`
	Title   string    `json:"title"`
	DueDate Timestamp `json:"due_date"`
	Status  string    `json:"status"`
}
