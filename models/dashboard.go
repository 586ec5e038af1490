package models

import "time"

// Activity types shown in the dashboard feed
const (
	ActivityProcessCreated   = "process_created"
	ActivityClientAdded      = "client_added"
	ActivityDocumentUploaded = "document_uploaded"
	ActivityDeadlineAdded    = "deadline_added"
	ActivityProcessUpdated   = "process_updated"
)

// Activity id prefixes, one per source collection
const (
	ActivitySourceProcess  = "process"
	ActivitySourceClient   = "client"
	ActivitySourceTimeline = "timeline"
)

// Activity is a derived feed entry. It is never persisted.
type Activity struct {
	ID          string    `json:"id"` // "{source}_{originalId}"
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	ProcessID   string    `json:"process_id,omitempty"`
}

// Urgent deadline status constants
const (
	UrgentStatusOverdue = "overdue"
	UrgentStatusPending = "pending"
)

// UrgentDeadline is a deadline due within the urgency window
type UrgentDeadline struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	DueDate        Timestamp `json:"due_date"`
	ProcessID      string    `json:"process_id"`
	ProcessSubject string    `json:"process_subject"`
	DaysLeft       int       `json:"days_left"`
	Status         string    `json:"status"`
}

// DashboardSummary is the flattened view the dashboard cards read
type DashboardSummary struct {
	TotalProcesses  float64 `json:"totalProcesses"`
	ActiveProcesses float64 `json:"activeProcesses"`
	UrgentDeadlines float64 `json:"urgentDeadlines"`
	PendingTasks    float64 `json:"pendingTasks"`
	CompletionRate  float64 `json:"completionRate"`
	TotalClients    float64 `json:"totalClients"`
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
}

// DashboardStats carries the four raw stat blocks plus the summary
type DashboardStats struct {
	Processes   map[string]any   `json:"processes"`
	Clients     map[string]any   `json:"clients"`
	Users       map[string]any   `json:"users"`
	Specialties map[string]any   `json:"specialties"`
	Dashboard   DashboardSummary `json:"dashboard"`
}
