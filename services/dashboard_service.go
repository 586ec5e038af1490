package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"saas_juridico_gateway/models"
	"saas_juridico_gateway/services/backend"
	"saas_juridico_gateway/services/i18n"

	"golang.org/x/sync/errgroup"
)

// DataService is the part of the Backend Data Service the dashboard reads.
// *backend.Client implements it.
type DataService interface {
	ListProcesses(ctx context.Context, authorization string, limit int) ([]models.Process, error)
	ListClients(ctx context.Context, authorization string, limit int) ([]models.Client, error)
	ProcessTimeline(ctx context.Context, authorization, processID string, limit int) ([]models.TimelineEvent, error)
	ProcessDeadlines(ctx context.Context, authorization, processID string) ([]models.Deadline, error)
	StatsSummary(ctx context.Context, authorization, resource string) (map[string]any, error)
}

const (
	recentProcessLimit    = 5
	recentClientLimit     = 5
	timelineProcessSample = 3
	timelineEventLimit    = 3
	urgentProcessSample   = 10
	urgentWindowDays      = 7
	feedLimit             = 10
	millisPerDay          = 86400000
)

// timelineActivityTypes maps a timeline event type to the feed activity type.
// Types not listed map to process_updated.
var timelineActivityTypes = map[string]string{
	models.EventTypePetition: models.ActivityDocumentUploaded,
	models.EventTypeDecision: models.ActivityProcessUpdated,
	models.EventTypeHearing:  models.ActivityDeadlineAdded,
	models.EventTypeDeadline: models.ActivityDeadlineAdded,
	models.EventTypeDocument: models.ActivityDocumentUploaded,
	models.EventTypeNote:     models.ActivityProcessUpdated,
}

// DashboardService builds the dashboard views by fanning out to the backend.
// It holds no per-request state and is safe for concurrent use.
type DashboardService struct {
	backend DataService
	fanOut  int
	now     func() time.Time
}

// NewDashboardService creates the service. fanOut bounds how many per-process
// sub-requests run at the same time for one dashboard request.
func NewDashboardService(backend DataService, fanOut int) *DashboardService {
	if fanOut < 1 {
		fanOut = 1
	}
	return &DashboardService{
		backend: backend,
		fanOut:  fanOut,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for days-left computation
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats merges the four stat summaries. A failed summary becomes an empty
// block and its dashboard fields read as zero; Stats itself never fails.
func (s *DashboardService) Stats(ctx context.Context, authorization string) models.DashboardStats {
	resources := []string{
		backend.StatsProcesses,
		backend.StatsClients,
		backend.StatsUsers,
		backend.StatsSpecialties,
	}
	blocks := make([]map[string]any, len(resources))

	var g errgroup.Group
	for i, resource := range resources {
		g.Go(func() error {
			block, err := s.backend.StatsSummary(ctx, authorization, resource)
			if err != nil {
				log.Printf("[DASHBOARD] %s stats unavailable: %v", resource, err)
			}
			if block == nil {
				block = map[string]any{}
			}
			blocks[i] = block
			return nil
		})
	}
	_ = g.Wait()

	processes, clients := blocks[0], blocks[1]
	return models.DashboardStats{
		Processes:   processes,
		Clients:     clients,
		Users:       blocks[2],
		Specialties: blocks[3],
		Dashboard: models.DashboardSummary{
			TotalProcesses:  numberField(processes, "total_processes"),
			ActiveProcesses: numberField(processes, "active_processes"),
			UrgentDeadlines: numberField(processes, "urgent_processes"),
			PendingTasks:    0, // no task source in the backend yet
			CompletionRate:  numberField(processes, "completion_rate"),
			TotalClients:    numberField(clients, "total_clients"),
			MonthlyRevenue:  0, // no financial source in the backend yet
		},
	}
}

// RecentActivities merges the latest processes, clients and timeline events
// into one feed, most recent first, capped at ten entries.
func (s *DashboardService) RecentActivities(ctx context.Context, authorization string) ([]models.Activity, error) {
	processes, err := s.backend.ListProcesses(ctx, authorization, recentProcessLimit)
	if err != nil {
		if !absorbUpstream("recent processes", err) {
			return nil, fmt.Errorf("list recent processes: %w", err)
		}
		processes = nil
	}

	clients, err := s.backend.ListClients(ctx, authorization, recentClientLimit)
	if err != nil {
		if !absorbUpstream("recent clients", err) {
			return nil, fmt.Errorf("list recent clients: %w", err)
		}
		clients = nil
	}

	activities := make([]models.Activity, 0, len(processes)+len(clients)+timelineProcessSample*timelineEventLimit)
	for _, p := range processes {
		activities = append(activities, processActivity(ctx, p))
	}
	for _, c := range clients {
		activities = append(activities, clientActivity(ctx, c))
	}
	activities = append(activities, s.timelineActivities(ctx, authorization, head(processes, timelineProcessSample))...)

	SortActivities(activities)
	return head(activities, feedLimit), nil
}

// UrgentDeadlines lists open deadlines due within a week across the first ten
// processes, overdue ones first, capped at ten entries.
func (s *DashboardService) UrgentDeadlines(ctx context.Context, authorization string) ([]models.UrgentDeadline, error) {
	// The backend offers no "due soon" filter, so the full list is read and sampled.
	processes, err := s.backend.ListProcesses(ctx, authorization, 0)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	sampled := head(processes, urgentProcessSample)
	now := s.now()
	perProcess := make([][]models.UrgentDeadline, len(sampled))

	g := s.group()
	for i, p := range sampled {
		g.Go(func() error {
			deadlines, err := s.backend.ProcessDeadlines(ctx, authorization, p.ID.String())
			if err != nil {
				log.Printf("[DASHBOARD] Deadlines for process %s skipped: %v", p.ID, err)
				return nil
			}
			perProcess[i] = urgentFrom(p, deadlines, now)
			return nil
		})
	}
	_ = g.Wait()

	var urgent []models.UrgentDeadline
	for _, items := range perProcess {
		urgent = append(urgent, items...)
	}
	if urgent == nil {
		urgent = []models.UrgentDeadline{}
	}

	SortUrgentDeadlines(urgent)
	return head(urgent, feedLimit), nil
}

func (s *DashboardService) timelineActivities(ctx context.Context, authorization string, processes []models.Process) []models.Activity {
	perProcess := make([][]models.Activity, len(processes))

	g := s.group()
	for i, p := range processes {
		g.Go(func() error {
			events, err := s.backend.ProcessTimeline(ctx, authorization, p.ID.String(), timelineEventLimit)
			if err != nil {
				log.Printf("[DASHBOARD] Timeline for process %s skipped: %v", p.ID, err)
				return nil
			}
			events = head(events, timelineEventLimit)

			items := make([]models.Activity, 0, len(events))
			for _, e := range events {
				items = append(items, timelineActivity(ctx, p, e))
			}
			perProcess[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var out []models.Activity
	for _, items := range perProcess {
		out = append(out, items...)
	}
	return out
}

func (s *DashboardService) group() *errgroup.Group {
	g := new(errgroup.Group)
	g.SetLimit(s.fanOut)
	return g
}

func processActivity(ctx context.Context, p models.Process) models.Activity {
	clientName := p.ClientName()
	if clientName == "" {
		clientName = i18n.T(ctx, "activity.no_client")
	}
	return models.Activity{
		ID:          models.ActivitySourceProcess + "_" + p.ID.String(),
		Type:        models.ActivityProcessCreated,
		Title:       i18n.T(ctx, "activity.process_created"),
		Description: fmt.Sprintf("%s - %s", p.Subject, clientName),
		Timestamp:   p.CreatedAt.Time,
		ProcessID:   p.ID.String(),
	}
}

func clientActivity(ctx context.Context, c models.Client) models.Activity {
	specialty := c.SpecialtyName()
	if specialty == "" {
		specialty = i18n.T(ctx, "activity.no_specialty")
	}
	return models.Activity{
		ID:          models.ActivitySourceClient + "_" + c.ID.String(),
		Type:        models.ActivityClientAdded,
		Title:       i18n.T(ctx, "activity.client_added"),
		Description: fmt.Sprintf("%s - %s", c.Name, specialty),
		Timestamp:   c.CreatedAt.Time,
	}
}

func timelineActivity(ctx context.Context, p models.Process, e models.TimelineEvent) models.Activity {
	activityType, known := timelineActivityTypes[e.Type]
	titleKey := "activity.timeline." + e.Type
	if !known {
		activityType = models.ActivityProcessUpdated
		titleKey = "activity.timeline.default"
	}
	return models.Activity{
		ID:          models.ActivitySourceTimeline + "_" + e.ID.String(),
		Type:        activityType,
		Title:       i18n.T(ctx, titleKey),
		Description: fmt.Sprintf("%s - %s", e.Description, p.Subject),
		Timestamp:   e.When(),
		ProcessID:   p.ID.String(),
	}
}

func urgentFrom(p models.Process, deadlines []models.Deadline, now time.Time) []models.UrgentDeadline {
	var out []models.UrgentDeadline
	for _, d := range deadlines {
		// A deadline without a due date cannot be ranked
		if d.DueDate.IsZero() || d.Status == models.DeadlineStatusCompleted {
			continue
		}
		days := DaysLeft(d.DueDate.Time, now)
		if days > urgentWindowDays {
			continue
		}

		status := models.UrgentStatusPending
		if days < 0 {
			status = models.UrgentStatusOverdue
		}
		out = append(out, models.UrgentDeadline{
			ID:             d.ID.String(),
			Title:          d.Title,
			DueDate:        d.DueDate,
			ProcessID:      p.ID.String(),
			ProcessSubject: p.Subject,
			DaysLeft:       days,
			Status:         status,
		})
	}
	return out
}

// DaysLeft is ceil((due - now) / 1 day) at millisecond precision. Negative
// values mean the deadline has passed.
func DaysLeft(due, now time.Time) int {
	ms := due.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / millisPerDay))
}

// SortActivities orders a feed most recent first
func SortActivities(activities []models.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
}

// SortUrgentDeadlines puts every overdue entry before every pending one, then
// orders by days left ascending.
func SortUrgentDeadlines(items []models.UrgentDeadline) {
	sort.SliceStable(items, func(i, j int) bool {
		iOverdue := items[i].Status == models.UrgentStatusOverdue
		jOverdue := items[j].Status == models.UrgentStatusOverdue
		if iOverdue != jOverdue {
			return iOverdue
		}
		return items[i].DaysLeft < items[j].DaysLeft
	})
}

// absorbUpstream logs a non-2xx list answer and reports whether it can be
// treated as an empty list. Transport and decoding failures are not absorbed.
func absorbUpstream(what string, err error) bool {
	if _, ok := backend.AsUpstreamError(err); !ok {
		return false
	}
	log.Printf("[DASHBOARD] %s unavailable: %v", what, err)
	return true
}

func numberField(block map[string]any, key string) float64 {
	switch v := block[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		// some summaries send counts as numeric strings
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
