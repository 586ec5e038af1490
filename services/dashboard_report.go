package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"saas_juridico_gateway/models"
	"saas_juridico_gateway/services/i18n"

	"github.com/xuri/excelize/v2"
)

// DashboardReport is everything the export workbook shows
type DashboardReport struct {
	Stats       models.DashboardStats
	Deadlines   []models.UrgentDeadline
	Activities  []models.Activity
	GeneratedAt time.Time
}

// BuildDashboardReport collects the three dashboard views for one caller.
// Only the urgent-deadline process list failure is fatal, as for the endpoint.
func (s *DashboardService) BuildDashboardReport(ctx context.Context, authorization string) (*DashboardReport, error) {
	deadlines, err := s.UrgentDeadlines(ctx, authorization)
	if err != nil {
		return nil, err
	}
	activities, err := s.RecentActivities(ctx, authorization)
	if err != nil {
		return nil, err
	}
	return &DashboardReport{
		Stats:       s.Stats(ctx, authorization),
		Deadlines:   deadlines,
		Activities:  activities,
		GeneratedAt: s.now(),
	}, nil
}

// GenerateDashboardWorkbook renders the report as an xlsx file
func GenerateDashboardWorkbook(ctx context.Context, report *DashboardReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// --- Summary Sheet ---
	sheetSummary := i18n.T(ctx, "report.sheets.summary")
	f.SetSheetName("Sheet1", sheetSummary)

	f.SetCellValue(sheetSummary, "A1", i18n.T(ctx, "report.title"))
	f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)
	f.SetCellValue(sheetSummary, "A2", i18n.T(ctx, "report.generated_at"))
	f.SetCellValue(sheetSummary, "B2", report.GeneratedAt.Format("02/01/2006 15:04"))

	summary := report.Stats.Dashboard
	rows := []struct {
		key   string
		value float64
	}{
		{"report.summary.total_processes", summary.TotalProcesses},
		{"report.summary.active_processes", summary.ActiveProcesses},
		{"report.summary.urgent_deadlines", summary.UrgentDeadlines},
		{"report.summary.pending_tasks", summary.PendingTasks},
		{"report.summary.completion_rate", summary.CompletionRate},
		{"report.summary.total_clients", summary.TotalClients},
		{"report.summary.monthly_revenue", summary.MonthlyRevenue},
	}
	for i, row := range rows {
		r := i + 4
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", r), i18n.T(ctx, row.key))
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", r), row.value)
	}
	f.SetColWidth(sheetSummary, "A", "A", 32)
	f.SetColWidth(sheetSummary, "B", "B", 18)

	// --- Urgent Deadlines Sheet ---
	sheetDeadlines := i18n.T(ctx, "report.sheets.deadlines")
	if _, err := f.NewSheet(sheetDeadlines); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheetDeadlines, err)
	}
	writeHeaders(f, sheetDeadlines, headerStyle, []string{
		i18n.T(ctx, "report.headers.title"),
		i18n.T(ctx, "report.headers.process"),
		i18n.T(ctx, "report.headers.due_date"),
		i18n.T(ctx, "report.headers.days_left"),
		i18n.T(ctx, "report.headers.status"),
	})
	for i, d := range report.Deadlines {
		r := i + 2
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("A%d", r), d.Title)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("B%d", r), d.ProcessSubject)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("C%d", r), d.DueDate.Format("02/01/2006"))
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("D%d", r), d.DaysLeft)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("E%d", r), i18n.T(ctx, "report.status."+d.Status))
	}
	f.SetColWidth(sheetDeadlines, "A", "B", 36)
	f.SetColWidth(sheetDeadlines, "C", "E", 16)

	// --- Recent Activities Sheet ---
	sheetActivities := i18n.T(ctx, "report.sheets.activities")
	if _, err := f.NewSheet(sheetActivities); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheetActivities, err)
	}
	writeHeaders(f, sheetActivities, headerStyle, []string{
		i18n.T(ctx, "report.headers.date"),
		i18n.T(ctx, "report.headers.type"),
		i18n.T(ctx, "report.headers.title"),
		i18n.T(ctx, "report.headers.description"),
	})
	for i, a := range report.Activities {
		r := i + 2
		f.SetCellValue(sheetActivities, fmt.Sprintf("A%d", r), a.Timestamp.Format("02/01/2006 15:04"))
		f.SetCellValue(sheetActivities, fmt.Sprintf("B%d", r), a.Type)
		f.SetCellValue(sheetActivities, fmt.Sprintf("C%d", r), a.Title)
		f.SetCellValue(sheetActivities, fmt.Sprintf("D%d", r), a.Description)
	}
	f.SetColWidth(sheetActivities, "A", "C", 22)
	f.SetColWidth(sheetActivities, "D", "D", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
