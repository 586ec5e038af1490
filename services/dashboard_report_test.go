package services

import (
	"context"
	"testing"
	"time"

	"saas_juridico_gateway/models"
	"saas_juridico_gateway/services/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateDashboardWorkbook(t *testing.T) {
	ctx := context.Background()
	report := &DashboardReport{
		Stats: models.DashboardStats{Dashboard: models.DashboardSummary{TotalProcesses: 42, TotalClients: 12}},
		Deadlines: []models.UrgentDeadline{
			{ID: "d1", Title: "Recurso", ProcessSubject: "Execução fiscal", DueDate: ts(fixedNow.Add(-48 * time.Hour)), DaysLeft: -2, Status: models.UrgentStatusOverdue},
		},
		Activities: []models.Activity{
			{ID: "client_1", Type: models.ActivityClientAdded, Title: "Novo cliente cadastrado", Description: "Ana - Sem especialidade", Timestamp: fixedNow},
		},
		GeneratedAt: fixedNow,
	}

	buf, err := GenerateDashboardWorkbook(ctx, report)
	require.NoError(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumo", "Prazos urgentes", "Atividades recentes"}, f.GetSheetList())

	total, err := f.GetCellValue("Resumo", "B4")
	assert.NoError(t, err)
	assert.Equal(t, "42", total)

	status, err := f.GetCellValue("Prazos urgentes", "E2")
	assert.NoError(t, err)
	assert.Equal(t, "Vencido", status)

	days, err := f.GetCellValue("Prazos urgentes", "D2")
	assert.NoError(t, err)
	assert.Equal(t, "-2", days)

	description, err := f.GetCellValue("Atividades recentes", "D2")
	assert.NoError(t, err)
	assert.Equal(t, "Ana - Sem especialidade", description)
}

func TestBuildDashboardReport(t *testing.T) {
	m := new(MockDataService)
	m.On("ListProcesses", mock.Anything, auth, 0).Return([]models.Process{}, nil)
	m.On("ListProcesses", mock.Anything, auth, 5).Return([]models.Process{}, nil)
	m.On("ListClients", mock.Anything, auth, 5).Return([]models.Client{}, nil)
	m.On("StatsSummary", mock.Anything, auth, backend.StatsProcesses).Return(map[string]any{"total_processes": float64(3)}, nil)
	m.On("StatsSummary", mock.Anything, auth, mock.Anything).Return(map[string]any{}, nil)

	svc := NewDashboardService(m, 2).WithClock(func() time.Time { return fixedNow })
	report, err := svc.BuildDashboardReport(context.Background(), auth)

	require.NoError(t, err)
	assert.Equal(t, float64(3), report.Stats.Dashboard.TotalProcesses)
	assert.Empty(t, report.Deadlines)
	assert.Empty(t, report.Activities)
	assert.Equal(t, fixedNow, report.GeneratedAt)
}
