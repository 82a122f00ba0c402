package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"livestock/internal/domain"
	"livestock/internal/service"
)

func TestCreateEarnings_Pending(t *testing.T) {
	t.Parallel()

	repo := NewMockEarningsRepository()
	svc := service.NewEarningsService(repo)

	e, err := svc.CreateEarnings(context.Background(), service.CreateEarningsRequest{
		TransporterID: "T1",
		JobID:         "J1",
		Amount:        350,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != domain.EarningsStatusPending {
		t.Errorf("expected pending, got %s", e.Status)
	}
	if !e.PaidAt.IsZero() {
		t.Error("paidAt must be unset")
	}
	if repo.Count() != 1 {
		t.Errorf("expected 1 stored record, got %d", repo.Count())
	}
}

func TestCreateEarnings_Validation(t *testing.T) {
	t.Parallel()

	svc := service.NewEarningsService(NewMockEarningsRepository())

	tests := []struct {
		name    string
		req     service.CreateEarningsRequest
		wantErr error
	}{
		{"missing transporter", service.CreateEarningsRequest{JobID: "J1", Amount: 1}, service.ErrInvalidTransporterID},
		{"missing job", service.CreateEarningsRequest{TransporterID: "T1", Amount: 1}, service.ErrInvalidJobID},
		{"negative amount", service.CreateEarningsRequest{TransporterID: "T1", JobID: "J1", Amount: -5}, service.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEarnings(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func seedEarnings(repo *MockEarningsRepository) {
	now := time.Now()
	records := []*domain.Earnings{
		{ID: "E1", TransporterID: "T1", JobID: "J1", Amount: 100, Status: domain.EarningsStatusCompleted, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "E2", TransporterID: "T1", JobID: "J2", Amount: 200, Status: domain.EarningsStatusCompleted, CreatedAt: now.Add(-20 * 24 * time.Hour)},
		{ID: "E3", TransporterID: "T1", JobID: "J3", Amount: 400, Status: domain.EarningsStatusCompleted, CreatedAt: now.Add(-200 * 24 * time.Hour)},
		{ID: "E4", TransporterID: "T1", JobID: "J4", Amount: 50, Status: domain.EarningsStatusPending, CreatedAt: now.Add(-time.Hour)},
		{ID: "E5", TransporterID: "T1", JobID: "J5", Amount: 75, Status: domain.EarningsStatusCancelled, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "E6", TransporterID: "T2", JobID: "J6", Amount: 999, Status: domain.EarningsStatusCompleted, CreatedAt: now},
	}
	for _, e := range records {
		repo.AddEarnings(e)
	}
}

func TestListEarnings_Timeframes(t *testing.T) {
	t.Parallel()

	repo := NewMockEarningsRepository()
	seedEarnings(repo)
	svc := service.NewEarningsService(repo)

	tests := []struct {
		timeframe service.Timeframe
		wantIDs   []string
	}{
		{service.TimeframeWeek, []string{"E4", "E5", "E1"}},
		{service.TimeframeMonth, []string{"E4", "E5", "E1", "E2"}},
		{service.TimeframeYear, []string{"E4", "E5", "E1", "E2", "E3"}},
		{service.TimeframeAll, []string{"E4", "E5", "E1", "E2", "E3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.timeframe), func(t *testing.T) {
			records, err := svc.ListEarnings(context.Background(), "T1", tt.timeframe)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("expected %d records, got %d", len(tt.wantIDs), len(records))
			}
			for i, id := range tt.wantIDs {
				if records[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, records[i].ID)
				}
			}
		})
	}
}

func TestEarningsSummary(t *testing.T) {
	t.Parallel()

	repo := NewMockEarningsRepository()
	seedEarnings(repo)
	svc := service.NewEarningsService(repo)

	summary, err := svc.Summary(context.Background(), "T1", service.TimeframeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalEarnings != 700 {
		t.Errorf("expected total 700, got %v", summary.TotalEarnings)
	}
	if summary.CompletedCount != 3 {
		t.Errorf("expected 3 completed, got %d", summary.CompletedCount)
	}
	if summary.PeriodEarnings != 300 {
		t.Errorf("expected period earnings 300, got %v", summary.PeriodEarnings)
	}
	if summary.PendingAmount != 50 {
		t.Errorf("expected pending 50, got %v", summary.PendingAmount)
	}
	if len(summary.Records) != 4 {
		t.Errorf("expected 4 records in period, got %d", len(summary.Records))
	}
}

func TestParseTimeframe(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]service.Timeframe{
		"":      service.TimeframeAll,
		"week":  service.TimeframeWeek,
		"month": service.TimeframeMonth,
		"year":  service.TimeframeYear,
		"all":   service.TimeframeAll,
	} {
		got, err := service.ParseTimeframe(in)
		if err != nil || got != want {
			t.Errorf("ParseTimeframe(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := service.ParseTimeframe("decade"); !errors.Is(err, service.ErrInvalidTimeframe) {
		t.Errorf("expected ErrInvalidTimeframe, got %v", err)
	}
}

func TestTimeframeCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

	if got := service.TimeframeWeek.Cutoff(now); !got.Equal(time.Date(2024, time.March, 24, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("week cutoff: got %v", got)
	}
	if got := service.TimeframeYear.Cutoff(now); !got.Equal(time.Date(2023, time.March, 31, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("year cutoff: got %v", got)
	}
	if got := service.TimeframeAll.Cutoff(now); !got.IsZero() {
		t.Errorf("all cutoff must be zero, got %v", got)
	}
}
