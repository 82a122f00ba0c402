package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"livestock/internal/domain"
	"livestock/internal/repository"
)

// Timeframe bounds an earnings listing by creation time.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// ParseTimeframe validates a timeframe name. Empty means all.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case "":
		return TimeframeAll, nil
	case TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll:
		return tf, nil
	}
	return "", ErrInvalidTimeframe
}

// Cutoff returns the earliest creation time inside the timeframe.
// The zero time means unbounded.
func (tf Timeframe) Cutoff(now time.Time) time.Time {
	switch tf {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	case TimeframeYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// EarningsService handles transporter earnings.
type EarningsService struct {
	earningsRepo repository.EarningsRepository
}

// NewEarningsService creates a new EarningsService.
func NewEarningsService(earningsRepo repository.EarningsRepository) *EarningsService {
	return &EarningsService{earningsRepo: earningsRepo}
}

// CreateEarningsRequest contains the parameters for recording earnings.
type CreateEarningsRequest struct {
	TransporterID string
	JobID         string
	Amount        float64
}

// CreateEarnings records a pending earnings entry for a job.
func (s *EarningsService) CreateEarnings(ctx context.Context, req CreateEarningsRequest) (*domain.Earnings, error) {
	if req.TransporterID == "" {
		return nil, ErrInvalidTransporterID
	}

	if req.JobID == "" {
		return nil, ErrInvalidJobID
	}

	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	earnings := &domain.Earnings{
		ID:            uuid.New().String(),
		TransporterID: req.TransporterID,
		JobID:         req.JobID,
		Amount:        req.Amount,
		Status:        domain.EarningsStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.earningsRepo.Create(ctx, earnings); err != nil {
		return nil, err
	}

	return earnings, nil
}

// ListEarnings returns a transporter's earnings created within the
// timeframe, newest first.
func (s *EarningsService) ListEarnings(ctx context.Context, transporterID string, timeframe Timeframe) ([]*domain.Earnings, error) {
	all, err := s.listAll(ctx, transporterID)
	if err != nil {
		return nil, err
	}
	return withinTimeframe(all, timeframe, time.Now()), nil
}

func (s *EarningsService) listAll(ctx context.Context, transporterID string) ([]*domain.Earnings, error) {
	if transporterID == "" {
		return nil, ErrInvalidTransporterID
	}

	records, err := s.earningsRepo.ListByTransporter(ctx, transporterID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func withinTimeframe(records []*domain.Earnings, timeframe Timeframe, now time.Time) []*domain.Earnings {
	cutoff := timeframe.Cutoff(now)
	if cutoff.IsZero() {
		return records
	}

	filtered := make([]*domain.Earnings, 0, len(records))
	for _, e := range records {
		if !e.CreatedAt.Before(cutoff) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// EarningsSummary aggregates a transporter's earnings.
type EarningsSummary struct {
	TransporterID  string
	Timeframe      Timeframe
	TotalEarnings  float64 // Completed records, all time
	CompletedCount int
	PeriodEarnings float64 // Completed records inside the timeframe
	PendingAmount  float64 // Pending records, all time
	Records        []*domain.Earnings
}

// Summary totals a transporter's earnings. Only completed records count
// towards totals; Records holds the entries inside the timeframe.
func (s *EarningsService) Summary(ctx context.Context, transporterID string, timeframe Timeframe) (*EarningsSummary, error) {
	all, err := s.listAll(ctx, transporterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	period := withinTimeframe(all, timeframe, now)

	summary := &EarningsSummary{
		TransporterID: transporterID,
		Timeframe:     timeframe,
		Records:       period,
	}
	for _, e := range all {
		switch e.Status {
		case domain.EarningsStatusCompleted:
			summary.TotalEarnings += e.Amount
			summary.CompletedCount++
		case domain.EarningsStatusPending:
			summary.PendingAmount += e.Amount
		}
	}
	for _, e := range period {
		if e.Status == domain.EarningsStatusCompleted {
			summary.PeriodEarnings += e.Amount
		}
	}

	return summary, nil
}
