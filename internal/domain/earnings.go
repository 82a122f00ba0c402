package domain

import "time"

// EarningsStatus represents the payout state of an earnings record.
type EarningsStatus string

const (
	EarningsStatusPending   EarningsStatus = "pending"
	EarningsStatusCompleted EarningsStatus = "completed"
	EarningsStatusCancelled EarningsStatus = "cancelled"
)

// Earnings is the amount owed to a transporter for one job.
type Earnings struct {
	ID            string
	TransporterID string
	JobID         string
	Amount        float64
	Status        EarningsStatus
	PaidAt        time.Time
	CreatedAt     time.Time
}
