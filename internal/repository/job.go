package repository

import (
	"context"
	"time"

	"livestock/internal/domain"
)

// JobStatusChange is the set of fields written by a status transition.
// Zero values are left untouched.
type JobStatusChange struct {
	Status        domain.JobStatus
	TransporterID string
	AcceptedAt    time.Time
	CompletedAt   time.Time
}

// JobRepository defines the persistence operations for jobs.
type JobRepository interface {
	// Create persists a new job.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by ID.
	GetByID(ctx context.Context, id string) (*domain.Job, error)

	// ListByStatus retrieves all jobs in the given status.
	ListByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.Job, error)

	// ListByTransporter retrieves all jobs assigned to a transporter.
	ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Job, error)

	// UpdateStatus applies change only if the job is still in status from.
	// Returns ErrConflict if the status moved in the meantime.
	UpdateStatus(ctx context.Context, id string, from domain.JobStatus, change JobStatusChange) error
}
