package document

import (
	"context"

	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/repository"
)

type earningsItem struct {
	ID            string  `json:"id" dynamodbav:"id"`
	TransporterID string  `json:"transporter_id" dynamodbav:"transporter_id"`
	JobID         string  `json:"job_id" dynamodbav:"job_id"`
	Amount        float64 `json:"amount" dynamodbav:"amount"`
	Status        string  `json:"status" dynamodbav:"status"`
	PaidAt        string  `json:"paid_at,omitempty" dynamodbav:"paid_at,omitempty"`
	CreatedAt     string  `json:"created_at" dynamodbav:"created_at"`
}

// EarningsRepository is a docstore implementation of repository.EarningsRepository.
type EarningsRepository struct {
	store docstore.Store
}

// NewEarningsRepository creates a new EarningsRepository.
func NewEarningsRepository(store docstore.Store) *EarningsRepository {
	return &EarningsRepository{store: store}
}

// Create persists a new earnings record.
func (r *EarningsRepository) Create(ctx context.Context, e *domain.Earnings) error {
	it := &earningsItem{
		ID:            e.ID,
		TransporterID: e.TransporterID,
		JobID:         e.JobID,
		Amount:        e.Amount,
		Status:        string(e.Status),
		PaidAt:        formatTime(e.PaidAt),
		CreatedAt:     formatTime(e.CreatedAt),
	}
	return translate(r.store.Create(ctx, docstore.CollectionEarnings, e.ID, it))
}

// ListByTransporter retrieves all earnings records of a transporter.
func (r *EarningsRepository) ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Earnings, error) {
	var items []earningsItem
	if err := r.store.Query(ctx, docstore.CollectionEarnings, "transporter_id", transporterID, &items); err != nil {
		return nil, translate(err)
	}

	out := make([]*domain.Earnings, 0, len(items))
	for _, it := range items {
		out = append(out, &domain.Earnings{
			ID:            it.ID,
			TransporterID: it.TransporterID,
			JobID:         it.JobID,
			Amount:        it.Amount,
			Status:        domain.EarningsStatus(it.Status),
			PaidAt:        parseTime(it.PaidAt),
			CreatedAt:     parseTime(it.CreatedAt),
		})
	}
	return out, nil
}

var _ repository.EarningsRepository = (*EarningsRepository)(nil)
