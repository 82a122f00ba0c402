package document

import (
	"context"

	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/repository"
)

type coordinatesItem struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lng float64 `json:"lng" dynamodbav:"lng"`
}

type locationItem struct {
	Address     string          `json:"address" dynamodbav:"address"`
	Coordinates coordinatesItem `json:"coordinates" dynamodbav:"coordinates"`
}

type livestockItem struct {
	Type                string  `json:"type" dynamodbav:"type"`
	Quantity            int     `json:"quantity" dynamodbav:"quantity"`
	Weight              float64 `json:"weight,omitempty" dynamodbav:"weight,omitempty"`
	SpecialRequirements string  `json:"special_requirements,omitempty" dynamodbav:"special_requirements,omitempty"`
}

type jobItem struct {
	ID                string        `json:"id" dynamodbav:"id"`
	CustomerID        string        `json:"customer_id,omitempty" dynamodbav:"customer_id,omitempty"`
	CustomerName      string        `json:"customer_name" dynamodbav:"customer_name"`
	Status            string        `json:"status" dynamodbav:"status"`
	PickupLocation    locationItem  `json:"pickup_location" dynamodbav:"pickup_location"`
	DropoffLocation   locationItem  `json:"dropoff_location" dynamodbav:"dropoff_location"`
	PickupTime        string        `json:"pickup_time" dynamodbav:"pickup_time"`
	EstimatedDistance float64       `json:"estimated_distance" dynamodbav:"estimated_distance"`
	EstimatedDuration int           `json:"estimated_duration" dynamodbav:"estimated_duration"`
	Price             float64       `json:"price" dynamodbav:"price"`
	Livestock         livestockItem `json:"livestock_details" dynamodbav:"livestock_details"`
	TransporterID     string        `json:"transporter_id,omitempty" dynamodbav:"transporter_id,omitempty"`
	AcceptedAt        string        `json:"accepted_at,omitempty" dynamodbav:"accepted_at,omitempty"`
	CompletedAt       string        `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
	CreatedAt         string        `json:"created_at" dynamodbav:"created_at"`
}

func toLocationItem(l domain.Location) locationItem {
	return locationItem{
		Address:     l.Address,
		Coordinates: coordinatesItem{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
	}
}

func (l locationItem) toDomain() domain.Location {
	return domain.Location{
		Address:     l.Address,
		Coordinates: domain.Coordinates{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
	}
}

func toJobItem(j *domain.Job) *jobItem {
	return &jobItem{
		ID:                j.ID,
		CustomerID:        j.CustomerID,
		CustomerName:      j.CustomerName,
		Status:            string(j.Status),
		PickupLocation:    toLocationItem(j.PickupLocation),
		DropoffLocation:   toLocationItem(j.DropoffLocation),
		PickupTime:        formatTime(j.PickupTime),
		EstimatedDistance: j.EstimatedDistance,
		EstimatedDuration: j.EstimatedDuration,
		Price:             j.Price,
		Livestock: livestockItem{
			Type:                j.Livestock.Type,
			Quantity:            j.Livestock.Quantity,
			Weight:              j.Livestock.Weight,
			SpecialRequirements: j.Livestock.SpecialRequirements,
		},
		TransporterID: j.TransporterID,
		AcceptedAt:    formatTime(j.AcceptedAt),
		CompletedAt:   formatTime(j.CompletedAt),
		CreatedAt:     formatTime(j.CreatedAt),
	}
}

func (it *jobItem) toDomain() *domain.Job {
	return &domain.Job{
		ID:                it.ID,
		CustomerID:        it.CustomerID,
		CustomerName:      it.CustomerName,
		Status:            domain.JobStatus(it.Status),
		PickupLocation:    it.PickupLocation.toDomain(),
		DropoffLocation:   it.DropoffLocation.toDomain(),
		PickupTime:        parseTime(it.PickupTime),
		EstimatedDistance: it.EstimatedDistance,
		EstimatedDuration: it.EstimatedDuration,
		Price:             it.Price,
		Livestock: domain.LivestockDetails{
			Type:                it.Livestock.Type,
			Quantity:            it.Livestock.Quantity,
			Weight:              it.Livestock.Weight,
			SpecialRequirements: it.Livestock.SpecialRequirements,
		},
		TransporterID: it.TransporterID,
		AcceptedAt:    parseTime(it.AcceptedAt),
		CompletedAt:   parseTime(it.CompletedAt),
		CreatedAt:     parseTime(it.CreatedAt),
	}
}

// JobRepository is a docstore implementation of repository.JobRepository.
type JobRepository struct {
	store docstore.Store
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(store docstore.Store) *JobRepository {
	return &JobRepository{store: store}
}

// Create persists a new job.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return translate(r.store.Create(ctx, docstore.CollectionJobs, job.ID, toJobItem(job)))
}

// GetByID retrieves a job by ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var it jobItem
	if err := r.store.Get(ctx, docstore.CollectionJobs, id, &it); err != nil {
		return nil, translate(err)
	}
	return it.toDomain(), nil
}

// ListByStatus retrieves all jobs in the given status.
func (r *JobRepository) ListByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.Job, error) {
	return r.list(ctx, "status", string(status))
}

// ListByTransporter retrieves all jobs assigned to a transporter.
func (r *JobRepository) ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Job, error) {
	return r.list(ctx, "transporter_id", transporterID)
}

func (r *JobRepository) list(ctx context.Context, field, value string) ([]*domain.Job, error) {
	var items []jobItem
	if err := r.store.Query(ctx, docstore.CollectionJobs, field, value, &items); err != nil {
		return nil, translate(err)
	}

	jobs := make([]*domain.Job, 0, len(items))
	for i := range items {
		jobs = append(jobs, items[i].toDomain())
	}
	return jobs, nil
}

// UpdateStatus applies change only if the job is still in status from.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, from domain.JobStatus, change repository.JobStatusChange) error {
	fields := map[string]any{
		"status": string(change.Status),
	}
	if change.TransporterID != "" {
		fields["transporter_id"] = change.TransporterID
	}
	if !change.AcceptedAt.IsZero() {
		fields["accepted_at"] = formatTime(change.AcceptedAt)
	}
	if !change.CompletedAt.IsZero() {
		fields["completed_at"] = formatTime(change.CompletedAt)
	}

	err := r.store.Update(ctx, docstore.CollectionJobs, id, fields,
		docstore.FieldEquals("status", string(from)))
	return translate(err)
}

var _ repository.JobRepository = (*JobRepository)(nil)
