package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"livestock/internal/changefeed"
	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/redis"
	"livestock/internal/repository"
)

const jobLockTTL = 10 * time.Second

// JobService coordinates the job lifecycle.
type JobService struct {
	jobRepo              repository.JobRepository
	userRepo             repository.UserRepository
	lockStore            redis.LockStoreInterface
	notificationService  *NotificationService
	earningsService      *EarningsService
	feed                 changefeed.Feed
	earningsOnCompletion bool
}

// NewJobService creates a new JobService.
// lockStore may be nil, in which case transitions rely on the conditional
// status write alone.
func NewJobService(
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	notificationService *NotificationService,
	earningsService *EarningsService,
	feed changefeed.Feed,
	earningsOnCompletion bool,
) *JobService {
	return &JobService{
		jobRepo:              jobRepo,
		userRepo:             userRepo,
		lockStore:            lockStore,
		notificationService:  notificationService,
		earningsService:      earningsService,
		feed:                 feed,
		earningsOnCompletion: earningsOnCompletion,
	}
}

// TransitionResult contains the outcome of a status change.
// The status write is authoritative; the side effects that follow it are
// best-effort and their outcome is reported here.
type TransitionResult struct {
	Job *domain.Job

	// Notification is the customer notification, nil if none was sent.
	Notification *domain.Notification
	// NotificationErr is set when the customer notification failed.
	NotificationErr error

	// Earnings is the record created on completion, if enabled.
	Earnings *domain.Earnings
}

// AcceptJobRequest contains the parameters for accepting a job.
type AcceptJobRequest struct {
	JobID         string
	TransporterID string
}

// AcceptJob assigns a pending job to a transporter.
func (s *JobService) AcceptJob(ctx context.Context, req AcceptJobRequest) (*TransitionResult, error) {
	if req.JobID == "" {
		return nil, ErrInvalidJobID
	}

	if req.TransporterID == "" {
		return nil, ErrInvalidTransporterID
	}

	return s.transition(ctx, req.JobID, domain.JobStatusAccepted, nil, req.TransporterID)
}

// AdvanceJobRequest contains the parameters for advancing a job.
type AdvanceJobRequest struct {
	JobID   string
	Status  domain.JobStatus
	ActorID string // Optional: when set, must be the assigned transporter
}

// AdvanceJob moves an accepted job forward or cancels it.
func (s *JobService) AdvanceJob(ctx context.Context, req AdvanceJobRequest) (*TransitionResult, error) {
	if req.JobID == "" {
		return nil, ErrInvalidJobID
	}

	switch req.Status {
	case domain.JobStatusInProgress, domain.JobStatusCompleted, domain.JobStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	return s.transition(ctx, req.JobID, req.Status, func(job *domain.Job) error {
		if req.ActorID != "" && job.TransporterID != req.ActorID {
			return ErrNotAssignedTransporter
		}
		return nil
	}, "")
}

// transition performs one guarded status change followed by its side effects.
func (s *JobService) transition(
	ctx context.Context,
	jobID string,
	next domain.JobStatus,
	check func(job *domain.Job) error,
	transporterID string,
) (*TransitionResult, error) {
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireJobLock(ctx, jobID, jobLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrJobBusy
		}
		defer func() {
			if err := s.lockStore.ReleaseJobLock(context.WithoutCancel(ctx), jobID); err != nil {
				log.Printf("[JOB] lock release failed: job=%s err=%v", jobID, err)
			}
		}()
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(job); err != nil {
			return nil, err
		}
	}

	if !job.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	change := repository.JobStatusChange{Status: next}
	switch next {
	case domain.JobStatusAccepted:
		change.TransporterID = transporterID
		change.AcceptedAt = now
	case domain.JobStatusCompleted:
		change.CompletedAt = now
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, job.Status, change); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	previous := job.Status
	job.Status = next
	if change.TransporterID != "" {
		job.TransporterID = change.TransporterID
	}
	if !change.AcceptedAt.IsZero() {
		job.AcceptedAt = change.AcceptedAt
	}
	if !change.CompletedAt.IsZero() {
		job.CompletedAt = change.CompletedAt
	}

	log.Printf("[JOB] %s: %s -> %s transporter=%s", job.ID, previous, next, job.TransporterID)

	result := &TransitionResult{Job: job}
	s.notifyCustomer(ctx, result)

	if next == domain.JobStatusCompleted {
		s.recordCompletion(ctx, result)
	}

	return result, nil
}

// notifyCustomer tells the job's customer about its new status.
func (s *JobService) notifyCustomer(ctx context.Context, result *TransitionResult) {
	job := result.Job
	if job.CustomerID == "" || s.notificationService == nil {
		return
	}

	title, message := statusNotificationText(job)
	notification, err := s.notificationService.Notify(ctx, NotifyRequest{
		UserID:  job.CustomerID,
		Title:   title,
		Message: message,
		Type:    domain.NotificationJobUpdate,
		JobID:   job.ID,
	})
	if err != nil {
		log.Printf("[JOB] customer notification failed: job=%s customer=%s err=%v", job.ID, job.CustomerID, err)
		result.NotificationErr = err
		return
	}
	result.Notification = notification
}

// statusNotificationText returns the customer-facing title and message for
// a job's current status.
func statusNotificationText(job *domain.Job) (string, string) {
	livestock := job.Livestock.Type
	switch job.Status {
	case domain.JobStatusAccepted:
		return "Job Accepted", fmt.Sprintf("Your %s transport job has been accepted by a transporter.", livestock)
	case domain.JobStatusInProgress:
		return "Transport Started", fmt.Sprintf("Your %s transport is now in progress.", livestock)
	case domain.JobStatusCompleted:
		return "Transport Completed", fmt.Sprintf("Your %s transport has been completed.", livestock)
	case domain.JobStatusCancelled:
		return "Transport Cancelled", fmt.Sprintf("Your %s transport has been cancelled.", livestock)
	}
	return "Job Updated", fmt.Sprintf("Your %s transport is now %s.", livestock, job.Status)
}

// recordCompletion updates the transporter's trip count and, when enabled,
// creates the earnings record for the job.
func (s *JobService) recordCompletion(ctx context.Context, result *TransitionResult) {
	job := result.Job
	if job.TransporterID == "" {
		return
	}

	if s.userRepo != nil {
		if err := s.userRepo.IncrementTotalTrips(ctx, job.TransporterID); err != nil {
			log.Printf("[JOB] trip count update failed: job=%s transporter=%s err=%v", job.ID, job.TransporterID, err)
		}
	}

	if !s.earningsOnCompletion || s.earningsService == nil {
		return
	}

	earnings, err := s.earningsService.CreateEarnings(ctx, CreateEarningsRequest{
		TransporterID: job.TransporterID,
		JobID:         job.ID,
		Amount:        job.Price,
	})
	if err != nil {
		log.Printf("[JOB] earnings record failed: job=%s transporter=%s err=%v", job.ID, job.TransporterID, err)
		return
	}
	result.Earnings = earnings
}

// GetJob retrieves a job by ID.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if jobID == "" {
		return nil, ErrInvalidJobID
	}
	return s.jobRepo.GetByID(ctx, jobID)
}

// ListPendingJobs returns every pending job, newest first.
func (s *JobService) ListPendingJobs(ctx context.Context) ([]*domain.Job, error) {
	jobs, err := s.jobRepo.ListByStatus(ctx, domain.JobStatusPending)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

// HistoryFilter selects which of a transporter's jobs to list.
type HistoryFilter string

const (
	HistoryAll       HistoryFilter = "all"
	HistoryCompleted HistoryFilter = "completed"
	HistoryCancelled HistoryFilter = "cancelled"
)

// ParseHistoryFilter validates a history filter name. Empty means all.
func ParseHistoryFilter(s string) (HistoryFilter, error) {
	switch f := HistoryFilter(s); f {
	case "":
		return HistoryAll, nil
	case HistoryAll, HistoryCompleted, HistoryCancelled:
		return f, nil
	}
	return "", ErrInvalidHistoryFilter
}

// ListTransporterJobsRequest contains the parameters for a job history query.
type ListTransporterJobsRequest struct {
	TransporterID string
	Filter        HistoryFilter
	Search        string // Optional: case-insensitive substring
}

// ListTransporterJobs returns the jobs assigned to a transporter, newest
// first, narrowed by status filter and search text.
func (s *JobService) ListTransporterJobs(ctx context.Context, req ListTransporterJobsRequest) ([]*domain.Job, error) {
	if req.TransporterID == "" {
		return nil, ErrInvalidTransporterID
	}

	filter := req.Filter
	if filter == "" {
		filter = HistoryAll
	}

	jobs, err := s.jobRepo.ListByTransporter(ctx, req.TransporterID)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	filtered := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if filter != HistoryAll && string(job.Status) != string(filter) {
			continue
		}
		if search != "" && !jobMatches(job, search) {
			continue
		}
		filtered = append(filtered, job)
	}

	sortNewestFirst(filtered)
	return filtered, nil
}

// jobMatches reports whether a lower-cased search term appears in the
// job's customer name, addresses or livestock type.
func jobMatches(job *domain.Job, search string) bool {
	fields := []string{
		job.CustomerName,
		job.PickupLocation.Address,
		job.DropoffLocation.Address,
		job.Livestock.Type,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func sortNewestFirst(jobs []*domain.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}

// CreateJobRequest contains the parameters for posting a job.
type CreateJobRequest struct {
	CustomerID        string
	CustomerName      string
	PickupLocation    domain.Location
	DropoffLocation   domain.Location
	PickupTime        time.Time
	EstimatedDistance float64
	EstimatedDuration int
	Price             float64
	Livestock         domain.LivestockDetails
}

// CreateJob stores a new pending job and announces it to every online
// transporter. Announcements are best-effort.
func (s *JobService) CreateJob(ctx context.Context, req CreateJobRequest) (*domain.Job, error) {
	if err := validateLocation(req.PickupLocation); err != nil {
		return nil, err
	}

	if err := validateLocation(req.DropoffLocation); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Livestock.Type) == "" || req.Livestock.Quantity <= 0 || req.Livestock.Weight < 0 {
		return nil, ErrInvalidLivestock
	}

	if req.Price < 0 || req.EstimatedDistance < 0 || req.EstimatedDuration < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	pickupTime := req.PickupTime
	if pickupTime.IsZero() {
		pickupTime = now
	}

	job := &domain.Job{
		ID:                uuid.New().String(),
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		Status:            domain.JobStatusPending,
		PickupLocation:    req.PickupLocation,
		DropoffLocation:   req.DropoffLocation,
		PickupTime:        pickupTime,
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		Price:             req.Price,
		Livestock:         req.Livestock,
		CreatedAt:         now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.announce(ctx, job)

	return job, nil
}

// announce sends a new-job notification to online transporters.
func (s *JobService) announce(ctx context.Context, job *domain.Job) {
	if s.notificationService == nil || s.userRepo == nil {
		return
	}

	transporters, err := s.userRepo.ListOnline(ctx)
	if err != nil {
		log.Printf("[JOB] online transporter lookup failed: job=%s err=%v", job.ID, err)
		return
	}

	message := fmt.Sprintf("New job available: %d %s from %s to %s",
		job.Livestock.Quantity, job.Livestock.Type, job.PickupLocation.Address, job.DropoffLocation.Address)

	for _, transporter := range transporters {
		if transporter.ID == job.CustomerID {
			continue
		}
		_, err := s.notificationService.Notify(ctx, NotifyRequest{
			UserID:  transporter.ID,
			Title:   "New Job Available",
			Message: message,
			Type:    domain.NotificationNewJob,
			JobID:   job.ID,
		})
		if err != nil {
			log.Printf("[JOB] new job notification failed: job=%s transporter=%s err=%v", job.ID, transporter.ID, err)
		}
	}
}

// validateLocation checks that a location has an address and coordinates
// within WGS84 bounds.
func validateLocation(l domain.Location) error {
	if strings.TrimSpace(l.Address) == "" {
		return ErrInvalidLocation
	}
	if l.Coordinates.Lat < -90 || l.Coordinates.Lat > 90 {
		return ErrInvalidLocation
	}
	if l.Coordinates.Lng < -180 || l.Coordinates.Lng > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// SubscribePendingJobs streams the pending job list, newest first.
func (s *JobService) SubscribePendingJobs(ctx context.Context) (*changefeed.Subscription[[]*domain.Job], error) {
	return changefeed.Watch(ctx, s.feed, docstore.CollectionJobs, s.ListPendingJobs)
}

// SubscribeJob streams one job, re-delivering it after every job change.
func (s *JobService) SubscribeJob(ctx context.Context, jobID string) (*changefeed.Subscription[*domain.Job], error) {
	if jobID == "" {
		return nil, ErrInvalidJobID
	}

	return changefeed.Watch(ctx, s.feed, docstore.CollectionJobs, func(ctx context.Context) (*domain.Job, error) {
		return s.jobRepo.GetByID(ctx, jobID)
	})
}
