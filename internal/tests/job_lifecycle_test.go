package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"livestock/internal/changefeed"
	"livestock/internal/domain"
	"livestock/internal/repository"
	"livestock/internal/service"
)

type jobFixture struct {
	jobRepo          *MockJobRepository
	userRepo         *MockUserRepository
	notificationRepo *MockNotificationRepository
	earningsRepo     *MockEarningsRepository
	lockStore        *MockLockStore
	jobService       *service.JobService
}

func newJobFixture(earningsOnCompletion bool) *jobFixture {
	f := &jobFixture{
		jobRepo:          NewMockJobRepository(),
		userRepo:         NewMockUserRepository(),
		notificationRepo: NewMockNotificationRepository(),
		earningsRepo:     NewMockEarningsRepository(),
		lockStore:        NewMockLockStore(),
	}

	feed := changefeed.NewMemory()
	notificationService := service.NewNotificationService(f.notificationRepo, f.userRepo, nil, nil, feed)
	earningsService := service.NewEarningsService(f.earningsRepo)
	f.jobService = service.NewJobService(
		f.jobRepo,
		f.userRepo,
		f.lockStore,
		notificationService,
		earningsService,
		feed,
		earningsOnCompletion,
	)
	return f
}

func pendingJob(id string) *domain.Job {
	return &domain.Job{
		ID:           id,
		CustomerID:   "customer-1",
		CustomerName: "Green Pastures Farm",
		Status:       domain.JobStatusPending,
		PickupLocation: domain.Location{
			Address:     "123 Farm Road, Rural County",
			Coordinates: domain.Coordinates{Lat: 40.712776, Lng: -74.005974},
		},
		DropoffLocation: domain.Location{
			Address:     "456 Market Street, City Center",
			Coordinates: domain.Coordinates{Lat: 40.730610, Lng: -73.935242},
		},
		PickupTime:        time.Now().Add(24 * time.Hour),
		EstimatedDistance: 25.4,
		EstimatedDuration: 45,
		Price:             350,
		Livestock:         domain.LivestockDetails{Type: "Cattle", Quantity: 5, Weight: 2500},
		CreatedAt:         time.Now(),
	}
}

// ──────────────────────────────────────────────
// 1. ACCEPTING JOBS
// ──────────────────────────────────────────────

func TestAcceptJob_AssignsTransporterAndNotifiesCustomer(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))

	before := time.Now()
	result, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.jobRepo.GetJob("J1")
	if stored.Status != domain.JobStatusAccepted {
		t.Errorf("expected status %s, got %s", domain.JobStatusAccepted, stored.Status)
	}
	if stored.TransporterID != "T1" {
		t.Errorf("expected transporter T1, got %s", stored.TransporterID)
	}
	if stored.AcceptedAt.Before(before) {
		t.Errorf("expected acceptedAt to be set to now, got %v", stored.AcceptedAt)
	}
	if !stored.CompletedAt.IsZero() {
		t.Error("completedAt must stay unset on accept")
	}

	notifications := f.notificationRepo.ForUser("customer-1")
	if len(notifications) != 1 {
		t.Fatalf("expected 1 customer notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Type != domain.NotificationJobUpdate {
		t.Errorf("expected type %s, got %s", domain.NotificationJobUpdate, n.Type)
	}
	if n.Title != "Job Accepted" {
		t.Errorf("unexpected title %q", n.Title)
	}
	if n.Message != "Your Cattle transport job has been accepted by a transporter." {
		t.Errorf("unexpected message %q", n.Message)
	}
	if n.JobID != "J1" {
		t.Errorf("expected job id J1, got %s", n.JobID)
	}

	if result.Notification == nil || result.NotificationErr != nil {
		t.Error("expected result to carry the created notification")
	}
}

func TestAcceptJob_NotFound_NoWrite(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)

	_, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "missing",
		TransporterID: "T1",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.jobRepo.UpdateStatusCallCount != 0 {
		t.Errorf("expected no write, got %d", f.jobRepo.UpdateStatusCallCount)
	}
	if f.notificationRepo.Count() != 0 {
		t.Error("expected no notification")
	}
}

func TestAcceptJob_AlreadyAccepted_Rejected(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	job := pendingJob("J1")
	job.Status = domain.JobStatusAccepted
	job.TransporterID = "T1"
	f.jobRepo.AddJob(job)

	_, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T2",
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := f.jobRepo.GetJob("J1").TransporterID; got != "T1" {
		t.Errorf("transporter must not change, got %s", got)
	}
}

func TestAcceptJob_StatusChangedConcurrently_Rejected(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))
	f.jobRepo.UpdateStatusError = repository.ErrConflict

	_, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.notificationRepo.Count() != 0 {
		t.Error("no notification may be sent for a lost race")
	}
}

func TestAcceptJob_ConcurrentAccepts_OnlyOneWins(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
				JobID:         "J1",
				TransporterID: "T" + string(rune('A'+i)),
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			if !errors.Is(err, service.ErrJobBusy) && !errors.Is(err, service.ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners)
	}
	if got := len(f.notificationRepo.ForUser("customer-1")); got != 1 {
		t.Errorf("expected 1 customer notification, got %d", got)
	}
}

func TestAcceptJob_LockHeld_ReturnsBusy(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))
	f.lockStore.ForceAcquireFailure = true

	_, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	})
	if !errors.Is(err, service.ErrJobBusy) {
		t.Fatalf("expected ErrJobBusy, got %v", err)
	}
	if f.jobRepo.UpdateStatusCallCount != 0 {
		t.Error("expected no write while the lock is held")
	}
}

func TestAcceptJob_ReleasesLock(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))

	if _, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.lockStore.IsLocked("J1") {
		t.Error("lock must be released after the transition")
	}
	if f.lockStore.ReleaseCallCount != 1 {
		t.Errorf("expected 1 release, got %d", f.lockStore.ReleaseCallCount)
	}
}

func TestAcceptJob_Validation(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)

	tests := []struct {
		name    string
		req     service.AcceptJobRequest
		wantErr error
	}{
		{"missing job id", service.AcceptJobRequest{TransporterID: "T1"}, service.ErrInvalidJobID},
		{"missing transporter", service.AcceptJobRequest{JobID: "J1"}, service.ErrInvalidTransporterID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobService.AcceptJob(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAcceptJob_NotificationFailure_StatusStillWritten(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))
	f.notificationRepo.CreateError = ErrMockStoreUnavailable

	result, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	})
	if err != nil {
		t.Fatalf("status write must succeed, got %v", err)
	}
	if f.jobRepo.GetJob("J1").Status != domain.JobStatusAccepted {
		t.Error("expected job to be accepted")
	}
	if !errors.Is(result.NotificationErr, ErrMockStoreUnavailable) {
		t.Errorf("expected notification error to be reported, got %v", result.NotificationErr)
	}
	if result.Notification != nil {
		t.Error("expected no notification in result")
	}
}

func TestAcceptJob_NoCustomer_NoNotification(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	job := pendingJob("J1")
	job.CustomerID = ""
	f.jobRepo.AddJob(job)

	result, err := f.jobService.AcceptJob(context.Background(), service.AcceptJobRequest{
		JobID:         "J1",
		TransporterID: "T1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.notificationRepo.Count() != 0 || result.Notification != nil {
		t.Error("expected no notification for a job without customer")
	}
}

// ──────────────────────────────────────────────
// 2. ADVANCING JOBS
// ──────────────────────────────────────────────

func acceptedJob(id, transporterID string) *domain.Job {
	job := pendingJob(id)
	job.Status = domain.JobStatusAccepted
	job.TransporterID = transporterID
	job.AcceptedAt = time.Now().Add(-time.Hour)
	return job
}

func TestAdvanceJob_FullLifecycle(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(pendingJob("J1"))
	f.userRepo.AddUser(&domain.User{ID: "T1", Name: "Transporter One"})
	ctx := context.Background()

	if _, err := f.jobService.AcceptJob(ctx, service.AcceptJobRequest{JobID: "J1", TransporterID: "T1"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.jobService.AdvanceJob(ctx, service.AdvanceJobRequest{JobID: "J1", Status: domain.JobStatusInProgress, ActorID: "T1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.jobService.AdvanceJob(ctx, service.AdvanceJobRequest{JobID: "J1", Status: domain.JobStatusCompleted, ActorID: "T1"}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	stored := f.jobRepo.GetJob("J1")
	if stored.Status != domain.JobStatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.CompletedAt.IsZero() {
		t.Error("expected completedAt to be set")
	}

	titles := map[string]bool{}
	for _, n := range f.notificationRepo.ForUser("customer-1") {
		titles[n.Title] = true
	}
	for _, want := range []string{"Job Accepted", "Transport Started", "Transport Completed"} {
		if !titles[want] {
			t.Errorf("missing customer notification %q", want)
		}
	}

	if got := f.userRepo.GetUser("T1").TotalTrips; got != 1 {
		t.Errorf("expected total trips 1, got %d", got)
	}
}

func TestAdvanceJob_InProgressDoesNotSetCompletedAt(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(acceptedJob("J1", "T1"))

	result, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:  "J1",
		Status: domain.JobStatusInProgress,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Job.CompletedAt.IsZero() {
		t.Error("completedAt must only be set on completion")
	}
	if result.Notification == nil || result.Notification.Title != "Transport Started" {
		t.Errorf("expected Transport Started notification, got %+v", result.Notification)
	}
}

func TestAdvanceJob_IllegalTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from domain.JobStatus
		to   domain.JobStatus
	}{
		{"pending to in-progress", domain.JobStatusPending, domain.JobStatusInProgress},
		{"pending to completed", domain.JobStatusPending, domain.JobStatusCompleted},
		{"accepted to completed", domain.JobStatusAccepted, domain.JobStatusCompleted},
		{"completed to cancelled", domain.JobStatusCompleted, domain.JobStatusCancelled},
		{"cancelled to in-progress", domain.JobStatusCancelled, domain.JobStatusInProgress},
		{"in-progress to in-progress", domain.JobStatusInProgress, domain.JobStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newJobFixture(false)
			job := acceptedJob("J1", "T1")
			job.Status = tt.from
			f.jobRepo.AddJob(job)

			_, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
				JobID:  "J1",
				Status: tt.to,
			})
			if !errors.Is(err, service.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if got := f.jobRepo.GetJob("J1").Status; got != tt.from {
				t.Errorf("status must stay %s, got %s", tt.from, got)
			}
			if f.notificationRepo.Count() != 0 {
				t.Error("no notification may be sent for a rejected transition")
			}
		})
	}
}

func TestAdvanceJob_InvalidTargetStatus(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(acceptedJob("J1", "T1"))

	for _, status := range []domain.JobStatus{domain.JobStatusPending, domain.JobStatusAccepted, "delivered"} {
		_, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
			JobID:  "J1",
			Status: status,
		})
		if !errors.Is(err, service.ErrInvalidStatus) {
			t.Errorf("status %q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
	if f.lockStore.AcquireCallCount != 0 {
		t.Error("invalid input must be rejected before locking")
	}
}

func TestAdvanceJob_NotAssignedTransporter(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(acceptedJob("J1", "T1"))

	_, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:   "J1",
		Status:  domain.JobStatusInProgress,
		ActorID: "T2",
	})
	if !errors.Is(err, service.ErrNotAssignedTransporter) {
		t.Fatalf("expected ErrNotAssignedTransporter, got %v", err)
	}
	if f.jobRepo.UpdateStatusCallCount != 0 {
		t.Error("expected no write")
	}
}

func TestAdvanceJob_CancelFromAccepted(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(acceptedJob("J1", "T1"))

	result, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:   "J1",
		Status:  domain.JobStatusCancelled,
		ActorID: "T1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Job.Status != domain.JobStatusCancelled {
		t.Errorf("expected cancelled, got %s", result.Job.Status)
	}
	if result.Notification == nil || result.Notification.Message != "Your Cattle transport has been cancelled." {
		t.Errorf("unexpected cancellation notification: %+v", result.Notification)
	}
	if f.userRepo.IncrementTotalTripsCallCount != 0 {
		t.Error("cancellation must not count as a trip")
	}
}

func TestAdvanceJob_NotFound(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)

	_, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:  "missing",
		Status: domain.JobStatusInProgress,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.jobRepo.UpdateStatusCallCount != 0 {
		t.Error("expected no write")
	}
}

// ──────────────────────────────────────────────
// 3. COMPLETION SIDE EFFECTS
// ──────────────────────────────────────────────

func inProgressJob(id, transporterID string) *domain.Job {
	job := acceptedJob(id, transporterID)
	job.Status = domain.JobStatusInProgress
	return job
}

func TestCompleteJob_EarningsDisabledByDefault(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(inProgressJob("J1", "T1"))
	f.userRepo.AddUser(&domain.User{ID: "T1"})

	result, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:  "J1",
		Status: domain.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Earnings != nil || f.earningsRepo.Count() != 0 {
		t.Error("expected no earnings record when disabled")
	}
}

func TestCompleteJob_EarningsRecordedWhenEnabled(t *testing.T) {
	t.Parallel()

	f := newJobFixture(true)
	f.jobRepo.AddJob(inProgressJob("J1", "T1"))
	f.userRepo.AddUser(&domain.User{ID: "T1"})

	result, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:  "J1",
		Status: domain.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Earnings == nil {
		t.Fatal("expected earnings record")
	}
	if result.Earnings.Amount != 350 || result.Earnings.TransporterID != "T1" || result.Earnings.JobID != "J1" {
		t.Errorf("unexpected earnings record: %+v", result.Earnings)
	}
	if result.Earnings.Status != domain.EarningsStatusPending {
		t.Errorf("expected pending earnings, got %s", result.Earnings.Status)
	}
}

func TestCompleteJob_TripCountFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.jobRepo.AddJob(inProgressJob("J1", "T1"))
	f.userRepo.IncrementTripsError = ErrMockStoreUnavailable

	_, err := f.jobService.AdvanceJob(context.Background(), service.AdvanceJobRequest{
		JobID:  "J1",
		Status: domain.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("completion must succeed, got %v", err)
	}
	if f.jobRepo.GetJob("J1").Status != domain.JobStatusCompleted {
		t.Error("expected job to be completed")
	}
}

// ──────────────────────────────────────────────
// 4. LISTING AND HISTORY
// ──────────────────────────────────────────────

func TestListPendingJobs_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	now := time.Now()
	for i, id := range []string{"old", "newest", "middle"} {
		job := pendingJob(id)
		job.CreatedAt = now.Add(-time.Duration([]int{3, 1, 2}[i]) * time.Hour)
		f.jobRepo.AddJob(job)
	}
	f.jobRepo.AddJob(acceptedJob("taken", "T1"))

	jobs, err := f.jobService.ListPendingJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	if strings.Join(ids, ",") != "newest,middle,old" {
		t.Errorf("unexpected order: %v", ids)
	}
}

func TestListTransporterJobs_FilterAndSearch(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	now := time.Now()

	completed := acceptedJob("J1", "T1")
	completed.Status = domain.JobStatusCompleted
	completed.CreatedAt = now.Add(-2 * time.Hour)
	f.jobRepo.AddJob(completed)

	cancelled := acceptedJob("J2", "T1")
	cancelled.Status = domain.JobStatusCancelled
	cancelled.Livestock.Type = "Sheep"
	cancelled.CustomerName = "Hill Farm"
	cancelled.CreatedAt = now.Add(-time.Hour)
	f.jobRepo.AddJob(cancelled)

	f.jobRepo.AddJob(acceptedJob("J3", "T2"))

	tests := []struct {
		name   string
		filter service.HistoryFilter
		search string
		want   []string
	}{
		{"all", service.HistoryAll, "", []string{"J2", "J1"}},
		{"completed", service.HistoryCompleted, "", []string{"J1"}},
		{"cancelled", service.HistoryCancelled, "", []string{"J2"}},
		{"search livestock case-insensitive", service.HistoryAll, "sHeEp", []string{"J2"}},
		{"search customer", service.HistoryAll, "green pastures", []string{"J1"}},
		{"search address", service.HistoryAll, "market street", []string{"J2", "J1"}},
		{"no match", service.HistoryAll, "goats", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := f.jobService.ListTransporterJobs(context.Background(), service.ListTransporterJobsRequest{
				TransporterID: "T1",
				Filter:        tt.filter,
				Search:        tt.search,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var ids []string
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %v", tt.want, ids)
			}
		})
	}
}

func TestParseHistoryFilter(t *testing.T) {
	t.Parallel()

	if f, err := service.ParseHistoryFilter(""); err != nil || f != service.HistoryAll {
		t.Errorf("empty filter: got %q, %v", f, err)
	}
	if f, err := service.ParseHistoryFilter("completed"); err != nil || f != service.HistoryCompleted {
		t.Errorf("completed filter: got %q, %v", f, err)
	}
	if _, err := service.ParseHistoryFilter("pending"); !errors.Is(err, service.ErrInvalidHistoryFilter) {
		t.Errorf("expected ErrInvalidHistoryFilter, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 5. POSTING JOBS
// ──────────────────────────────────────────────

func validCreateJobRequest() service.CreateJobRequest {
	job := pendingJob("")
	return service.CreateJobRequest{
		CustomerID:        job.CustomerID,
		CustomerName:      job.CustomerName,
		PickupLocation:    job.PickupLocation,
		DropoffLocation:   job.DropoffLocation,
		PickupTime:        job.PickupTime,
		EstimatedDistance: job.EstimatedDistance,
		EstimatedDuration: job.EstimatedDuration,
		Price:             job.Price,
		Livestock:         job.Livestock,
	}
}

func TestCreateJob_StoresPendingAndAnnounces(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.userRepo.AddUser(&domain.User{ID: "T1", IsOnline: true})
	f.userRepo.AddUser(&domain.User{ID: "T2", IsOnline: true})
	f.userRepo.AddUser(&domain.User{ID: "T3", IsOnline: false})
	f.userRepo.AddUser(&domain.User{ID: "customer-1", IsOnline: true})

	job, err := f.jobService.CreateJob(context.Background(), validCreateJobRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" || job.Status != domain.JobStatusPending {
		t.Errorf("expected a pending job with id, got %+v", job)
	}
	if f.jobRepo.GetJob(job.ID) == nil {
		t.Fatal("expected job to be stored")
	}

	for _, id := range []string{"T1", "T2"} {
		notifications := f.notificationRepo.ForUser(id)
		if len(notifications) != 1 {
			t.Fatalf("expected 1 notification for %s, got %d", id, len(notifications))
		}
		n := notifications[0]
		if n.Type != domain.NotificationNewJob || n.Title != "New Job Available" || n.JobID != job.ID {
			t.Errorf("unexpected announcement: %+v", n)
		}
		want := "New job available: 5 Cattle from 123 Farm Road, Rural County to 456 Market Street, City Center"
		if n.Message != want {
			t.Errorf("expected message %q, got %q", want, n.Message)
		}
	}
	if len(f.notificationRepo.ForUser("T3")) != 0 {
		t.Error("offline transporters must not be notified")
	}
	if len(f.notificationRepo.ForUser("customer-1")) != 0 {
		t.Error("the posting customer must not be notified")
	}
}

func TestCreateJob_AnnounceFailureDoesNotFailCreate(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	f.userRepo.ListOnlineError = ErrMockStoreUnavailable

	job, err := f.jobService.CreateJob(context.Background(), validCreateJobRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.jobRepo.GetJob(job.ID) == nil {
		t.Error("expected job to be stored")
	}
}

func TestCreateJob_Validation(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)

	tests := []struct {
		name    string
		mutate  func(r *service.CreateJobRequest)
		wantErr error
	}{
		{"missing pickup address", func(r *service.CreateJobRequest) { r.PickupLocation.Address = " " }, service.ErrInvalidLocation},
		{"dropoff latitude out of range", func(r *service.CreateJobRequest) { r.DropoffLocation.Coordinates.Lat = 91 }, service.ErrInvalidLocation},
		{"pickup longitude out of range", func(r *service.CreateJobRequest) { r.PickupLocation.Coordinates.Lng = -181 }, service.ErrInvalidLocation},
		{"missing livestock type", func(r *service.CreateJobRequest) { r.Livestock.Type = "" }, service.ErrInvalidLivestock},
		{"zero quantity", func(r *service.CreateJobRequest) { r.Livestock.Quantity = 0 }, service.ErrInvalidLivestock},
		{"negative weight", func(r *service.CreateJobRequest) { r.Livestock.Weight = -1 }, service.ErrInvalidLivestock},
		{"negative price", func(r *service.CreateJobRequest) { r.Price = -10 }, service.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateJobRequest()
			tt.mutate(&req)
			_, err := f.jobService.CreateJob(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if f.jobRepo.CreateCallCount != 0 {
		t.Errorf("expected no writes, got %d", f.jobRepo.CreateCallCount)
	}
}

func TestCreateJob_UnknownWeightAllowed(t *testing.T) {
	t.Parallel()

	f := newJobFixture(false)
	req := validCreateJobRequest()
	req.Livestock.Weight = 0

	if _, err := f.jobService.CreateJob(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
