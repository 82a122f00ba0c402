package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"livestock/internal/domain"
	"livestock/internal/push"
	"livestock/internal/redis"
	"livestock/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK JOB REPOSITORY
// ──────────────────────────────────────────────

// MockJobRepository is a mock implementation of JobRepository.
type MockJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	GetError          error
	UpdateStatusError error
}

// NewMockJobRepository creates a new mock job repository.
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		jobs: make(map[string]*domain.Job),
	}
}

// AddJob adds a job to the mock repository.
func (m *MockJobRepository) AddJob(job *domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

func (m *MockJobRepository) Create(ctx context.Context, job *domain.Job) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.ID]; exists {
		return repository.ErrAlreadyExists
	}
	copy := *job
	m.jobs[job.ID] = &copy
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *job
	return &copy, nil
}

func (m *MockJobRepository) ListByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Job
	for _, j := range m.jobs {
		if j.Status == status {
			copy := *j
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockJobRepository) ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Job
	for _, j := range m.jobs {
		if j.TransporterID == transporterID {
			copy := *j
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id string, from domain.JobStatus, change repository.JobStatusChange) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if job.Status != from {
		return repository.ErrConflict
	}
	job.Status = change.Status
	if change.TransporterID != "" {
		job.TransporterID = change.TransporterID
	}
	if !change.AcceptedAt.IsZero() {
		job.AcceptedAt = change.AcceptedAt
	}
	if !change.CompletedAt.IsZero() {
		job.CompletedAt = change.CompletedAt
	}
	return nil
}

// GetJob returns the stored job for test assertions.
func (m *MockJobRepository) GetJob(id string) *domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// SetStatus changes a stored job's status behind the service's back.
func (m *MockJobRepository) SetStatus(id string, status domain.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = status
	}
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters
	GetByIDCallCount             int32
	IncrementTotalTripsCallCount int32

	// Error injection
	CreateError         error
	ListOnlineError     error
	IncrementTripsError error
	UpdateSettingsError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.ID]; exists {
		return repository.ErrAlreadyExists
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) ListOnline(ctx context.Context) ([]*domain.User, error) {
	if m.ListOnlineError != nil {
		return nil, m.ListOnlineError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, u := range m.users {
		if u.IsOnline {
			copy := *u
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, name string, vehicle *domain.VehicleDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Name = name
	if vehicle != nil {
		v := *vehicle
		user.Vehicle = &v
	}
	return nil
}

func (m *MockUserRepository) UpdateSettings(ctx context.Context, id string, settings domain.UserSettings) error {
	if m.UpdateSettingsError != nil {
		return m.UpdateSettingsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Settings = settings
	return nil
}

func (m *MockUserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsOnline = online
	return nil
}

func (m *MockUserRepository) AddPushToken(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.PushTokens == nil {
		user.PushTokens = make(map[string]bool)
	}
	user.PushTokens[token] = true
	return nil
}

func (m *MockUserRepository) IncrementTotalTrips(ctx context.Context, id string) error {
	atomic.AddInt32(&m.IncrementTotalTripsCallCount, 1)
	if m.IncrementTripsError != nil {
		return m.IncrementTripsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.TotalTrips++
	return nil
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// CountUsers returns the number of stored users.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification

	// Counters
	CreateCallCount   int32
	MarkReadCallCount int32

	// Error injection
	CreateError   error
	MarkReadError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[string]*domain.Notification),
	}
}

// AddNotification adds a notification to the mock repository.
func (m *MockNotificationRepository) AddNotification(n *domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.ID] = n
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *n
	m.notifications[n.ID] = &copy
	return nil
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *n
	return &copy, nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			copy := *n
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkReadCallCount, 1)
	if m.MarkReadError != nil {
		return m.MarkReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	return nil
}

// ForUser returns the stored notifications of a user for test assertions.
func (m *MockNotificationRepository) ForUser(userID string) []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// Count returns the number of stored notifications.
func (m *MockNotificationRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notifications)
}

// ──────────────────────────────────────────────
// MOCK EARNINGS REPOSITORY
// ──────────────────────────────────────────────

// MockEarningsRepository is a mock implementation of EarningsRepository.
type MockEarningsRepository struct {
	mu       sync.RWMutex
	earnings map[string]*domain.Earnings

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockEarningsRepository creates a new mock earnings repository.
func NewMockEarningsRepository() *MockEarningsRepository {
	return &MockEarningsRepository{
		earnings: make(map[string]*domain.Earnings),
	}
}

// AddEarnings adds a record to the mock repository.
func (m *MockEarningsRepository) AddEarnings(e *domain.Earnings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earnings[e.ID] = e
}

func (m *MockEarningsRepository) Create(ctx context.Context, e *domain.Earnings) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *e
	m.earnings[e.ID] = &copy
	return nil
}

func (m *MockEarningsRepository) ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Earnings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Earnings
	for _, e := range m.earnings {
		if e.TransporterID == transporterID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

// Count returns the number of stored records.
func (m *MockEarningsRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.earnings)
}

// ──────────────────────────────────────────────
// MOCK CREDENTIAL REPOSITORY
// ──────────────────────────────────────────────

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mu          sync.RWMutex
	credentials map[string]*domain.Credential
}

// NewMockCredentialRepository creates a new mock credential repository.
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{
		credentials: make(map[string]*domain.Credential),
	}
}

func (m *MockCredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.credentials[cred.Email]; exists {
		return repository.ErrAlreadyExists
	}
	copy := *cred
	m.credentials[cred.Email] = &copy
	return nil
}

func (m *MockCredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cred, ok := m.credentials[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *cred
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireJobLock(ctx context.Context, jobID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:job:" + jobID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseJobLock(ctx context.Context, jobID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:job:"+jobID)
	return nil
}

// IsLocked checks if a job is locked (for test assertions).
func (m *MockLockStore) IsLocked(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:job:"+jobID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK PROFILE CACHE
// ──────────────────────────────────────────────

// MockProfileCache is a mock implementation of ProfileCacheInterface.
type MockProfileCache struct {
	mu       sync.Mutex
	profiles map[string]*redis.CachedProfile

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockProfileCache creates a new mock profile cache.
func NewMockProfileCache() *MockProfileCache {
	return &MockProfileCache{
		profiles: make(map[string]*redis.CachedProfile),
	}
}

func (m *MockProfileCache) GetProfile(ctx context.Context, userID string) (*redis.CachedProfile, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *MockProfileCache) SetProfile(ctx context.Context, profile *redis.CachedProfile) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return nil
}

func (m *MockProfileCache) InvalidateProfile(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	return nil
}

// Has reports whether a profile is cached (for test assertions).
func (m *MockProfileCache) Has(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mu            sync.Mutex
	revoked       map[string]time.Duration
	verifications map[string]*redis.PhoneVerification
	attempts      map[string]int64
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		revoked:       make(map[string]time.Duration),
		verifications: make(map[string]*redis.PhoneVerification),
		attempts:      make(map[string]int64),
	}
}

func (m *MockSessionStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MockSessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *MockSessionStore) SaveVerification(ctx context.Context, verificationID string, v *redis.PhoneVerification, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *v
	m.verifications[verificationID] = &copy
	return nil
}

func (m *MockSessionStore) CountVerificationAttempt(ctx context.Context, verificationID string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[verificationID]++
	return m.attempts[verificationID], nil
}

func (m *MockSessionStore) GetVerification(ctx context.Context, verificationID string) (*redis.PhoneVerification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.verifications[verificationID]
	if !ok {
		return nil, nil
	}
	copy := *v
	return &copy, nil
}

func (m *MockSessionStore) DeleteVerification(ctx context.Context, verificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.verifications, verificationID)
	return nil
}

// Verification returns a stored verification for test assertions.
func (m *MockSessionStore) Verification(verificationID string) *redis.PhoneVerification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifications[verificationID]
}

// Attempts returns the counted confirmation attempts for a verification.
func (m *MockSessionStore) Attempts(verificationID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[verificationID]
}

// ──────────────────────────────────────────────
// MOCK PUSH SENDER
// ──────────────────────────────────────────────

// MockPushSender records push messages instead of publishing them.
type MockPushSender struct {
	mu       sync.Mutex
	messages []push.Message

	// Error injection
	SendError error
}

// NewMockPushSender creates a new mock push sender.
func NewMockPushSender() *MockPushSender {
	return &MockPushSender{}
}

func (m *MockPushSender) Send(ctx context.Context, msg push.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.SendError
}

// Messages returns every message passed to Send.
func (m *MockPushSender) Messages() []push.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]push.Message(nil), m.messages...)
}

// ──────────────────────────────────────────────
// MOCK CODE SENDER
// ──────────────────────────────────────────────

// MockCodeSender captures verification codes.
type MockCodeSender struct {
	mu    sync.Mutex
	codes map[string]string

	// Error injection
	SendError error
}

// NewMockCodeSender creates a new mock code sender.
func NewMockCodeSender() *MockCodeSender {
	return &MockCodeSender{codes: make(map[string]string)}
}

func (m *MockCodeSender) SendCode(ctx context.Context, phone, code string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[phone] = code
	return nil
}

// LastCode returns the last code sent to phone.
func (m *MockCodeSender) LastCode(phone string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[phone]
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockStoreUnavailable = errors.New("mock: store unavailable")
	ErrMockRedisUnavailable = errors.New("mock: redis unavailable")
	ErrMockBrokerDown       = errors.New("mock: broker connection closed")
)

var (
	_ repository.JobRepository          = (*MockJobRepository)(nil)
	_ repository.UserRepository         = (*MockUserRepository)(nil)
	_ repository.NotificationRepository = (*MockNotificationRepository)(nil)
	_ repository.EarningsRepository     = (*MockEarningsRepository)(nil)
	_ repository.CredentialRepository   = (*MockCredentialRepository)(nil)
	_ redis.LockStoreInterface          = (*MockLockStore)(nil)
	_ redis.ProfileCacheInterface       = (*MockProfileCache)(nil)
	_ redis.SessionStoreInterface       = (*MockSessionStore)(nil)
)
