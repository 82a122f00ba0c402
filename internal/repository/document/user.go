package document

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/repository"
)

type vehicleItem struct {
	Type               string `json:"type" dynamodbav:"type"`
	RegistrationNumber string `json:"registration_number" dynamodbav:"registration_number"`
	Capacity           string `json:"capacity" dynamodbav:"capacity"`
}

type settingsItem struct {
	Notifications bool `json:"notifications" dynamodbav:"notifications"`
	Location      bool `json:"location" dynamodbav:"location"`
	DarkMode      bool `json:"dark_mode" dynamodbav:"dark_mode"`
}

type userItem struct {
	ID             string          `json:"id" dynamodbav:"id"`
	Email          string          `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Phone          string          `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Name           string          `json:"name" dynamodbav:"name"`
	ProfilePicture string          `json:"profile_picture,omitempty" dynamodbav:"profile_picture,omitempty"`
	Vehicle        *vehicleItem    `json:"vehicle_details,omitempty" dynamodbav:"vehicle_details,omitempty"`
	Rating         float64         `json:"rating" dynamodbav:"rating"`
	TotalTrips     int             `json:"total_trips" dynamodbav:"total_trips"`
	IsOnline       bool            `json:"is_online" dynamodbav:"is_online"`
	Settings       settingsItem    `json:"settings" dynamodbav:"settings"`
	PushTokens     map[string]bool `json:"push_tokens,omitempty" dynamodbav:"push_tokens,omitempty"`
	CreatedAt      string          `json:"created_at" dynamodbav:"created_at"`

	// Revision changes on every read-modify-write of the profile.
	Revision string `json:"revision,omitempty" dynamodbav:"revision,omitempty"`
}

// maxModifyAttempts bounds the retries of a read-modify-write that keeps
// losing to concurrent writers.
const maxModifyAttempts = 5

func toVehicleItem(v *domain.VehicleDetails) *vehicleItem {
	if v == nil {
		return nil
	}
	return &vehicleItem{Type: v.Type, RegistrationNumber: v.RegistrationNumber, Capacity: v.Capacity}
}

func toSettingsItem(s domain.UserSettings) settingsItem {
	return settingsItem{Notifications: s.Notifications, Location: s.Location, DarkMode: s.DarkMode}
}

func (it *userItem) toDomain() *domain.User {
	u := &domain.User{
		ID:             it.ID,
		Email:          it.Email,
		Phone:          it.Phone,
		Name:           it.Name,
		ProfilePicture: it.ProfilePicture,
		Rating:         it.Rating,
		TotalTrips:     it.TotalTrips,
		IsOnline:       it.IsOnline,
		Settings: domain.UserSettings{
			Notifications: it.Settings.Notifications,
			Location:      it.Settings.Location,
			DarkMode:      it.Settings.DarkMode,
		},
		PushTokens: it.PushTokens,
		CreatedAt:  parseTime(it.CreatedAt),
	}
	if it.Vehicle != nil {
		u.Vehicle = &domain.VehicleDetails{
			Type:               it.Vehicle.Type,
			RegistrationNumber: it.Vehicle.RegistrationNumber,
			Capacity:           it.Vehicle.Capacity,
		}
	}
	return u
}

// UserRepository is a docstore implementation of repository.UserRepository.
type UserRepository struct {
	store docstore.Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create persists a new profile.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	it := &userItem{
		ID:             user.ID,
		Email:          user.Email,
		Phone:          user.Phone,
		Name:           user.Name,
		ProfilePicture: user.ProfilePicture,
		Vehicle:        toVehicleItem(user.Vehicle),
		Rating:         user.Rating,
		TotalTrips:     user.TotalTrips,
		IsOnline:       user.IsOnline,
		Settings:       toSettingsItem(user.Settings),
		PushTokens:     user.PushTokens,
		CreatedAt:      formatTime(user.CreatedAt),
		Revision:       uuid.New().String(),
	}
	return translate(r.store.Create(ctx, docstore.CollectionUsers, user.ID, it))
}

// GetByID retrieves a profile by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var it userItem
	if err := r.store.Get(ctx, docstore.CollectionUsers, id, &it); err != nil {
		return nil, translate(err)
	}
	return it.toDomain(), nil
}

// GetByPhone retrieves the profile registered with a phone number.
// Returns nil if none exists.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	users, err := r.list(ctx, "phone", phone)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// ListOnline retrieves every profile currently marked online.
func (r *UserRepository) ListOnline(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, "is_online", true)
}

func (r *UserRepository) list(ctx context.Context, field string, value any) ([]*domain.User, error) {
	var items []userItem
	if err := r.store.Query(ctx, docstore.CollectionUsers, field, value, &items); err != nil {
		return nil, translate(err)
	}

	users := make([]*domain.User, 0, len(items))
	for i := range items {
		users = append(users, items[i].toDomain())
	}
	return users, nil
}

// UpdateProfile sets the display name and vehicle details.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string, vehicle *domain.VehicleDetails) error {
	fields := map[string]any{"name": name}
	if vehicle != nil {
		fields["vehicle_details"] = toVehicleItem(vehicle)
	}
	return r.update(ctx, id, fields)
}

// UpdateSettings replaces the preference toggles.
func (r *UserRepository) UpdateSettings(ctx context.Context, id string, settings domain.UserSettings) error {
	return r.update(ctx, id, map[string]any{"settings": toSettingsItem(settings)})
}

// SetOnline sets the online flag.
func (r *UserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	return r.update(ctx, id, map[string]any{"is_online": online})
}

// AddPushToken merges a device token into the token set.
func (r *UserRepository) AddPushToken(ctx context.Context, id, token string) error {
	return r.modify(ctx, id, func(it *userItem) map[string]any {
		tokens := make(map[string]bool, len(it.PushTokens)+1)
		for t, ok := range it.PushTokens {
			tokens[t] = ok
		}
		tokens[token] = true
		return map[string]any{"push_tokens": tokens}
	})
}

// IncrementTotalTrips adds one to the completed trip counter.
func (r *UserRepository) IncrementTotalTrips(ctx context.Context, id string) error {
	return r.modify(ctx, id, func(it *userItem) map[string]any {
		return map[string]any{"total_trips": it.TotalTrips + 1}
	})
}

// modify reads the profile, applies the fields built by change and writes
// them only if the revision is unchanged, re-reading on conflict.
// Profiles stored without a revision get one on their first write.
func (r *UserRepository) modify(ctx context.Context, id string, change func(it *userItem) map[string]any) error {
	for attempt := 0; attempt < maxModifyAttempts; attempt++ {
		var it userItem
		if err := r.store.Get(ctx, docstore.CollectionUsers, id, &it); err != nil {
			return translate(err)
		}

		fields := change(&it)
		fields["revision"] = uuid.New().String()

		var conds []docstore.Condition
		if it.Revision != "" {
			conds = append(conds, docstore.FieldEquals("revision", it.Revision))
		}

		err := r.store.Update(ctx, docstore.CollectionUsers, id, fields, conds...)
		if !errors.Is(err, docstore.ErrConflict) {
			return translate(err)
		}
	}
	return repository.ErrConflict
}

func (r *UserRepository) update(ctx context.Context, id string, fields map[string]any) error {
	return translate(r.store.Update(ctx, docstore.CollectionUsers, id, fields))
}

var _ repository.UserRepository = (*UserRepository)(nil)
