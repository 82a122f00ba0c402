package domain

import "time"

// VehicleDetails describes a transporter's vehicle.
type VehicleDetails struct {
	Type               string
	RegistrationNumber string
	Capacity           string
}

// UserSettings holds per-user preference toggles.
type UserSettings struct {
	Notifications bool
	Location      bool
	DarkMode      bool
}

// DefaultUserSettings returns the settings a new profile starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{Notifications: true, Location: true}
}

// User is a transporter profile.
type User struct {
	ID             string
	Email          string
	Phone          string
	Name           string
	ProfilePicture string
	Vehicle        *VehicleDetails
	Rating         float64
	TotalTrips     int
	IsOnline       bool
	Settings       UserSettings
	PushTokens     map[string]bool
	CreatedAt      time.Time
}

// HasPushTokens reports whether any device token is registered.
func (u *User) HasPushTokens() bool {
	for _, ok := range u.PushTokens {
		if ok {
			return true
		}
	}
	return false
}
