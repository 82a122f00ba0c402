package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestock/internal/domain"
	"livestock/internal/middleware"
	"livestock/internal/service"
)

// ProfileHandler handles HTTP requests for the caller's profile.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// VehiclePayload describes a transporter's vehicle.
type VehiclePayload struct {
	Type               string `json:"type"`
	RegistrationNumber string `json:"registration_number"`
	Capacity           string `json:"capacity"`
}

// SettingsPayload holds preference toggles.
type SettingsPayload struct {
	Notifications bool `json:"notifications"`
	Location      bool `json:"location"`
	DarkMode      bool `json:"dark_mode"`
}

// UserResponse is the HTTP representation of a profile.
type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Name           string          `json:"name"`
	ProfilePicture string          `json:"profile_picture,omitempty"`
	Vehicle        *VehiclePayload `json:"vehicle_details,omitempty"`
	Rating         float64         `json:"rating"`
	TotalTrips     int             `json:"total_trips"`
	IsOnline       bool            `json:"is_online"`
	Settings       SettingsPayload `json:"settings"`
	PushTokens     int             `json:"push_token_count"`
	CreatedAt      string          `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	response := UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Phone:          u.Phone,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Rating:         u.Rating,
		TotalTrips:     u.TotalTrips,
		IsOnline:       u.IsOnline,
		Settings: SettingsPayload{
			Notifications: u.Settings.Notifications,
			Location:      u.Settings.Location,
			DarkMode:      u.Settings.DarkMode,
		},
		CreatedAt: formatTime(u.CreatedAt),
	}
	if u.Vehicle != nil {
		response.Vehicle = &VehiclePayload{
			Type:               u.Vehicle.Type,
			RegistrationNumber: u.Vehicle.RegistrationNumber,
			Capacity:           u.Vehicle.Capacity,
		}
	}
	for _, ok := range u.PushTokens {
		if ok {
			response.PushTokens++
		}
	}
	return response
}

// Get handles GET /v1/profile
//
// @Summary  Get the caller's profile
// @Tags     profile
// @Produce  json
// @Security Bearer
// @Success  200 {object} UserResponse
// @Router   /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.profileService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// UpdateProfileRequest is the HTTP request body for editing a profile.
type UpdateProfileRequest struct {
	Name    string          `json:"name" binding:"required"`
	Vehicle *VehiclePayload `json:"vehicle_details"`
}

// Update handles PUT /v1/profile
//
// @Summary  Update name and vehicle details
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body UpdateProfileRequest true "Profile"
// @Success  200 {object} UserResponse
// @Failure  400 {object} ErrorResponse
// @Router   /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var vehicle *domain.VehicleDetails
	if req.Vehicle != nil {
		vehicle = &domain.VehicleDetails{
			Type:               req.Vehicle.Type,
			RegistrationNumber: req.Vehicle.RegistrationNumber,
			Capacity:           req.Vehicle.Capacity,
		}
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		UserID:  middleware.UserID(c),
		Name:    req.Name,
		Vehicle: vehicle,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// UpdateSettings handles PUT /v1/profile/settings
//
// @Summary  Replace preference toggles
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body SettingsPayload true "Settings"
// @Success  200 {object} UserResponse
// @Router   /profile/settings [put]
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	var req SettingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.profileService.UpdateSettings(c.Request.Context(), middleware.UserID(c), domain.UserSettings{
		Notifications: req.Notifications,
		Location:      req.Location,
		DarkMode:      req.DarkMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// SetOnlineRequest is the HTTP request body for toggling availability.
type SetOnlineRequest struct {
	Online bool `json:"online"`
}

// SetOnline handles PUT /v1/profile/online
//
// @Summary  Mark the caller available or unavailable
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body SetOnlineRequest true "Availability"
// @Success  200 {object} UserResponse
// @Router   /profile/online [put]
func (h *ProfileHandler) SetOnline(c *gin.Context) {
	var req SetOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.profileService.SetOnline(c.Request.Context(), middleware.UserID(c), req.Online)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// PushTokenRequest is the HTTP request body for registering a device.
type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken handles POST /v1/profile/push-tokens
//
// @Summary  Register a device push token
// @Tags     profile
// @Accept   json
// @Security Bearer
// @Param    request body PushTokenRequest true "Token"
// @Success  204
// @Router   /profile/push-tokens [post]
func (h *ProfileHandler) RegisterPushToken(c *gin.Context) {
	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.profileService.RegisterPushToken(c.Request.Context(), middleware.UserID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
