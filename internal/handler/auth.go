package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestock/internal/identity"
	"livestock/internal/middleware"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	identityService *identity.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identityService *identity.Service) *AuthHandler {
	return &AuthHandler{identityService: identityService}
}

// SessionResponse is returned by every successful sign-in.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toSessionResponse(s *identity.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token,
		ExpiresAt: formatTime(s.ExpiresAt),
		User:      toUserResponse(s.User),
	}
}

// SignUpRequest is the HTTP request body for an email sign-up.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// SignUp handles POST /v1/auth/signup
//
// @Summary  Register with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body SignUpRequest true "Credentials"
// @Success  201 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.identityService.SignUp(c.Request.Context(), identity.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toSessionResponse(session))
}

// SignInRequest is the HTTP request body for an email sign-in.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn handles POST /v1/auth/signin
//
// @Summary  Sign in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body SignInRequest true "Credentials"
// @Success  200 {object} SessionResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.identityService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSessionResponse(session))
}

// PhoneStartRequest is the HTTP request body for starting phone sign-in.
type PhoneStartRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// StartPhone handles POST /v1/auth/phone/start
//
// @Summary  Send a phone verification code
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body PhoneStartRequest true "Phone in E.164 format"
// @Success  202 {object} map[string]string
// @Failure  400 {object} ErrorResponse
// @Router   /auth/phone/start [post]
func (h *AuthHandler) StartPhone(c *gin.Context) {
	var req PhoneStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	verificationID, err := h.identityService.StartPhoneVerification(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusAccepted, gin.H{"verification_id": verificationID})
}

// PhoneConfirmRequest is the HTTP request body for confirming a code.
type PhoneConfirmRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

// ConfirmPhone handles POST /v1/auth/phone/confirm
//
// @Summary  Confirm a phone verification code and sign in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body PhoneConfirmRequest true "Verification"
// @Success  200 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Failure  410 {object} ErrorResponse
// @Router   /auth/phone/confirm [post]
func (h *AuthHandler) ConfirmPhone(c *gin.Context) {
	var req PhoneConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.identityService.ConfirmPhone(c.Request.Context(), req.VerificationID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSessionResponse(session))
}

// SignOut handles POST /v1/auth/signout
//
// @Summary  Revoke the current session token
// @Tags     auth
// @Security Bearer
// @Success  204
// @Router   /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.identityService.SignOut(c.Request.Context(), middleware.Claims(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /v1/me
//
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security Bearer
// @Success  200 {object} UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.identityService.CurrentUser(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}
