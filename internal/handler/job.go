package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"livestock/internal/domain"
	"livestock/internal/maps"
	"livestock/internal/middleware"
	"livestock/internal/service"
)

// JobHandler handles HTTP requests for transport jobs.
type JobHandler struct {
	jobService *service.JobService
	previewer  *maps.Previewer
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService *service.JobService, previewer *maps.Previewer) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		previewer:  previewer,
	}
}

// CoordinatesPayload is a WGS84 position.
type CoordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationPayload is an address with coordinates.
type LocationPayload struct {
	Address     string             `json:"address"`
	Coordinates CoordinatesPayload `json:"coordinates"`
}

func (p LocationPayload) toDomain() domain.Location {
	return domain.Location{
		Address:     p.Address,
		Coordinates: domain.Coordinates{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng},
	}
}

func toLocationPayload(l domain.Location) LocationPayload {
	return LocationPayload{
		Address:     l.Address,
		Coordinates: CoordinatesPayload{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
	}
}

// LivestockPayload describes the animals being moved.
type LivestockPayload struct {
	Type                string  `json:"type"`
	Quantity            int     `json:"quantity"`
	Weight              float64 `json:"weight,omitempty"`
	SpecialRequirements string  `json:"special_requirements,omitempty"`
}

// JobResponse is the HTTP representation of a job.
type JobResponse struct {
	ID                string           `json:"id"`
	CustomerID        string           `json:"customer_id,omitempty"`
	CustomerName      string           `json:"customer_name"`
	Status            string           `json:"status"`
	PickupLocation    LocationPayload  `json:"pickup_location"`
	DropoffLocation   LocationPayload  `json:"dropoff_location"`
	PickupTime        string           `json:"pickup_time"`
	EstimatedDistance float64          `json:"estimated_distance"`
	EstimatedDuration int              `json:"estimated_duration"`
	Price             float64          `json:"price"`
	Livestock         LivestockPayload `json:"livestock_details"`
	TransporterID     string           `json:"transporter_id,omitempty"`
	AcceptedAt        string           `json:"accepted_at,omitempty"`
	CompletedAt       string           `json:"completed_at,omitempty"`
	CreatedAt         string           `json:"created_at"`
}

func toJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		ID:                j.ID,
		CustomerID:        j.CustomerID,
		CustomerName:      j.CustomerName,
		Status:            string(j.Status),
		PickupLocation:    toLocationPayload(j.PickupLocation),
		DropoffLocation:   toLocationPayload(j.DropoffLocation),
		PickupTime:        formatTime(j.PickupTime),
		EstimatedDistance: j.EstimatedDistance,
		EstimatedDuration: j.EstimatedDuration,
		Price:             j.Price,
		Livestock: LivestockPayload{
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

func toJobResponses(jobs []*domain.Job) []JobResponse {
	response := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		response = append(response, toJobResponse(j))
	}
	return response
}

// TransitionResponse is the HTTP response for status changes.
type TransitionResponse struct {
	Job                JobResponse           `json:"job"`
	Notification       *NotificationResponse `json:"notification,omitempty"`
	NotificationError  string                `json:"notification_error,omitempty"`
	CustomerNotified   bool                  `json:"customer_notified"`
	EarningsRecordedID string                `json:"earnings_id,omitempty"`
}

func toTransitionResponse(result *service.TransitionResult) TransitionResponse {
	response := TransitionResponse{
		Job:              toJobResponse(result.Job),
		CustomerNotified: result.Notification != nil,
	}
	if result.Notification != nil {
		n := toNotificationResponse(result.Notification)
		response.Notification = &n
	}
	if result.NotificationErr != nil {
		response.NotificationError = result.NotificationErr.Error()
	}
	if result.Earnings != nil {
		response.EarningsRecordedID = result.Earnings.ID
	}
	return response
}

// ListPending handles GET /v1/jobs
//
// @Summary  List pending jobs
// @Tags     jobs
// @Produce  json
// @Security Bearer
// @Success  200 {array} JobResponse
// @Router   /jobs [get]
func (h *JobHandler) ListPending(c *gin.Context) {
	jobs, err := h.jobService.ListPendingJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toJobResponses(jobs))
}

// GetJob handles GET /v1/jobs/:id
//
// @Summary  Get a job
// @Tags     jobs
// @Produce  json
// @Security Bearer
// @Param    id path string true "Job ID"
// @Success  200 {object} JobResponse
// @Failure  404 {object} ErrorResponse
// @Router   /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toJobResponse(job))
}

// CreateJobRequest is the HTTP request body for posting a job.
type CreateJobRequest struct {
	CustomerID        string           `json:"customer_id"`
	CustomerName      string           `json:"customer_name"`
	PickupLocation    LocationPayload  `json:"pickup_location"`
	DropoffLocation   LocationPayload  `json:"dropoff_location"`
	PickupTime        time.Time        `json:"pickup_time"`
	EstimatedDistance float64          `json:"estimated_distance"`
	EstimatedDuration int              `json:"estimated_duration"`
	Price             float64          `json:"price"`
	Livestock         LivestockPayload `json:"livestock_details"`
}

// CreateJob handles POST /v1/jobs
//
// @Summary  Post a transport job
// @Tags     jobs
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body CreateJobRequest true "Job"
// @Success  201 {object} JobResponse
// @Failure  400 {object} ErrorResponse
// @Router   /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = middleware.UserID(c)
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), service.CreateJobRequest{
		CustomerID:        customerID,
		CustomerName:      req.CustomerName,
		PickupLocation:    req.PickupLocation.toDomain(),
		DropoffLocation:   req.DropoffLocation.toDomain(),
		PickupTime:        req.PickupTime,
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		Price:             req.Price,
		Livestock: domain.LivestockDetails{
			Type:                req.Livestock.Type,
			Quantity:            req.Livestock.Quantity,
			Weight:              req.Livestock.Weight,
			SpecialRequirements: req.Livestock.SpecialRequirements,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toJobResponse(job))
}

// AcceptJob handles POST /v1/jobs/:id/accept
//
// @Summary  Accept a pending job
// @Tags     jobs
// @Produce  json
// @Security Bearer
// @Param    id path string true "Job ID"
// @Success  200 {object} TransitionResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /jobs/{id}/accept [post]
func (h *JobHandler) AcceptJob(c *gin.Context) {
	result, err := h.jobService.AcceptJob(c.Request.Context(), service.AcceptJobRequest{
		JobID:         c.Param("id"),
		TransporterID: middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransitionResponse(result))
}

// UpdateStatusRequest is the HTTP request body for advancing a job.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles POST /v1/jobs/:id/status
//
// @Summary  Advance or cancel an accepted job
// @Tags     jobs
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    id      path string              true "Job ID"
// @Param    request body UpdateStatusRequest true "New status: in-progress, completed or cancelled"
// @Success  200 {object} TransitionResponse
// @Failure  403 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /jobs/{id}/status [post]
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.jobService.AdvanceJob(c.Request.Context(), service.AdvanceJobRequest{
		JobID:   c.Param("id"),
		Status:  domain.JobStatus(req.Status),
		ActorID: middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransitionResponse(result))
}

// History handles GET /v1/jobs/history
//
// @Summary  List the caller's jobs
// @Tags     jobs
// @Produce  json
// @Security Bearer
// @Param    filter query string false "all, completed or cancelled"
// @Param    search query string false "Matches customer, addresses or livestock type"
// @Success  200 {array} JobResponse
// @Router   /jobs/history [get]
func (h *JobHandler) History(c *gin.Context) {
	filter, err := service.ParseHistoryFilter(c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}

	jobs, err := h.jobService.ListTransporterJobs(c.Request.Context(), service.ListTransporterJobsRequest{
		TransporterID: middleware.UserID(c),
		Filter:        filter,
		Search:        c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toJobResponses(jobs))
}

// MarkerResponse is a labelled point on a route preview.
type MarkerResponse struct {
	Kind     string          `json:"kind"`
	Location LocationPayload `json:"location"`
}

// RouteResponse is a driving route.
type RouteResponse struct {
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int64  `json:"duration_seconds"`
	Polyline        string `json:"polyline"`
	Summary         string `json:"summary,omitempty"`
}

// PreviewResponse is the HTTP response for a route preview.
type PreviewResponse struct {
	Markers []MarkerResponse `json:"markers"`
	Route   *RouteResponse   `json:"route,omitempty"`
}

// Route handles GET /v1/jobs/:id/route
//
// @Summary  Route preview for a job
// @Tags     jobs
// @Produce  json
// @Security Bearer
// @Param    id path string true "Job ID"
// @Success  200 {object} PreviewResponse
// @Failure  404 {object} ErrorResponse
// @Router   /jobs/{id}/route [get]
func (h *JobHandler) Route(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	preview := h.previewer.Preview(c.Request.Context(), job.PickupLocation, job.DropoffLocation)

	response := PreviewResponse{Markers: make([]MarkerResponse, 0, len(preview.Markers))}
	for _, m := range preview.Markers {
		response.Markers = append(response.Markers, MarkerResponse{
			Kind:     m.Kind,
			Location: toLocationPayload(m.Location),
		})
	}
	if preview.Route != nil {
		response.Route = &RouteResponse{
			DistanceMeters:  preview.Route.DistanceMeters,
			DistanceText:    preview.Route.DistanceText,
			DurationSeconds: int64(preview.Route.Duration.Seconds()),
			Polyline:        preview.Route.Polyline,
			Summary:         preview.Route.Summary,
		}
	}

	respondJSON(c, http.StatusOK, response)
}
