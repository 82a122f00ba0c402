package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestock/internal/domain"
	"livestock/internal/middleware"
	"livestock/internal/service"
)

// EarningsHandler handles HTTP requests for the caller's earnings.
type EarningsHandler struct {
	earningsService *service.EarningsService
}

// NewEarningsHandler creates a new EarningsHandler.
func NewEarningsHandler(earningsService *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsService: earningsService}
}

// EarningsResponse is the HTTP representation of an earnings record.
type EarningsResponse struct {
	ID            string  `json:"id"`
	TransporterID string  `json:"transporter_id"`
	JobID         string  `json:"job_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toEarningsResponse(e *domain.Earnings) EarningsResponse {
	return EarningsResponse{
		ID:            e.ID,
		TransporterID: e.TransporterID,
		JobID:         e.JobID,
		Amount:        e.Amount,
		Status:        string(e.Status),
		PaidAt:        formatTime(e.PaidAt),
		CreatedAt:     formatTime(e.CreatedAt),
	}
}

func toEarningsResponses(records []*domain.Earnings) []EarningsResponse {
	response := make([]EarningsResponse, 0, len(records))
	for _, e := range records {
		response = append(response, toEarningsResponse(e))
	}
	return response
}

// List handles GET /v1/earnings
//
// @Summary  List the caller's earnings
// @Tags     earnings
// @Produce  json
// @Security Bearer
// @Param    timeframe query string false "week, month, year or all"
// @Success  200 {array} EarningsResponse
// @Router   /earnings [get]
func (h *EarningsHandler) List(c *gin.Context) {
	timeframe, err := service.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		respondError(c, err)
		return
	}

	records, err := h.earningsService.ListEarnings(c.Request.Context(), middleware.UserID(c), timeframe)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toEarningsResponses(records))
}

// SummaryResponse is the HTTP response for an earnings summary.
type SummaryResponse struct {
	Timeframe      string             `json:"timeframe"`
	TotalEarnings  float64            `json:"total_earnings"`
	CompletedCount int                `json:"completed_count"`
	PeriodEarnings float64            `json:"period_earnings"`
	PendingAmount  float64            `json:"pending_amount"`
	Records        []EarningsResponse `json:"records"`
}

// Summary handles GET /v1/earnings/summary
//
// @Summary  Summarise the caller's earnings
// @Tags     earnings
// @Produce  json
// @Security Bearer
// @Param    timeframe query string false "week, month, year or all"
// @Success  200 {object} SummaryResponse
// @Router   /earnings/summary [get]
func (h *EarningsHandler) Summary(c *gin.Context) {
	timeframe, err := service.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.earningsService.Summary(c.Request.Context(), middleware.UserID(c), timeframe)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SummaryResponse{
		Timeframe:      string(summary.Timeframe),
		TotalEarnings:  summary.TotalEarnings,
		CompletedCount: summary.CompletedCount,
		PeriodEarnings: summary.PeriodEarnings,
		PendingAmount:  summary.PendingAmount,
		Records:        toEarningsResponses(summary.Records),
	})
}
