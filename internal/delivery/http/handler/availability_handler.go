package handler

import (
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityUseCase *availability.AvailabilityUseCase
}

func NewAvailabilityHandler(availabilityUseCase *availability.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
	}
}

// GetAvailability handles GET /sitters/get-availability/:providerId
// @Summary Day-level availability
// @Tags availability
// @Security BearerAuth
// @Produce json
// @Param providerId path string true "Sitter ID"
// @Success 200 {object} SuccessResponse
// @Router /sitters/get-availability/{providerId} [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	slots, err := h.availabilityUseCase.GetAvailability(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"availabilities": slots})
}

// SaveAvailability handles POST /sitters/save-availability
// @Summary Replace day-level availability
// @Tags availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body availability.SaveAvailabilityRequest true "Availability"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/save-availability [post]
func (h *AvailabilityHandler) SaveAvailability(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}

	var req availability.SaveAvailabilityRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	slots, err := h.availabilityUseCase.SaveAvailability(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"availabilities": slots})
}

// GetWeeklyAvailability handles GET /sitters/get-weekly-availability/:providerId
// @Summary Weekly recurrence rules
// @Tags availability
// @Security BearerAuth
// @Produce json
// @Param providerId path string true "Sitter ID"
// @Success 200 {object} SuccessResponse
// @Router /sitters/get-weekly-availability/{providerId} [get]
func (h *AvailabilityHandler) GetWeeklyAvailability(c *gin.Context) {
	rules, err := h.availabilityUseCase.GetWeeklyRecurrence(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"availabilities": rules})
}

// SaveWeeklyAvailability handles POST /sitters/save-weekly-availability
// @Summary Replace weekly recurrence rules
// @Description The whole batch is rejected when any rule has start >= end
// @Tags availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body availability.SaveWeeklyRequest true "Rules"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/save-weekly-availability [post]
func (h *AvailabilityHandler) SaveWeeklyAvailability(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}

	var req availability.SaveWeeklyRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	rules, err := h.availabilityUseCase.SaveWeeklyRecurrence(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"availabilities": rules})
}

// MarkFull handles POST /sitters/mark-full
// @Summary Mark a date as fully booked
// @Description Owners are notified in the background
// @Tags availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body availability.MarkFullRequest true "Date"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/mark-full [post]
func (h *AvailabilityHandler) MarkFull(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}

	var req availability.MarkFullRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	status, err := h.availabilityUseCase.MarkFull(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, status)
}

// CheckFull handles GET /sitters/check-full/:providerId/:date
// @Summary Full-day status of a date
// @Tags availability
// @Security BearerAuth
// @Produce json
// @Param providerId path string true "Sitter ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/check-full/{providerId}/{date} [get]
func (h *AvailabilityHandler) CheckFull(c *gin.Context) {
	status, err := h.availabilityUseCase.IsDateFull(c.Request.Context(), c.Param("providerId"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, status)
}
