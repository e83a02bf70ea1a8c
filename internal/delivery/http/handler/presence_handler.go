package handler

import (
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/geosearch"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/presence"
	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presenceUseCase  *presence.PresenceUseCase
	geoSearchUseCase *geosearch.GeoSearchUseCase
}

func NewPresenceHandler(presenceUseCase *presence.PresenceUseCase, geoSearchUseCase *geosearch.GeoSearchUseCase) *PresenceHandler {
	return &PresenceHandler{
		presenceUseCase:  presenceUseCase,
		geoSearchUseCase: geoSearchUseCase,
	}
}

// SetStatusRequest is the body of POST /sitters/set-status.
type SetStatusRequest struct {
	IsOnline *bool `json:"is_online" binding:"required"`
}

// UpdateLocation handles POST /sitters/update-location
// @Summary Update sitter location
// @Description Stores the sitter's position and online flag in the presence cache
// @Tags sitters
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body presence.UpdateLocationRequest true "Location"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/update-location [post]
func (h *PresenceHandler) UpdateLocation(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}

	var req presence.UpdateLocationRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.presenceUseCase.UpdateLocation(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, rec)
}

// SetStatus handles POST /sitters/set-status
// @Summary Set online status
// @Tags sitters
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SetStatusRequest true "Status"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/set-status [post]
func (h *PresenceHandler) SetStatus(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}

	var req SetStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.presenceUseCase.SetOnlineStatus(c.Request.Context(), userID, *req.IsOnline)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"is_online": rec.IsOnline})
}

// NearbySitters handles POST /sitters/nearby-sitters
// @Summary Find nearby sitters
// @Description Online sitters within radius_km of the given point, closest first
// @Tags sitters
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body geosearch.NearbyRequest true "Search"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Router /sitters/nearby-sitters [post]
func (h *PresenceHandler) NearbySitters(c *gin.Context) {
	var req geosearch.NearbyRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.geoSearchUseCase.FindNearby(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}
