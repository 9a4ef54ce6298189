package handlers

import (
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/serviceability"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// ZoneCache is told when the set of zones changes
type ZoneCache interface {
	Invalidate()
}

// ZoneHandler handles zone-related requests
type ZoneHandler struct {
	repo  repository.ZoneRepository
	cache ZoneCache
}

// NewZoneHandler creates a new ZoneHandler. Every write invalidates cache.
func NewZoneHandler(repo repository.ZoneRepository, cache ZoneCache) *ZoneHandler {
	return &ZoneHandler{repo: repo, cache: cache}
}

// VerticalsResponse lists the verticals a zone serves
type VerticalsResponse struct {
	ZoneID    string   `json:"zone_id"`
	Verticals []string `json:"verticals" example:"daily_fresh,society_fresh"`
}

// ListZones godoc
// @Summary List all zones
// @Description Returns a list of zones in creation order
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search zones by name or code"
// @Param is_active query boolean false "Filter by active flag"
// @Param vertical query string false "Only zones serving this vertical"
// @Param limit query integer false "Limit results"
// @Param offset query integer false "Offset results"
// @Success 200 {array} models.Zone
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones [get]
func (h *ZoneHandler) ListZones(c *gin.Context) {
	filter := repository.ZoneFilter{}

	// Parse search
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	if activeStr := c.Query("is_active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid is_active"})
			return
		}
		filter.IsActive = &active
	}

	if vertical := c.Query("vertical"); vertical != "" {
		filter.Vertical = &vertical
	}

	// Parse pagination
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	zones, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch zones"})
		return
	}

	c.JSON(http.StatusOK, zones)
}

// GetZone godoc
// @Summary Get a zone by ID
// @Description Returns a zone by its ID
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} models.Zone
// @Failure 400 {object} models.ErrorResponse "Invalid zone ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones/{id} [get]
func (h *ZoneHandler) GetZone(c *gin.Context) {
	zone, ok := h.loadZone(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, zone)
}

// GetZoneVerticals godoc
// @Summary List a zone's verticals
// @Description Returns the distinct verticals a zone serves
// @Tags zones
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} VerticalsResponse
// @Failure 400 {object} models.ErrorResponse "Invalid zone ID"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones/{id}/verticals [get]
func (h *ZoneHandler) GetZoneVerticals(c *gin.Context) {
	zone, ok := h.loadZone(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, VerticalsResponse{
		ZoneID:    zone.ID.String(),
		Verticals: serviceability.VerticalsFor(zone),
	})
}

func (h *ZoneHandler) loadZone(c *gin.Context) (*models.Zone, bool) {
	id, ok := parseID(c, "zone")
	if !ok {
		return nil, false
	}

	zone, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Zone not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch zone"})
		return nil, false
	}
	return zone, true
}

// CreateZone godoc
// @Summary Create a new zone (Admin only)
// @Description Creates a new zone. A zone needs a boundary of at least three points, pincodes, or both.
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param zone body models.CreateZoneRequest true "Zone to create"
// @Success 201 {object} models.Zone
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 409 {object} models.ErrorResponse "Zone code already exists"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones [post]
func (h *ZoneHandler) CreateZone(c *gin.Context) {
	zone, ok := bindZone(c)
	if !ok {
		return
	}

	err := h.repo.Create(c.Request.Context(), zone)
	if errors.Is(err, repository.ErrConflict) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Zone code already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create zone"})
		return
	}

	h.cache.Invalidate()
	c.JSON(http.StatusCreated, zone)
}

// UpdateZone godoc
// @Summary Update a zone (Admin only)
// @Description Replaces every field of an existing zone
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Param zone body models.UpdateZoneRequest true "Updated zone"
// @Success 200 {object} models.Zone
// @Failure 400 {object} models.ErrorResponse "Invalid request body or zone ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 409 {object} models.ErrorResponse "Zone code already exists"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones/{id} [put]
func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	id, ok := parseID(c, "zone")
	if !ok {
		return
	}

	zone, ok := bindZone(c)
	if !ok {
		return
	}
	zone.ID = id

	err := h.repo.Update(c.Request.Context(), zone)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Zone not found"})
		return
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Zone code already exists"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update zone"})
		return
	}

	h.cache.Invalidate()
	c.JSON(http.StatusOK, zone)
}

// DeleteZone godoc
// @Summary Delete a zone (Admin only)
// @Description Deletes a zone that no subscription references
// @Tags zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse "Invalid zone ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 409 {object} models.ErrorResponse "Zone has subscriptions"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones/{id} [delete]
func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	id, ok := parseID(c, "zone")
	if !ok {
		return
	}

	err := h.repo.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Zone not found"})
		return
	case errors.Is(err, repository.ErrHasAssociatedRecords):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Zone has subscriptions"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete zone"})
		return
	}

	h.cache.Invalidate()
	c.Status(http.StatusNoContent)
}

// bindZone decodes and checks a zone request body
func bindZone(c *gin.Context) (*models.Zone, bool) {
	var req models.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	if len(req.Boundary) > 0 && len(req.Boundary) < 3 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "boundary needs at least three points"})
		return nil, false
	}

	zone, err := req.ToZone()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	if zone.IsDead() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "zone needs a boundary or pincodes"})
		return nil, false
	}
	return zone, true
}
