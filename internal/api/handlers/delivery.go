package handlers

import (
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// DeliveryHandler serves the materialized delivery sheet
type DeliveryHandler struct {
	repo     repository.DeliveryRepository
	location *time.Location
	now      func() time.Time
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(repo repository.DeliveryRepository, loc *time.Location) *DeliveryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DeliveryHandler{repo: repo, location: loc, now: time.Now}
}

// ListDeliveries godoc
// @Summary List a day's deliveries
// @Description Returns the deliveries planned for a date, grouped by zone. Defaults to today.
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param zone_id query string false "Filter by zone"
// @Param status query string false "Filter by status" Enums(scheduled, delivered, missed, cancelled)
// @Success 200 {array} models.Delivery
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	date := models.DateOf(h.now().In(h.location))
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid date"})
			return
		}
		date = parsed
	}

	filter := repository.DeliveryFilter{}
	zoneID, ok := parseOptionalUUID(c, "zone_id")
	if !ok {
		return
	}
	filter.ZoneID = zoneID

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.DeliveryStatus(statusStr)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid status"})
			return
		}
		filter.Status = &status
	}

	deliveries, err := h.repo.ListByDate(c.Request.Context(), date, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch deliveries"})
		return
	}

	c.JSON(http.StatusOK, deliveries)
}

// UpdateDeliveryStatus godoc
// @Summary Update a delivery's status (Admin only)
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Delivery ID"
// @Param request body models.UpdateDeliveryStatusRequest true "New status"
// @Success 200 {object} models.Delivery
// @Failure 400 {object} models.ErrorResponse "Invalid request body or delivery ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 404 {object} models.ErrorResponse "Delivery not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /deliveries/{id}/status [put]
func (h *DeliveryHandler) UpdateDeliveryStatus(c *gin.Context) {
	id, ok := parseID(c, "delivery")
	if !ok {
		return
	}

	var req models.UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	delivery, err := h.repo.UpdateStatus(c.Request.Context(), id, req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Delivery not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update delivery"})
		return
	}

	c.JSON(http.StatusOK, delivery)
}
