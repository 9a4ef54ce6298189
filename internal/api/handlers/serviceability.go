package handlers

import (
	"context"
	"milkroute/internal/logger"
	"milkroute/internal/metrics"
	"milkroute/internal/models"
	"milkroute/internal/serviceability"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// ServiceabilityChecker resolves a location to its serving zone
type ServiceabilityChecker interface {
	Check(ctx context.Context, query models.ServiceabilityQuery, now time.Time) (*models.Zone, error)
}

// ServiceabilityHandler answers whether a location can be delivered to
type ServiceabilityHandler struct {
	checker  ServiceabilityChecker
	metrics  *metrics.Recorder
	location *time.Location
	now      func() time.Time
}

// NewServiceabilityHandler creates the handler. Service windows are
// evaluated on the wall clock of loc.
func NewServiceabilityHandler(checker ServiceabilityChecker, rec *metrics.Recorder, loc *time.Location) *ServiceabilityHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ServiceabilityHandler{
		checker:  checker,
		metrics:  rec,
		location: loc,
		now:      time.Now,
	}
}

// Check godoc
// @Summary Check serviceability
// @Description Resolves a pincode and/or coordinates to the active zone serving it. Coordinates are matched against zone boundaries before any pincode is tried.
// @Tags serviceability
// @Accept json
// @Produce json
// @Param request body models.ServiceabilityQuery true "Location to check"
// @Success 200 {object} models.ServiceabilityResponse
// @Failure 400 {object} models.ErrorResponse "Neither a pincode nor a full coordinate pair"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /serviceability/check [post]
func (h *ServiceabilityHandler) Check(c *gin.Context) {
	var query models.ServiceabilityQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.metrics.ServiceabilityCheck(metrics.ResultInvalid)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	zone, err := h.checker.Check(c.Request.Context(), query, h.now().In(h.location))
	if errors.Is(err, serviceability.ErrInvalidQuery) {
		h.metrics.ServiceabilityCheck(metrics.ResultInvalid)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.metrics.ServiceabilityCheck(metrics.ResultError)
		logger.WithComponent("serviceability").WithError(err).Error("Serviceability check failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check serviceability"})
		return
	}

	if zone == nil {
		h.metrics.ServiceabilityCheck(metrics.ResultNotServiceable)
		c.JSON(http.StatusOK, models.ServiceabilityResponse{
			Serviceable: false,
			Verticals:   []string{},
		})
		return
	}

	h.metrics.ServiceabilityCheck(metrics.ResultServiceable)
	c.JSON(http.StatusOK, models.ServiceabilityResponse{
		Serviceable: true,
		Zone:        zone,
		Verticals:   serviceability.VerticalsFor(zone),
	})
}
