package handlers

import (
	"fmt"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/schedule"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// Bounds of the upcoming deliveries count
const (
	DefaultUpcomingCount = 7
	MaxUpcomingCount     = 60
)

// SubscriptionHandler handles subscription requests and their calendars
type SubscriptionHandler struct {
	repo       repository.SubscriptionRepository
	calculator *schedule.Calculator
	location   *time.Location
	now        func() time.Time
}

// NewSubscriptionHandler creates a new SubscriptionHandler. Calendar days
// are counted in loc.
func NewSubscriptionHandler(repo repository.SubscriptionRepository, calculator *schedule.Calculator, loc *time.Location) *SubscriptionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SubscriptionHandler{
		repo:       repo,
		calculator: calculator,
		location:   loc,
		now:        time.Now,
	}
}

func (h *SubscriptionHandler) today() time.Time {
	return h.now().In(h.location)
}

// ListSubscriptions godoc
// @Summary List subscriptions
// @Description Returns subscriptions, newest first
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by customer name or phone"
// @Param status query string false "Filter by status" Enums(active, paused, cancelled, expired)
// @Param zone_id query string false "Filter by zone"
// @Param limit query integer false "Limit results"
// @Param offset query integer false "Offset results"
// @Success 200 {array} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	filter := repository.SubscriptionFilter{}

	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.SubscriptionStatus(statusStr)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid status"})
			return
		}
		filter.Status = &status
	}

	zoneID, ok := parseOptionalUUID(c, "zone_id")
	if !ok {
		return
	}
	filter.ZoneID = zoneID

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	subs, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// GetSubscription godoc
// @Summary Get a subscription by ID
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateSubscription godoc
// @Summary Create a subscription
// @Description Creates an active subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscription body models.CreateSubscriptionRequest true "Subscription to create"
// @Success 201 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid request body or unknown zone"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req models.CreateSubscriptionRequest
	if !bindSubscription(c, &req) {
		return
	}

	sub := &models.Subscription{Status: models.SubscriptionStatusActive}
	req.Apply(sub)

	err := h.repo.Create(c.Request.Context(), sub)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Zone not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create subscription"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// UpdateSubscription godoc
// @Summary Update a subscription
// @Description Replaces the plan of a subscription. Status and vacation are changed through their own endpoints.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param subscription body models.UpdateSubscriptionRequest true "Updated subscription"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid request body or subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	var req models.UpdateSubscriptionRequest
	if !bindSubscription(c, &req) {
		return
	}
	req.Apply(sub)

	err := h.repo.Update(c.Request.Context(), sub)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Subscription or zone not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// UpdateSubscriptionStatus godoc
// @Summary Change a subscription's status
// @Description active may move to paused, cancelled or expired; paused may move to active, cancelled or expired. Cancelled and expired are final.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body models.UpdateSubscriptionStatusRequest true "New status"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid request body or subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 409 {object} models.ErrorResponse "Transition not allowed"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id}/status [put]
func (h *SubscriptionHandler) UpdateSubscriptionStatus(c *gin.Context) {
	id, ok := parseID(c, "subscription")
	if !ok {
		return
	}

	var req models.UpdateSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.repo.UpdateStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Subscription not found"})
		return
	case errors.Is(err, repository.ErrInvalidTransition):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update subscription status"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// SetVacation godoc
// @Summary Set a vacation hold
// @Description Pauses deliveries from start to end inclusive
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body models.VacationRequest true "Vacation range"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid range or subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id}/vacation [put]
func (h *SubscriptionHandler) SetVacation(c *gin.Context) {
	id, ok := parseID(c, "subscription")
	if !ok {
		return
	}

	var req models.VacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "start and end are required"})
		return
	}
	if req.End.Before(req.Start) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "end must not be before start"})
		return
	}

	sub, err := h.repo.SetVacation(c.Request.Context(), id, req.Start, req.End)
	h.respondSubscription(c, sub, err)
}

// ClearVacation godoc
// @Summary Clear a vacation hold
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} models.ErrorResponse "Invalid subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id}/vacation [delete]
func (h *SubscriptionHandler) ClearVacation(c *gin.Context) {
	id, ok := parseID(c, "subscription")
	if !ok {
		return
	}

	sub, err := h.repo.ClearVacation(c.Request.Context(), id)
	h.respondSubscription(c, sub, err)
}

// GetCalendar godoc
// @Summary Get a month calendar
// @Description Returns every day of the month with its delivery and vacation flags. Defaults to the current month.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param month query integer false "Month 1-12"
// @Param year query integer false "Year 1970-2100"
// @Success 200 {object} models.Schedule
// @Failure 400 {object} models.ErrorResponse "Invalid month, year or subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id}/calendar [get]
func (h *SubscriptionHandler) GetCalendar(c *gin.Context) {
	now := h.today()

	month, ok := queryInt(c, "month", int(now.Month()))
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return
	}

	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	sched, err := h.calculator.MonthSchedule(sub, month, year, now)
	if errors.Is(err, schedule.ErrInvalidPeriod) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build calendar"})
		return
	}

	c.JSON(http.StatusOK, sched)
}

// GetUpcomingDeliveries godoc
// @Summary Get upcoming deliveries
// @Description Returns the next delivery dates starting today
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param count query integer false "Number of dates (default 7, max 60)"
// @Success 200 {object} models.UpcomingDeliveriesResponse
// @Failure 400 {object} models.ErrorResponse "Invalid count or subscription ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Subscription not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /subscriptions/{id}/upcoming [get]
func (h *SubscriptionHandler) GetUpcomingDeliveries(c *gin.Context) {
	count, ok := queryInt(c, "count", DefaultUpcomingCount)
	if !ok {
		return
	}
	if count < 1 || count > MaxUpcomingCount {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "count must be between 1 and 60"})
		return
	}

	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.UpcomingDeliveriesResponse{
		SubscriptionID: sub.ID,
		Dates:          h.calculator.UpcomingDeliveries(sub, h.today(), count),
	})
}

func (h *SubscriptionHandler) loadSubscription(c *gin.Context) (*models.Subscription, bool) {
	id, ok := parseID(c, "subscription")
	if !ok {
		return nil, false
	}

	sub, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Subscription not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch subscription"})
		return nil, false
	}
	return sub, true
}

func (h *SubscriptionHandler) respondSubscription(c *gin.Context, sub *models.Subscription, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Subscription not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// bindSubscription decodes a subscription body and checks the fields the
// binding tags cannot express
func bindSubscription(c *gin.Context, req *models.CreateSubscriptionRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return false
	}
	if req.StartDate.IsZero() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "start_date is required"})
		return false
	}
	if y := req.StartDate.Year(); y < schedule.MinYear || y > schedule.MaxYear {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("start_date must fall between %d and %d", schedule.MinYear, schedule.MaxYear),
		})
		return false
	}
	if !req.UnitPrice.IsPositive() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unit_price must be positive"})
		return false
	}
	if req.Cadence.Normalize() == models.CadenceCustom && len(req.Weekdays) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "weekdays are required for custom cadence"})
		return false
	}
	return true
}

// queryInt reads an integer query parameter, using def when it is absent
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return v, true
}
