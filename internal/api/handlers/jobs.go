package handlers

import (
	"milkroute/internal/jobs"
	"milkroute/internal/models"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// JobTrigger starts a registered job in the background
type JobTrigger interface {
	Trigger(name string) error
}

// JobHandler handles manual job runs
type JobHandler struct {
	manager JobTrigger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(manager JobTrigger) *JobHandler {
	return &JobHandler{manager: manager}
}

// RunJob godoc
// @Summary Run a job now (Admin only)
// @Description Starts a background job outside its schedule, e.g. delivery-run or token-cleanup
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param name path string true "Job name"
// @Success 202 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 404 {object} models.ErrorResponse "Job not found"
// @Failure 409 {object} models.ErrorResponse "Job is disabled"
// @Router /jobs/{name}/run [post]
func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	err := h.manager.Trigger(name)
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Job not found"})
		return
	case errors.Is(err, jobs.ErrJobDisabled):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Job is disabled"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start job"})
		return
	}

	c.JSON(http.StatusAccepted, models.SuccessResponse{Message: "Job " + name + " started"})
}
