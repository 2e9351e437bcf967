package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/middleware"
	"github.com/agencydesk/agency-api/internal/models"
	"github.com/agencydesk/agency-api/internal/service"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/response"
)

type taskQueueService interface {
	TaskQueue(ctx context.Context) (*dto.TaskQueueResponse, bool, error)
}

// TaskHandler exposes task endpoints and the ranked work queue.
type TaskHandler struct {
	tasks   *service.TaskService
	scoring taskQueueService
}

// NewTaskHandler constructs TaskHandler.
func NewTaskHandler(tasks *service.TaskService, scoring taskQueueService) *TaskHandler {
	return &TaskHandler{tasks: tasks, scoring: scoring}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param clientId query string false "Filter by client"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var filter models.TaskFilter
	filter.ClientID = c.Query("clientId")
	if status := c.Query("status"); status != "" {
		v := models.TaskStatus(status)
		filter.Status = &v
	}
	if priority := c.Query("priority"); priority != "" {
		v := models.TaskPriority(priority)
		filter.Priority = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	tasks, pagination, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, pagination)
}

// Queue godoc
// @Summary Ranked task queue
// @Description Open tasks ordered by urgency score, highest first
// @Tags Tasks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tasks/queue [get]
func (h *TaskHandler) Queue(c *gin.Context) {
	start := time.Now()
	queue, cacheHit, err := h.scoring.TaskQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, queue, nil, meta)
}

// Get godoc
// @Summary Get task detail
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body models.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update godoc
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body models.UpdateTaskRequest true "Task payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 204 {object} response.Envelope
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
