package handler

import (
	"errors"
	"net/http"

	"join/internal/api"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type TaskHandler struct {
	taskRepo     repository.TaskRepositoryInterface
	subtaskRepo  repository.SubtaskRepositoryInterface
	contactRepo  repository.ContactRepositoryInterface
	categoryRepo repository.CategoryRepositoryInterface
}

func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	subtaskRepo repository.SubtaskRepositoryInterface,
	contactRepo repository.ContactRepositoryInterface,
	categoryRepo repository.CategoryRepositoryInterface,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:     taskRepo,
		subtaskRepo:  subtaskRepo,
		contactRepo:  contactRepo,
		categoryRepo: categoryRepo,
	}
}

// List godoc
// @Summary  List all tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} api.Task
// @Router   /tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	tasks, err := h.taskRepo.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list tasks failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}

	response := make([]api.Task, len(tasks))
	for i := range tasks {
		response[i] = tasks[i].ToAPI()
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  200 {object} api.Task
// @Failure  404 {object} api.ErrorResponse
// @Router   /tasks/{id}/ [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, task.ToAPI())
}

// Create godoc
// @Summary  Create a task; the status is always todo
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body api.Task true "Task"
// @Success  201 {object} api.Task
// @Failure  400 {object} api.ErrorResponse
// @Router   /tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req api.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}
	req.Status = api.StatusTodo

	task := &model.Task{CreatorID: &userID}
	if !h.applyRequest(c, &req, task) {
		return
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		log.WithError(err).Error("create task failed")
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task.ToAPI())
}

// Update godoc
// @Summary  Replace a task, including its status
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string   true "Task ID"
// @Param    body body api.Task true "Task"
// @Success  200 {object} api.Task
// @Failure  400 {object} api.ErrorResponse
// @Failure  404 {object} api.ErrorResponse
// @Router   /tasks/{id}/ [put]
func (h *TaskHandler) Update(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	var req api.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if req.Status == "" {
		req.Status = api.Status(task.Status)
	}
	if !h.applyRequest(c, &req, task) {
		return
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", taskID).Error("update task failed")
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, task.ToAPI())
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  204
// @Failure  404 {object} api.ErrorResponse
// @Router   /tasks/{id}/ [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", taskID).Error("delete task failed")
		respondError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) loadTask(c *gin.Context, id uuid.UUID) (*model.Task, bool) {
	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve task")
		}
		return nil, false
	}
	return task, true
}

// applyRequest copies req onto task and resolves every referenced entity.
// It writes the error response itself and reports whether task is usable.
func (h *TaskHandler) applyRequest(c *gin.Context, req *api.Task, task *model.Task) bool {
	ctx := c.Request.Context()

	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "Unknown task status")
		return false
	}
	priority := req.Priority
	if priority == "" {
		priority = api.PriorityMedium
	}
	dueDate, err := model.ParseDueDate(req.DueDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
		return false
	}

	if req.Category != nil {
		if _, err := h.categoryRepo.GetByID(ctx, *req.Category); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				respondError(c, http.StatusBadRequest, "Category not found")
			} else {
				respondError(c, http.StatusInternalServerError, "Failed to retrieve category")
			}
			return false
		}
	}

	assignees, err := h.contactRepo.GetByIDs(ctx, req.AssignedTo)
	if err != nil {
		respondReferenceError(c, err, repository.ErrContactNotFound, "Assigned contact not found")
		return false
	}
	contacts, err := h.contactRepo.GetByIDs(ctx, req.Contacts)
	if err != nil {
		respondReferenceError(c, err, repository.ErrContactNotFound, "Contact not found")
		return false
	}

	// subtasks without an id have not been created yet and cannot be linked
	subtaskIDs := make([]uuid.UUID, 0, len(req.Subtasks))
	for _, st := range req.PersistedSubtasks() {
		subtaskIDs = append(subtaskIDs, st.ID)
	}
	subtasks, err := h.subtaskRepo.GetByIDs(ctx, subtaskIDs)
	if err != nil {
		respondReferenceError(c, err, repository.ErrSubtaskNotFound, "Subtask not found")
		return false
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Priority = string(priority)
	task.DueDate = dueDate
	task.CategoryID = req.Category
	task.Status = string(req.Status)
	task.AssignedTo = assignees
	task.Contacts = contacts
	task.Subtasks = subtasks
	return true
}

func respondReferenceError(c *gin.Context, err, notFound error, message string) {
	if errors.Is(err, notFound) {
		respondError(c, http.StatusBadRequest, message)
		return
	}
	log.WithError(err).Error("resolve task references failed")
	respondError(c, http.StatusInternalServerError, "Failed to resolve task references")
}
