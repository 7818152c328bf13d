package handler

import (
	"errors"
	"net/http"

	"join/internal/api"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type SubtaskHandler struct {
	subtaskRepo repository.SubtaskRepositoryInterface
}

func NewSubtaskHandler(subtaskRepo repository.SubtaskRepositoryInterface) *SubtaskHandler {
	return &SubtaskHandler{subtaskRepo: subtaskRepo}
}

// List godoc
// @Summary  List subtasks
// @Tags     Subtasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} api.Subtask
// @Router   /subtasks/ [get]
func (h *SubtaskHandler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	subtasks, err := h.subtaskRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve subtasks")
		return
	}

	response := make([]api.Subtask, len(subtasks))
	for i := range subtasks {
		response[i] = subtasks[i].ToAPI()
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Create a subtask, to be linked from a task afterwards
// @Tags     Subtasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body api.Subtask true "Subtask"
// @Success  201 {object} api.Subtask
// @Router   /subtasks/ [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req api.Subtask
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	subtask := &model.Subtask{Text: req.Text, Completed: req.Completed}
	if err := h.subtaskRepo.Create(c.Request.Context(), subtask); err != nil {
		log.WithError(err).Error("create subtask failed")
		respondError(c, http.StatusInternalServerError, "Failed to create subtask")
		return
	}

	c.JSON(http.StatusCreated, subtask.ToAPI())
}

// GetByID godoc
// @Summary  Get a subtask
// @Tags     Subtasks
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Subtask ID"
// @Success  200 {object} api.Subtask
// @Router   /subtasks/{id}/ [get]
func (h *SubtaskHandler) GetByID(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "subtask")
	if !ok {
		return
	}

	subtask, err := h.subtaskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSubtaskNotFound) {
			respondError(c, http.StatusNotFound, "Subtask not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve subtask")
		}
		return
	}

	c.JSON(http.StatusOK, subtask.ToAPI())
}

// Update godoc
// @Summary  Update a subtask's text or completion
// @Tags     Subtasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string      true "Subtask ID"
// @Param    body body api.Subtask true "Subtask"
// @Success  200 {object} api.Subtask
// @Router   /subtasks/{id}/ [put]
func (h *SubtaskHandler) Update(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "subtask")
	if !ok {
		return
	}

	var req api.Subtask
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	subtask := &model.Subtask{ID: id, Text: req.Text, Completed: req.Completed}
	if err := h.subtaskRepo.Update(c.Request.Context(), subtask); err != nil {
		if errors.Is(err, repository.ErrSubtaskNotFound) {
			respondError(c, http.StatusNotFound, "Subtask not found")
			return
		}
		log.WithError(err).WithField("subtask_id", id).Error("update subtask failed")
		respondError(c, http.StatusInternalServerError, "Failed to update subtask")
		return
	}

	c.JSON(http.StatusOK, subtask.ToAPI())
}

// Delete godoc
// @Summary  Delete a subtask
// @Tags     Subtasks
// @Security BearerAuth
// @Param    id path string true "Subtask ID"
// @Success  204
// @Router   /subtasks/{id}/ [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "subtask")
	if !ok {
		return
	}

	if err := h.subtaskRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSubtaskNotFound) {
			respondError(c, http.StatusNotFound, "Subtask not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete subtask")
		return
	}

	c.Status(http.StatusNoContent)
}
