package handler

import (
	"errors"
	"net/http"

	"join/internal/api"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryRepo repository.CategoryRepositoryInterface
}

func NewCategoryHandler(categoryRepo repository.CategoryRepositoryInterface) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// List godoc
// @Summary  List categories
// @Tags     Categories
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} api.Category
// @Router   /categories/ [get]
func (h *CategoryHandler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	categories, err := h.categoryRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	response := make([]api.Category, len(categories))
	for i := range categories {
		response[i] = categories[i].ToAPI()
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Create a category
// @Tags     Categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body api.Category true "Category"
// @Success  201 {object} api.Category
// @Router   /categories/ [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req api.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	category := &model.Category{Name: req.Name, Color: req.Color}
	if err := h.categoryRepo.Create(c.Request.Context(), category); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category.ToAPI())
}

// GetByID godoc
// @Summary  Get a category
// @Tags     Categories
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Category ID"
// @Success  200 {object} api.Category
// @Router   /categories/{id}/ [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	category, err := h.categoryRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "Category not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve category")
		}
		return
	}

	c.JSON(http.StatusOK, category.ToAPI())
}
