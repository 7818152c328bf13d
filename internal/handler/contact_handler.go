package handler

import (
	"errors"
	"net/http"
	"strings"

	"join/internal/api"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ContactHandler struct {
	contactRepo repository.ContactRepositoryInterface
}

func NewContactHandler(contactRepo repository.ContactRepositoryInterface) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// List godoc
// @Summary  List contacts sorted by name
// @Tags     Contacts
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} api.Contact
// @Router   /contacts/ [get]
func (h *ContactHandler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	contacts, err := h.contactRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	response := make([]api.Contact, len(contacts))
	for i := range contacts {
		response[i] = contacts[i].ToAPI()
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Add a contact
// @Tags     Contacts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body api.Contact true "Contact"
// @Success  201 {object} api.Contact
// @Router   /contacts/ [post]
func (h *ContactHandler) Create(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req api.Contact
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	contact := contactFromRequest(&req)
	if err := h.contactRepo.Create(c.Request.Context(), contact); err != nil {
		log.WithError(err).Error("create contact failed")
		respondError(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, contact.ToAPI())
}

// GetByID godoc
// @Summary  Get a contact
// @Tags     Contacts
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Contact ID"
// @Success  200 {object} api.Contact
// @Router   /contacts/{id}/ [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}

	contact, err := h.contactRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to retrieve contact")
		}
		return
	}

	c.JSON(http.StatusOK, contact.ToAPI())
}

// Update godoc
// @Summary  Update a contact
// @Tags     Contacts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string      true "Contact ID"
// @Param    body body api.Contact true "Contact"
// @Success  200 {object} api.Contact
// @Router   /contacts/{id}/ [put]
func (h *ContactHandler) Update(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}

	var req api.Contact
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	contact := contactFromRequest(&req)
	contact.ID = id
	if err := h.contactRepo.Update(c.Request.Context(), contact); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, contact.ToAPI())
}

// Delete godoc
// @Summary  Delete a contact and unassign it from all tasks
// @Tags     Contacts
// @Security BearerAuth
// @Param    id path string true "Contact ID"
// @Success  204
// @Router   /contacts/{id}/ [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}

	if err := h.contactRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	c.Status(http.StatusNoContent)
}

func contactFromRequest(req *api.Contact) *model.Contact {
	name := strings.TrimSpace(req.Name)
	initials := strings.TrimSpace(req.Initials)
	if initials == "" {
		initials = api.Initials(name)
	}
	return &model.Contact{
		Name:     name,
		Initials: initials,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Color:    req.Color,
	}
}
