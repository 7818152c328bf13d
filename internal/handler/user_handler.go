package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"join/internal/api"
	"join/internal/auth"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo      repository.UserRepositoryInterface
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserHandler(repo repository.UserRepositoryInterface, jwtSecret string, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Signup godoc
// @Summary  Register a new user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    body body api.SignupRequest true "New user"
// @Success  201 {object} api.AuthResponse
// @Failure  409 {object} api.ErrorResponse
// @Router   /signup/ [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	_, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		respondError(c, http.StatusConflict, "User with this email already exists")
		return
	case !errors.Is(err, repository.ErrUserNotFound):
		log.WithError(err).Error("signup: lookup by email failed")
		respondError(c, http.StatusInternalServerError, "DB error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Hash error")
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		Name:           strings.TrimSpace(req.Name),
		Initials:       api.Initials(req.Name),
		HashedPassword: string(hash),
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		log.WithError(err).Error("signup: create user failed")
		respondError(c, http.StatusInternalServerError, "Create failed")
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary  Exchange credentials for a token
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    body body api.LoginRequest true "Credentials"
// @Success  200 {object} api.AuthResponse
// @Failure  401 {object} api.ErrorResponse
// @Router   /login/ [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.WithError(err).Error("login: lookup by email failed")
		respondError(c, http.StatusInternalServerError, "DB error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, user *model.User) {
	token, err := auth.GenerateToken(h.jwtSecret, user.ID.String(), h.tokenTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Token error")
		return
	}

	c.JSON(status, api.AuthResponse{Token: token, User: user.ToAPI()})
}
