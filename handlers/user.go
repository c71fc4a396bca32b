package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/models"
)

type UserHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewUserHandler(api *apiclient.Client, log *logger.Logger) *UserHandler {
	return &UserHandler{api: api, log: log.With("handler", "UserHandler")}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.ListUsers(c.Request.Context(), middleware.Token(c)))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := intParam(c, "id", "user ID")
	if !ok {
		return
	}
	user, err := h.api.GetUser(c.Request.Context(), middleware.Token(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}
	user, err := h.api.CreateUser(c.Request.Context(), middleware.Token(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser leaves the password untouched when the request omits it.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := intParam(c, "id", "user ID")
	if !ok {
		return
	}
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.api.UpdateUser(c.Request.Context(), middleware.Token(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := intParam(c, "id", "user ID")
	if !ok {
		return
	}
	if err := h.api.DeleteUser(c.Request.Context(), middleware.Token(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário excluído"})
}

func (h *UserHandler) GetInstructors(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.ListInstructors(c.Request.Context(), middleware.Token(c)))
}
