package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/models"
	"codelegends_gateway/slug"
)

type CategoryHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewCategoryHandler(api *apiclient.Client, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{api: api, log: log.With("handler", "CategoryHandler")}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.ListCategories(c.Request.Context(), middleware.Token(c)))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := intParam(c, "id", "category ID")
	if !ok {
		return
	}
	cat, err := h.api.GetCategory(c.Request.Context(), middleware.Token(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if cat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func categoryFrom(req models.CategoryRequest) models.Category {
	return models.Category{Name: req.Name, Slug: slug.Resolve(req.Name, req.Slug, req.SlugEdited)}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.api.CreateCategory(c.Request.Context(), middleware.Token(c), categoryFrom(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := intParam(c, "id", "category ID")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.api.UpdateCategory(c.Request.Context(), middleware.Token(c), id, categoryFrom(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := intParam(c, "id", "category ID")
	if !ok {
		return
	}
	if err := h.api.DeleteCategory(c.Request.Context(), middleware.Token(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria excluída"})
}
