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

// ModuleHandler manages a course's modules and the groups inside them.
type ModuleHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewModuleHandler(api *apiclient.Client, log *logger.Logger) *ModuleHandler {
	return &ModuleHandler{api: api, log: log.With("handler", "ModuleHandler")}
}

func (h *ModuleHandler) GetModules(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.api.ListModules(c.Request.Context(), middleware.Token(c), courseID))
}

func bindModule(c *gin.Context) (models.Module, bool) {
	var req models.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Module{}, false
	}
	return models.Module{
		Title: req.Title,
		Slug:  slug.Resolve(req.Title, req.Slug, req.SlugEdited),
		Order: req.Order,
	}, true
}

func (h *ModuleHandler) CreateModule(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	m, ok := bindModule(c)
	if !ok {
		return
	}
	m.CourseID = courseID
	created, err := h.api.CreateModule(c.Request.Context(), middleware.Token(c), courseID, m)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	m, ok := bindModule(c)
	if !ok {
		return
	}
	m.ID, m.CourseID = moduleID, courseID
	updated, err := h.api.UpdateModule(c.Request.Context(), middleware.Token(c), courseID, moduleID, m)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	if err := h.api.DeleteModule(c.Request.Context(), middleware.Token(c), courseID, moduleID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Módulo excluído"})
}

func (h *ModuleHandler) GetGroups(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.api.ListGroups(c.Request.Context(), middleware.Token(c), courseID, moduleID))
}

func bindGroup(c *gin.Context) (models.Group, bool) {
	var req models.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Group{}, false
	}
	return models.Group{Title: req.Title, Slug: slug.Resolve(req.Title, req.Slug, req.SlugEdited)}, true
}

func (h *ModuleHandler) CreateGroup(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	g, ok := bindGroup(c)
	if !ok {
		return
	}
	g.ModuleID = moduleID
	created, err := h.api.CreateGroup(c.Request.Context(), middleware.Token(c), courseID, moduleID, g)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ModuleHandler) UpdateGroup(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	groupID, ok := intParam(c, "groupId", "group ID")
	if !ok {
		return
	}
	g, ok := bindGroup(c)
	if !ok {
		return
	}
	g.ID, g.ModuleID = groupID, moduleID
	updated, err := h.api.UpdateGroup(c.Request.Context(), middleware.Token(c), courseID, moduleID, groupID, g)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ModuleHandler) DeleteGroup(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	groupID, ok := intParam(c, "groupId", "group ID")
	if !ok {
		return
	}
	if err := h.api.DeleteGroup(c.Request.Context(), middleware.Token(c), courseID, moduleID, groupID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submódulo excluído"})
}
