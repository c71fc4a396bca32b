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

type CourseHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewCourseHandler(api *apiclient.Client, log *logger.Logger) *CourseHandler {
	return &CourseHandler{api: api, log: log.With("handler", "CourseHandler")}
}

func courseFrom(req models.CourseRequest) models.Course {
	level := req.Level
	if level == "" {
		level = models.LevelBeginner
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Course{
		Title:        req.Title,
		Slug:         slug.Resolve(req.Title, req.Slug, req.SlugEdited),
		Description:  req.Description,
		Level:        level,
		Tags:         tags,
		InstructorID: req.InstructorID,
		CategoryID:   req.CategoryID,
		IsFree:       req.IsFree,
		Thumbnail:    req.Thumbnail,
	}
}

func (h *CourseHandler) GetCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.ListCourses(c.Request.Context(), middleware.Token(c)))
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	course, err := h.api.GetCourse(c.Request.Context(), middleware.Token(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Curso não encontrado"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req models.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.api.CreateCourse(c.Request.Context(), middleware.Token(c), courseFrom(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	var req models.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.api.UpdateCourse(c.Request.Context(), middleware.Token(c), id, courseFrom(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	if err := h.api.DeleteCourse(c.Request.Context(), middleware.Token(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Curso excluído"})
}
