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

type LessonHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewLessonHandler(api *apiclient.Client, log *logger.Logger) *LessonHandler {
	return &LessonHandler{api: api, log: log.With("handler", "LessonHandler")}
}

type lessonPath struct {
	courseID, moduleID, groupID int
}

func lessonParams(c *gin.Context) (lessonPath, bool) {
	var p lessonPath
	var ok bool
	if p.courseID, ok = intParam(c, "courseId", "course ID"); !ok {
		return p, false
	}
	if p.moduleID, ok = intParam(c, "moduleId", "module ID"); !ok {
		return p, false
	}
	if p.groupID, ok = intParam(c, "groupId", "group ID"); !ok {
		return p, false
	}
	return p, true
}

func bindLesson(c *gin.Context) (apiclient.LessonPayload, bool) {
	var req models.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return apiclient.LessonPayload{}, false
	}
	if req.Type == models.LessonVideo && req.VideoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoUrl is required for video lessons"})
		return apiclient.LessonPayload{}, false
	}
	return apiclient.LessonPayload{
		Lesson: models.Lesson{
			Title: req.Title,
			Slug:  slug.Resolve(req.Title, req.Slug, req.SlugEdited),
			Type:  req.Type,
		},
		Content:  req.Content,
		VideoURL: req.VideoURL,
	}, true
}

func (h *LessonHandler) GetLessons(c *gin.Context) {
	p, ok := lessonParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.api.ListLessons(c.Request.Context(), middleware.Token(c), p.courseID, p.moduleID, p.groupID))
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	p, ok := lessonParams(c)
	if !ok {
		return
	}
	l, ok := bindLesson(c)
	if !ok {
		return
	}
	created, err := h.api.CreateLesson(c.Request.Context(), middleware.Token(c), p.courseID, p.moduleID, p.groupID, l)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	p, ok := lessonParams(c)
	if !ok {
		return
	}
	lessonID, ok := intParam(c, "lessonId", "lesson ID")
	if !ok {
		return
	}
	l, ok := bindLesson(c)
	if !ok {
		return
	}
	l.ID = lessonID
	updated, err := h.api.UpdateLesson(c.Request.Context(), middleware.Token(c), p.courseID, p.moduleID, p.groupID, lessonID, l)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	p, ok := lessonParams(c)
	if !ok {
		return
	}
	lessonID, ok := intParam(c, "lessonId", "lesson ID")
	if !ok {
		return
	}
	if err := h.api.DeleteLesson(c.Request.Context(), middleware.Token(c), p.courseID, p.moduleID, p.groupID, lessonID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Aula excluída"})
}
