package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/learning"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/progress"
)

type ClassroomHandler struct {
	learning *learning.Service
	tracker  progress.Tracker
	log      *logger.Logger
}

func NewClassroomHandler(svc *learning.Service, tracker progress.Tracker, log *logger.Logger) *ClassroomHandler {
	return &ClassroomHandler{learning: svc, tracker: tracker, log: log.With("handler", "ClassroomHandler")}
}

func courseSlugParam(c *gin.Context) (string, bool) {
	s := strings.TrimSpace(c.Param("courseSlug"))
	if s == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course slug"})
		return "", false
	}
	return s, true
}

// Learn sends the learner to the lesson they should continue in their active
// course.
func (h *ClassroomHandler) Learn(c *gin.Context) {
	target, err := h.learning.Learn(c.Request.Context(), middleware.Token(c), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *ClassroomHandler) Entry(c *gin.Context) {
	courseSlug, ok := courseSlugParam(c)
	if !ok {
		return
	}
	target, err := h.learning.Entry(c.Request.Context(), middleware.Token(c), middleware.UserID(c), courseSlug)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *ClassroomHandler) GetRoadmap(c *gin.Context) {
	courseSlug, ok := courseSlugParam(c)
	if !ok {
		return
	}
	fresh := c.Query("fresh") == "true"
	rm, err := h.learning.Roadmap(c.Request.Context(), middleware.Token(c), middleware.UserID(c), courseSlug, fresh)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rm)
}

func (h *ClassroomHandler) LessonURL(c *gin.Context) {
	courseSlug, ok := courseSlugParam(c)
	if !ok {
		return
	}
	lessonID, ok := intParam(c, "lessonId", "lesson ID")
	if !ok {
		return
	}
	target, err := h.learning.LessonTarget(c.Request.Context(), middleware.Token(c), middleware.UserID(c), courseSlug, lessonID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *ClassroomHandler) UnlockNextModule(c *gin.Context) {
	courseSlug, ok := courseSlugParam(c)
	if !ok {
		return
	}
	moduleID, ok := intParam(c, "moduleId", "module ID")
	if !ok {
		return
	}
	res, err := h.learning.UnlockNextModule(c.Request.Context(), middleware.Token(c), middleware.UserID(c), courseSlug, moduleID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ClassroomHandler) ProgressStamp(c *gin.Context) {
	courseSlug, ok := courseSlugParam(c)
	if !ok {
		return
	}
	stamp, found, err := h.tracker.Stamp(c.Request.Context(), middleware.UserID(c), courseSlug)
	if err != nil {
		h.log.Warn("read progress stamp", "course", courseSlug, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Progresso indisponível"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"courseSlug": courseSlug, "stamp": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseSlug": courseSlug, "stamp": stamp})
}

// ProgressStream pushes the learner's progress events as server-sent events
// until the client disconnects.
func (h *ClassroomHandler) ProgressStream(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := h.tracker.Subscribe(ctx, middleware.UserID(c))
	if err != nil {
		h.log.Warn("subscribe progress", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Progresso indisponível"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("progress", ev)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
