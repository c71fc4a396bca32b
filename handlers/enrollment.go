package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/models"
	"codelegends_gateway/progress"
	"codelegends_gateway/session"
)

// EnrollmentHandler serves the learner's courses, overview and onboarding.
type EnrollmentHandler struct {
	api      *apiclient.Client
	sessions *session.Manager
	tracker  progress.Tracker
	log      *logger.Logger
}

func NewEnrollmentHandler(api *apiclient.Client, sessions *session.Manager, tracker progress.Tracker, log *logger.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{api: api, sessions: sessions, tracker: tracker, log: log.With("handler", "EnrollmentHandler")}
}

func (h *EnrollmentHandler) GetEnrolledCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.api.ListEnrolledCourses(c.Request.Context(), middleware.Token(c), middleware.UserID(c)))
}

func (h *EnrollmentHandler) GetActiveCourse(c *gin.Context) {
	active, err := h.api.GetActiveCourse(c.Request.Context(), middleware.Token(c), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if active == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum curso ativo"})
		return
	}
	c.JSON(http.StatusOK, active)
}

func (h *EnrollmentHandler) SetActiveCourse(c *gin.Context) {
	var req models.SetActiveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active, err := h.api.SetActiveCourse(c.Request.Context(), middleware.Token(c), middleware.UserID(c), req.CourseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, active)
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "course ID")
	if !ok {
		return
	}
	enrolled, err := h.api.Enroll(c.Request.Context(), middleware.Token(c), courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.touch(c, enrolled, progress.KindEnrolled)
	c.JSON(http.StatusCreated, enrolled)
}

func (h *EnrollmentHandler) GetOverview(c *gin.Context) {
	overview, err := h.api.GetOverview(c.Request.Context(), middleware.Token(c), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if overview == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visão geral não encontrada"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *EnrollmentHandler) UpdateOverview(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	overview, err := h.api.UpdateOverview(c.Request.Context(), middleware.Token(c), middleware.UserID(c), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// CompleteOnboarding stores the learner's goal and career, enrolls them in the
// chosen course and makes it active.
func (h *EnrollmentHandler) CompleteOnboarding(c *gin.Context) {
	var req models.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	token, userID := middleware.Token(c), middleware.UserID(c)

	user, err := h.api.CompleteOnboarding(ctx, token, userID, req.Goal, req.Career)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	enrolled, err := h.api.Enroll(ctx, token, req.CourseID)
	if err != nil && apiclient.StatusOf(err) != http.StatusConflict {
		respondError(c, h.log, err)
		return
	}
	active, err := h.api.SetActiveCourse(ctx, token, userID, req.CourseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if s := middleware.CurrentSession(c); s != nil {
		if err := h.sessions.MarkOnboarded(ctx, s); err != nil {
			h.log.Error("mark session onboarded", "session_id", s.ID, "error", err)
		}
	}
	if enrolled == nil {
		enrolled = active
	}
	h.touch(c, enrolled, progress.KindOnboarded)

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"activeCourse": active,
		"redirect":     "/learn",
	})
}

func (h *EnrollmentHandler) touch(c *gin.Context, ec *models.EnrolledCourse, kind string) {
	ev := progress.Event{UserID: middleware.UserID(c), Kind: kind}
	if ec != nil && ec.Course != nil {
		ev.CourseSlug = ec.Course.Slug
	}
	if _, err := h.tracker.Touch(c.Request.Context(), ev); err != nil {
		h.log.Warn("progress touch failed", "kind", kind, "error", err)
	}
}
