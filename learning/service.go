// Package learning implements classroom navigation on top of the roadmap:
// where a learner lands, where a lesson lives, and what happens after a
// module is unlocked.
package learning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codelegends_gateway/cache"
	"codelegends_gateway/logger"
	"codelegends_gateway/models"
	"codelegends_gateway/progress"
	"codelegends_gateway/roadmap"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNoActiveCourse = errors.New("no active course")
)

type API interface {
	GetRoadmap(ctx context.Context, token, courseSlug string) (*models.Roadmap, error)
	UnlockNextModule(ctx context.Context, token, courseSlug string, moduleID int) (*models.UnlockResponse, error)
	GetActiveCourse(ctx context.Context, token string, userID int) (*models.EnrolledCourse, error)
}

// Target is where the client should navigate.
type Target struct {
	URL        string         `json:"url"`
	CourseSlug string         `json:"courseSlug"`
	Found      bool           `json:"found"`
	ModuleID   int            `json:"moduleId,omitempty"`
	GroupID    int            `json:"groupId,omitempty"`
	Lesson     *models.Lesson `json:"lesson,omitempty"`
}

type UnlockResult struct {
	Target
	Message       string         `json:"message,omitempty"`
	Acknowledged  bool           `json:"acknowledged"`
	ProgressStamp time.Time      `json:"progressStamp"`
	Totals        map[string]int `json:"totals"`
}

type Service struct {
	api        API
	cache      cache.Cache
	tracker    progress.Tracker
	log        *logger.Logger
	roadmapTTL time.Duration
}

func NewService(api API, c cache.Cache, tracker progress.Tracker, log *logger.Logger, roadmapTTL time.Duration) *Service {
	return &Service{
		api:        api,
		cache:      c,
		tracker:    tracker,
		log:        log.With("service", "LearningService"),
		roadmapTTL: roadmapTTL,
	}
}

func roadmapKey(userID int, courseSlug string) string {
	return fmt.Sprintf("roadmap:%d:%s", userID, courseSlug)
}

// Roadmap loads the learner's roadmap. fresh skips the cache.
func (s *Service) Roadmap(ctx context.Context, token string, userID int, courseSlug string, fresh bool) (*models.Roadmap, error) {
	key := roadmapKey(userID, courseSlug)
	if !fresh {
		var rm models.Roadmap
		ok, err := s.cache.Get(ctx, key, &rm)
		if err != nil {
			s.log.Warn("roadmap cache read failed", "key", key, "error", err)
		} else if ok {
			return &rm, nil
		}
	}

	rm, err := s.api.GetRoadmap(ctx, token, courseSlug)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, ErrCourseNotFound
	}
	s.remember(ctx, key, rm)
	return rm, nil
}

// Entry picks the lesson a learner lands on when entering a course.
func (s *Service) Entry(ctx context.Context, token string, userID int, courseSlug string) (Target, error) {
	rm, err := s.Roadmap(ctx, token, userID, courseSlug, false)
	if err != nil {
		return Target{}, err
	}
	return entryTarget(courseSlug, rm), nil
}

// Learn resolves the entry target of the user's active course.
func (s *Service) Learn(ctx context.Context, token string, userID int) (Target, error) {
	active, err := s.api.GetActiveCourse(ctx, token, userID)
	if err != nil {
		return Target{}, err
	}
	if active == nil || active.Course == nil || active.Course.Slug == "" {
		return Target{}, ErrNoActiveCourse
	}
	return s.Entry(ctx, token, userID, active.Course.Slug)
}

// LessonTarget resolves the canonical URL of lessonID, falling back to the
// course route when the lesson is not in the roadmap.
func (s *Service) LessonTarget(ctx context.Context, token string, userID int, courseSlug string, lessonID int) (Target, error) {
	rm, err := s.Roadmap(ctx, token, userID, courseSlug, false)
	if err != nil {
		return Target{}, err
	}
	lc, ok := roadmap.ResolveLessonContext(lessonID, rm.Modules)
	if !ok {
		return Target{URL: roadmap.CourseURL(courseSlug), CourseSlug: courseSlug}, nil
	}
	return targetFor(courseSlug, lc), nil
}

// UnlockNextModule asks the backend to unlock the module after moduleID and
// recomputes the landing lesson. The roadmap returned by the unlock call is
// used when present; otherwise the roadmap is refetched past the cache.
func (s *Service) UnlockNextModule(ctx context.Context, token string, userID int, courseSlug string, moduleID int) (UnlockResult, error) {
	resp, err := s.api.UnlockNextModule(ctx, token, courseSlug, moduleID)
	if err != nil {
		return UnlockResult{}, err
	}

	stamp, err := s.tracker.Touch(ctx, progress.Event{UserID: userID, CourseSlug: courseSlug, Kind: progress.KindModuleUnlocked})
	if err != nil {
		s.log.Warn("progress touch failed", "user_id", userID, "course", courseSlug, "error", err)
	}

	key := roadmapKey(userID, courseSlug)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("roadmap cache invalidation failed", "key", key, "error", err)
	}

	res := UnlockResult{Message: resp.Message, ProgressStamp: stamp}
	rm := resp.Roadmap
	if rm != nil {
		res.Acknowledged = true
		s.remember(ctx, key, rm)
	} else {
		rm, err = s.Roadmap(ctx, token, userID, courseSlug, true)
		if err != nil {
			return UnlockResult{}, err
		}
	}
	res.Target = entryTarget(courseSlug, rm)
	res.Totals = roadmap.Totals(rm.Modules)
	return res, nil
}

func (s *Service) remember(ctx context.Context, key string, rm *models.Roadmap) {
	if s.roadmapTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, rm, s.roadmapTTL); err != nil {
		s.log.Warn("roadmap cache write failed", "key", key, "error", err)
	}
}

func entryTarget(courseSlug string, rm *models.Roadmap) Target {
	lc, ok := roadmap.NextUnlockedLesson(rm.Modules)
	if !ok {
		return Target{URL: roadmap.CourseURL(courseSlug), CourseSlug: courseSlug}
	}
	return targetFor(courseSlug, lc)
}

func targetFor(courseSlug string, lc roadmap.LessonContext) Target {
	l := lc.Lesson
	return Target{
		URL:        roadmap.LessonURL(courseSlug, lc),
		CourseSlug: courseSlug,
		Found:      true,
		ModuleID:   lc.Module.ID,
		GroupID:    lc.Group.ID,
		Lesson:     &l,
	}
}
