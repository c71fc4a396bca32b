// Package roadmap walks the course -> module -> group -> lesson tree returned
// by the backend.
package roadmap

import (
	"strings"

	"codelegends_gateway/models"
)

// LessonContext locates a lesson inside a roadmap.
type LessonContext struct {
	Module models.Module
	Group  models.Group
	Lesson models.Lesson
}

// ResolveLessonContext scans modules, groups and lessons in order and returns
// the first match for lessonID.
func ResolveLessonContext(lessonID int, modules []models.Module) (LessonContext, bool) {
	for _, m := range modules {
		for _, g := range m.Groups {
			for _, l := range g.Lessons {
				if l.ID == lessonID {
					return LessonContext{Module: m, Group: g, Lesson: l}, true
				}
			}
		}
	}
	return LessonContext{}, false
}

// NextUnlockedLesson picks where a learner lands when entering a course: the
// lesson flagged current unless it is locked, else the first lesson that is
// not locked.
func NextUnlockedLesson(modules []models.Module) (LessonContext, bool) {
	var first *LessonContext
	for _, m := range modules {
		for _, g := range m.Groups {
			for _, l := range g.Lessons {
				if l.Status == models.StatusLocked {
					continue
				}
				if l.IsCurrent {
					return LessonContext{Module: m, Group: g, Lesson: l}, true
				}
				if first == nil {
					first = &LessonContext{Module: m, Group: g, Lesson: l}
				}
			}
		}
	}
	if first == nil {
		return LessonContext{}, false
	}
	return *first, true
}

// CourseURL is the generic classroom route used when no lesson can be resolved.
func CourseURL(courseSlug string) string {
	return "/classroom/" + strings.Trim(courseSlug, "/")
}

func LessonURL(courseSlug string, lc LessonContext) string {
	return strings.Join([]string{CourseURL(courseSlug), lc.Module.Slug, lc.Group.Slug, lc.Lesson.Slug}, "/")
}

// LessonURLOrFallback resolves lessonID and falls back to CourseURL.
func LessonURLOrFallback(courseSlug string, lessonID int, modules []models.Module) (string, bool) {
	lc, ok := ResolveLessonContext(lessonID, modules)
	if !ok {
		return CourseURL(courseSlug), false
	}
	return LessonURL(courseSlug, lc), true
}

// Totals counts lessons per status across the whole tree.
func Totals(modules []models.Module) map[string]int {
	out := map[string]int{}
	for _, m := range modules {
		for _, g := range m.Groups {
			for _, l := range g.Lessons {
				out[l.Status]++
			}
		}
	}
	return out
}
