package models

import "time"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Level        string   `json:"level"`
	Tags         []string `json:"tags"`
	InstructorID int      `json:"instructorId"`
	CategoryID   int      `json:"categoryId"`
	IsFree       bool     `json:"isFree"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
}

type CourseRequest struct {
	Title        string   `json:"title" binding:"required"`
	Slug         string   `json:"slug"`
	SlugEdited   bool     `json:"slugEdited"`
	Description  string   `json:"description"`
	Level        string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Tags         []string `json:"tags"`
	InstructorID int      `json:"instructorId"`
	CategoryID   int      `json:"categoryId"`
	IsFree       bool     `json:"isFree"`
	Thumbnail    string   `json:"thumbnail"`
}

// EnrolledCourse is a user's enrolment record for a course.
type EnrolledCourse struct {
	CourseID       int        `json:"courseId"`
	Course         *Course    `json:"course,omitempty"`
	Progress       float64    `json:"progress"`
	Completed      bool       `json:"completed"`
	IsActive       bool       `json:"isActive"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

type SetActiveCourseRequest struct {
	CourseID int `json:"courseId" binding:"required"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug"`
	SlugEdited bool   `json:"slugEdited"`
}

type Instructor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
