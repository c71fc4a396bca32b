package models

import "time"

type User struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	Avatar              string `json:"avatar,omitempty"`
	Goal                string `json:"goal,omitempty"`
	Career              string `json:"career,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	XP                  int    `json:"xp"`
	Level               int    `json:"level"`
}

type UserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role" binding:"omitempty,oneof=STUDENT INSTRUCTOR ADMIN"`
}

type Overview struct {
	UserID          int              `json:"userId"`
	XP              int              `json:"xp"`
	Level           int              `json:"level"`
	Streak          int              `json:"streak"`
	ActiveCourse    *EnrolledCourse  `json:"activeCourse,omitempty"`
	EnrolledCourses []EnrolledCourse `json:"enrolledCourses"`
	Extra           map[string]any   `json:"extra,omitempty"`
}

type OnboardingRequest struct {
	Goal     string `json:"goal" binding:"required"`
	Career   string `json:"career" binding:"required"`
	CourseID int    `json:"courseId" binding:"required"`
}

type Certificate struct {
	ID          string    `json:"id"`
	UserName    string    `json:"userName"`
	CourseTitle string    `json:"courseTitle"`
	CourseSlug  string    `json:"courseSlug,omitempty"`
	IssuedAt    time.Time `json:"issuedAt"`
}
