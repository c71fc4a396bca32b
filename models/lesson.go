package models

const (
	LessonVideo   = "video"
	LessonArticle = "article"
	LessonQuiz    = "quiz"
	LessonProject = "project"
)

const (
	StatusCompleted = "completed"
	StatusUnlocked  = "unlocked"
	StatusLocked    = "locked"
)

type Lesson struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	IsCurrent bool   `json:"isCurrent"`
}

// Group is a submodule. It belongs to a module and holds lessons in order.
type Group struct {
	ID       int      `json:"id"`
	ModuleID int      `json:"moduleId,omitempty"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Lessons  []Lesson `json:"lessons"`
}

type Module struct {
	ID       int     `json:"id"`
	CourseID int     `json:"courseId,omitempty"`
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Order    int     `json:"order"`
	Progress float64 `json:"progress"`
	Groups   []Group `json:"groups"`
}

// Roadmap is the course tree with the learner's unlock state.
type Roadmap struct {
	Course  Course   `json:"course"`
	Modules []Module `json:"modules"`
}

type ModuleRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	SlugEdited bool   `json:"slugEdited"`
	Order      int    `json:"order"`
}

type GroupRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	SlugEdited bool   `json:"slugEdited"`
}

type LessonRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	SlugEdited bool   `json:"slugEdited"`
	Type       string `json:"type" binding:"required,oneof=video article quiz project"`
	Content    string `json:"content"`
	VideoURL   string `json:"videoUrl,omitempty"`
}

// UnlockResponse is returned by the unlock-next endpoint. Roadmap is set when
// the backend acknowledges the unlock with the updated tree.
type UnlockResponse struct {
	Message string   `json:"message"`
	Roadmap *Roadmap `json:"roadmap,omitempty"`
}
