package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"codelegends_gateway/models"
)

// Categories

func (c *Client) ListCategories(ctx context.Context, token string) []models.Category {
	return list[models.Category](ctx, c, "/categories", token)
}

func (c *Client) GetCategory(ctx context.Context, token string, id int) (*models.Category, error) {
	return lookup[models.Category](ctx, c, pathf("/categories/%d", id), token, "Erro ao carregar categoria")
}

func (c *Client) CreateCategory(ctx context.Context, token string, cat models.Category) (*models.Category, error) {
	return send[models.Category](ctx, c, http.MethodPost, "/categories", token, cat, "Erro ao criar categoria")
}

func (c *Client) UpdateCategory(ctx context.Context, token string, id int, cat models.Category) (*models.Category, error) {
	return send[models.Category](ctx, c, http.MethodPut, pathf("/categories/%d", id), token, cat, "Erro ao atualizar categoria")
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id int) error {
	return c.remove(ctx, pathf("/categories/%d", id), token, "Erro ao excluir categoria")
}

// Users

func (c *Client) ListUsers(ctx context.Context, token string) []models.User {
	return list[models.User](ctx, c, "/users", token)
}

func (c *Client) GetUser(ctx context.Context, token string, id int) (*models.User, error) {
	return lookup[models.User](ctx, c, pathf("/users/%d", id), token, "Erro ao carregar usuário")
}

func (c *Client) CreateUser(ctx context.Context, token string, req models.UserRequest) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, "/users", token, req, "Erro ao criar usuário")
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, req models.UserRequest) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPut, pathf("/users/%d", id), token, req, "Erro ao atualizar usuário")
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.remove(ctx, pathf("/users/%d", id), token, "Erro ao excluir usuário")
}

func (c *Client) ListInstructors(ctx context.Context, token string) []models.Instructor {
	return list[models.Instructor](ctx, c, "/instructors", token)
}

func (c *Client) SearchTags(ctx context.Context, token, query string) ([]models.Tag, error) {
	return fetch[models.Tag](ctx, c, "/tags?search="+url.QueryEscape(query), token)
}

// Courses

func (c *Client) ListCourses(ctx context.Context, token string) []models.Course {
	return list[models.Course](ctx, c, "/courses", token)
}

func (c *Client) GetCourse(ctx context.Context, token string, id int) (*models.Course, error) {
	return lookup[models.Course](ctx, c, pathf("/courses/%d", id), token, "Erro ao carregar curso")
}

func (c *Client) CreateCourse(ctx context.Context, token string, course models.Course) (*models.Course, error) {
	return send[models.Course](ctx, c, http.MethodPost, "/courses", token, course, "Erro ao criar curso")
}

func (c *Client) UpdateCourse(ctx context.Context, token string, id int, course models.Course) (*models.Course, error) {
	return send[models.Course](ctx, c, http.MethodPut, pathf("/courses/%d", id), token, course, "Erro ao atualizar curso")
}

func (c *Client) DeleteCourse(ctx context.Context, token string, id int) error {
	return c.remove(ctx, pathf("/courses/%d", id), token, "Erro ao excluir curso")
}

// Modules

func (c *Client) ListModules(ctx context.Context, token string, courseID int) []models.Module {
	return list[models.Module](ctx, c, pathf("/courses/%d/modules", courseID), token)
}

func (c *Client) CreateModule(ctx context.Context, token string, courseID int, m models.Module) (*models.Module, error) {
	return send[models.Module](ctx, c, http.MethodPost, pathf("/courses/%d/modules", courseID), token, m, "Erro ao criar módulo")
}

func (c *Client) UpdateModule(ctx context.Context, token string, courseID, moduleID int, m models.Module) (*models.Module, error) {
	return send[models.Module](ctx, c, http.MethodPut, pathf("/courses/%d/modules/%d", courseID, moduleID), token, m, "Erro ao atualizar módulo")
}

func (c *Client) DeleteModule(ctx context.Context, token string, courseID, moduleID int) error {
	return c.remove(ctx, pathf("/courses/%d/modules/%d", courseID, moduleID), token, "Erro ao excluir módulo")
}

// Groups

func (c *Client) ListGroups(ctx context.Context, token string, courseID, moduleID int) []models.Group {
	return list[models.Group](ctx, c, pathf("/courses/%d/modules/%d/groups", courseID, moduleID), token)
}

func (c *Client) CreateGroup(ctx context.Context, token string, courseID, moduleID int, g models.Group) (*models.Group, error) {
	return send[models.Group](ctx, c, http.MethodPost, pathf("/courses/%d/modules/%d/groups", courseID, moduleID), token, g, "Erro ao criar grupo")
}

func (c *Client) UpdateGroup(ctx context.Context, token string, courseID, moduleID, groupID int, g models.Group) (*models.Group, error) {
	return send[models.Group](ctx, c, http.MethodPut, pathf("/courses/%d/modules/%d/groups/%d", courseID, moduleID, groupID), token, g, "Erro ao atualizar grupo")
}

func (c *Client) DeleteGroup(ctx context.Context, token string, courseID, moduleID, groupID int) error {
	return c.remove(ctx, pathf("/courses/%d/modules/%d/groups/%d", courseID, moduleID, groupID), token, "Erro ao excluir grupo")
}

// Lessons

type LessonPayload struct {
	models.Lesson
	Content  string `json:"content,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

func lessonsPath(courseID, moduleID, groupID int) string {
	return pathf("/courses/%d/modules/%d/groups/%d/lessons", courseID, moduleID, groupID)
}

func (c *Client) ListLessons(ctx context.Context, token string, courseID, moduleID, groupID int) []models.Lesson {
	return list[models.Lesson](ctx, c, lessonsPath(courseID, moduleID, groupID), token)
}

func (c *Client) CreateLesson(ctx context.Context, token string, courseID, moduleID, groupID int, l LessonPayload) (*models.Lesson, error) {
	return send[models.Lesson](ctx, c, http.MethodPost, lessonsPath(courseID, moduleID, groupID), token, l, "Erro ao criar aula")
}

func (c *Client) UpdateLesson(ctx context.Context, token string, courseID, moduleID, groupID, lessonID int, l LessonPayload) (*models.Lesson, error) {
	return send[models.Lesson](ctx, c, http.MethodPut, pathf("%s/%d", lessonsPath(courseID, moduleID, groupID), lessonID), token, l, "Erro ao atualizar aula")
}

func (c *Client) DeleteLesson(ctx context.Context, token string, courseID, moduleID, groupID, lessonID int) error {
	return c.remove(ctx, pathf("%s/%d", lessonsPath(courseID, moduleID, groupID), lessonID), token, "Erro ao excluir aula")
}
