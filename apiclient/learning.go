package apiclient

import (
	"context"
	"net/http"

	"codelegends_gateway/models"
)

// GetRoadmap returns the learner's roadmap for a course, or nil when the
// course does not exist.
func (c *Client) GetRoadmap(ctx context.Context, token, courseSlug string) (*models.Roadmap, error) {
	return lookup[models.Roadmap](ctx, c, pathf("/courses/%s/roadmap", courseSlug), token, "Erro ao carregar trilha")
}

func (c *Client) UnlockNextModule(ctx context.Context, token, courseSlug string, moduleID int) (*models.UnlockResponse, error) {
	return send[models.UnlockResponse](ctx, c, http.MethodPost, pathf("/courses/%s/modules/%d/unlock-next", courseSlug, moduleID), token, struct{}{}, "Erro ao desbloquear o próximo módulo")
}

func (c *Client) ListEnrolledCourses(ctx context.Context, token string, userID int) []models.EnrolledCourse {
	return list[models.EnrolledCourse](ctx, c, pathf("/users/%d/courses", userID), token)
}

// GetActiveCourse returns nil when the user has no active course.
func (c *Client) GetActiveCourse(ctx context.Context, token string, userID int) (*models.EnrolledCourse, error) {
	return lookup[models.EnrolledCourse](ctx, c, pathf("/users/%d/active-course", userID), token, "Erro ao carregar curso ativo")
}

func (c *Client) SetActiveCourse(ctx context.Context, token string, userID, courseID int) (*models.EnrolledCourse, error) {
	return send[models.EnrolledCourse](ctx, c, http.MethodPut, pathf("/users/%d/active-course", userID), token, models.SetActiveCourseRequest{CourseID: courseID}, "Erro ao definir curso ativo")
}

func (c *Client) Enroll(ctx context.Context, token string, courseID int) (*models.EnrolledCourse, error) {
	return send[models.EnrolledCourse](ctx, c, http.MethodPost, pathf("/courses/%d/enroll", courseID), token, struct{}{}, "Erro ao matricular no curso")
}

func (c *Client) GetOverview(ctx context.Context, token string, userID int) (*models.Overview, error) {
	return lookup[models.Overview](ctx, c, pathf("/users/%d/overview", userID), token, "Erro ao carregar visão geral")
}

func (c *Client) UpdateOverview(ctx context.Context, token string, userID int, body map[string]any) (*models.Overview, error) {
	return send[models.Overview](ctx, c, http.MethodPut, pathf("/users/%d/overview", userID), token, body, "Erro ao atualizar visão geral")
}

func (c *Client) CompleteOnboarding(ctx context.Context, token string, userID int, goal, career string) (*models.User, error) {
	body := map[string]any{"goal": goal, "career": career, "onboardingCompleted": true}
	return send[models.User](ctx, c, http.MethodPut, pathf("/users/%d/onboarding", userID), token, body, "Erro ao concluir onboarding")
}

// GetCertificate is public. It returns nil for unknown ids.
func (c *Client) GetCertificate(ctx context.Context, id string) (*models.Certificate, error) {
	return lookup[models.Certificate](ctx, c, pathf("/certificates/%s", id), "", "Erro ao verificar certificado")
}
