package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/learning"
	"codelegends_gateway/logger"
	"codelegends_gateway/models"
	"codelegends_gateway/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"backend 4xx passes through", &apiclient.Error{Status: http.StatusConflict, Message: "Slug já existe"}, http.StatusConflict, `{"error":"Slug já existe"}`},
		{"backend 5xx is bad gateway", &apiclient.Error{Status: http.StatusInternalServerError, Message: "Erro ao criar curso"}, http.StatusBadGateway, `{"error":"Erro ao criar curso"}`},
		{"transport failure", &apiclient.Error{Message: "Erro ao excluir aula", Err: errors.New("dial tcp")}, http.StatusBadGateway, `{"error":"Erro ao excluir aula"}`},
		{"wrapped api error", fmt.Errorf("load: %w", &apiclient.Error{Status: http.StatusForbidden, Message: "Sem permissão"}), http.StatusForbidden, `{"error":"Sem permissão"}`},
		{"unknown course", learning.ErrCourseNotFound, http.StatusNotFound, `{"error":"Curso não encontrado"}`},
		{"no active course", learning.ErrNoActiveCourse, http.StatusNotFound, `{"error":"Nenhum curso ativo"}`},
		{"unauthenticated", session.ErrUnauthenticated, http.StatusUnauthorized, `{"error":"Authentication required"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger.Nop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestIntParam(t *testing.T) {
	r := gin.New()
	r.GET("/courses/:courseId", func(c *gin.Context) {
		id, ok := intParam(c, "courseId", "course ID")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, want := range map[string]int{"/courses/12": http.StatusOK, "/courses/abc": http.StatusBadRequest, "/courses/0": http.StatusBadRequest} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/abc", nil))
	assert.JSONEq(t, `{"error":"Invalid course ID"}`, rec.Body.String())
}

func TestCourseFromDefaults(t *testing.T) {
	course := courseFrom(models.CourseRequest{Title: "Introdução ao Go"})
	assert.Equal(t, "introducao-ao-go", course.Slug)
	assert.Equal(t, "beginner", course.Level)
	assert.NotNil(t, course.Tags)
}
