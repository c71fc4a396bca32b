package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/learning"
	"codelegends_gateway/logger"
	"codelegends_gateway/session"
)

// respondError writes err as {"error": message}. Backend 4xx statuses pass
// through; 5xx and transport failures become 502.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := http.StatusBadGateway
	msg := apiclient.MessageOf(err)

	switch {
	case errors.Is(err, learning.ErrCourseNotFound):
		status, msg = http.StatusNotFound, "Curso não encontrado"
	case errors.Is(err, learning.ErrNoActiveCourse):
		status, msg = http.StatusNotFound, "Nenhum curso ativo"
	case errors.Is(err, session.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, session.ErrMalformedToken):
		msg = "Token inválido recebido do servidor"
	default:
		if s := apiclient.StatusOf(err); s >= 400 && s < 500 {
			status = s
		}
	}

	if status >= 500 {
		log.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// intParam reads a numeric path parameter, answering 400 when it is not one.
func intParam(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
		return 0, false
	}
	return id, true
}
