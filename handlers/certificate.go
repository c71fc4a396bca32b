package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/logger"
)

type CertificateHandler struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewCertificateHandler(api *apiclient.Client, log *logger.Logger) *CertificateHandler {
	return &CertificateHandler{api: api, log: log.With("handler", "CertificateHandler")}
}

// GetCertificate is public so certificates can be verified from a shared link.
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}
	cert, err := h.api.GetCertificate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if cert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificado não encontrado"})
		return
	}
	c.JSON(http.StatusOK, cert)
}
