package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/middleware"
	"codelegends_gateway/tags"
)

type TagHandler struct {
	searcher *tags.Searcher
}

func NewTagHandler(searcher *tags.Searcher) *TagHandler {
	return &TagHandler{searcher: searcher}
}

func (h *TagHandler) SearchTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.searcher.Search(c.Request.Context(), middleware.Token(c), c.Query("search")))
}
