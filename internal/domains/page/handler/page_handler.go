package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/page/service"
	workmodel "pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/logger"
)

type PageHandler struct {
	service service.RenderService
}

func NewPageHandler(svc service.RenderService) *PageHandler {
	return &PageHandler{service: svc}
}

// ========== RENDER: GET /pages/:idAndUuid ==========
// The path segment is "<id>-<uuid>". The uuid alphabet includes "-",
// so only the first hyphen separates the two parts.
func (h *PageHandler) Render(c *gin.Context) {
	idPart, uuidPart, found := strings.Cut(c.Param("idAndUuid"), "-")
	if !found || uuidPart == "" {
		response.NotFound(c, "page not found")
		return
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, "page not found")
		return
	}

	html, err := h.service.Render(c.Request.Context(), id, uuidPart)
	if err != nil {
		status := workmodel.GetHTTPStatusCode(err)
		if status == http.StatusInternalServerError {
			logger.Error("page handler: render failed", err)
			response.InternalServerError(c, "internal server error")
			return
		}
		// Both absent and unpublished works land here as not found.
		response.NotFound(c, "page not found")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}
