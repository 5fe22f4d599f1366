package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/domains/work/service"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/logger"
)

type WorkHandler struct {
	service service.WorkService
}

func NewWorkHandler(svc service.WorkService) *WorkHandler {
	return &WorkHandler{service: svc}
}

// ========== CREATE: POST /works ==========
func (h *WorkHandler) Create(c *gin.Context) {
	p, ok := shared.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateWorkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	w, err := h.service.Create(c.Request.Context(), p, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, w)
}

// ========== READ: GET /works/:id ==========
// Reachability and the not-public denial are enforced by the policy guard
// before this runs.
func (h *WorkHandler) Detail(c *gin.Context) {
	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	w, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, w)
}

// ========== UPDATE: PATCH /works/:id ==========
func (h *WorkHandler) Update(c *gin.Context) {
	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	var req model.UpdateWorkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	w, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, w)
}

// ========== PUBLISH: POST /works/:id/publish ==========
func (h *WorkHandler) Publish(c *gin.Context) {
	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	w, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, w)
}

// ========== PUBLISH TEMPLATE: POST /works/:id/publish-template ==========
func (h *WorkHandler) PublishTemplate(c *gin.Context) {
	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	w, err := h.service.PublishTemplate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, w)
}

// ========== DELETE: DELETE /works/:id ==========
func (h *WorkHandler) Delete(c *gin.Context) {
	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// ========== COPY: POST /works/:id/copy ==========
func (h *WorkHandler) Copy(c *gin.Context) {
	p, ok := shared.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseWorkID(c)
	if !ok {
		return
	}

	w, err := h.service.Copy(c.Request.Context(), p, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, w)
}

// ========== LIST: GET /works/mine ==========
func (h *WorkHandler) MyList(c *gin.Context) {
	p, ok := shared.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	items, total, err := h.service.MyList(c.Request.Context(), p.ID, q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	})
}

// ========== LIST: GET /works/templates ==========
func (h *WorkHandler) Templates(c *gin.Context) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	items, total, err := h.service.Templates(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	})
}

func (h *WorkHandler) respondError(c *gin.Context, err error) {
	status := model.GetHTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("work handler: unexpected error", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.ErrorResponse(c, status, model.ErrorCode(err), err.Error())
}

func parseWorkID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid work id")
		return 0, false
	}
	return id, true
}
