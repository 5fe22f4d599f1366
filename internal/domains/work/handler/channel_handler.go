package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/domains/work/service"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/logger"
)

// Channel routes carry the target work id in the request body, not the
// path. The policy guard reads the same field before these run.
type ChannelHandler struct {
	service service.ChannelService
}

func NewChannelHandler(svc service.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: svc}
}

// ========== CREATE: POST /channels ==========
func (h *ChannelHandler) Create(c *gin.Context) {
	var req model.CreateChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ch, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ch)
}

// ========== RENAME: PATCH /channels ==========
func (h *ChannelHandler) Rename(c *gin.Context) {
	var req model.UpdateChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Rename(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// ========== DELETE: DELETE /channels ==========
func (h *ChannelHandler) Delete(c *gin.Context) {
	var req model.DeleteChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Delete(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}

func (h *ChannelHandler) respondError(c *gin.Context, err error) {
	status := model.GetHTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("channel handler: unexpected error", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.ErrorResponse(c, status, model.ErrorCode(err), err.Error())
}
