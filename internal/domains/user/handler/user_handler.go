package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/user/model"
	"pagecraft-backend/internal/domains/user/service"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/logger"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// ========== REGISTER: POST /auth/register ==========
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, profile)
}

// ========== LOGIN: POST /auth/login ==========
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== REFRESH: POST /auth/refresh ==========
func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// ========== PROFILE: GET /users/me ==========
func (h *UserHandler) Profile(c *gin.Context) {
	p, ok := shared.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	status := model.GetHTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("user handler: unexpected error", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.ErrorResponse(c, status, model.ErrorCode(err), err.Error())
}
