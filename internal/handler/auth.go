package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/productdb/backend/internal/model"
	"github.com/productdb/backend/internal/service"
)

type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login godoc
// @Summary Login
// @Description Exchanges the configured username and password for a bearer token valid for one hour.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	token, expiresIn, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.WarnContext(c.Request.Context(), "login rejected",
				slog.String("request_id", GetRequestID(c)),
				slog.String("username", req.Username),
			)
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "failed to issue token",
			slog.String("request_id", GetRequestID(c)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}
