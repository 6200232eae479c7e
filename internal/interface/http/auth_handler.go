package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/response"
	"github.com/civica-app/civica-backend/pkg/validation"
)

type AuthHandler struct {
	Svc    AuthUseCase
	Logger logrus.FieldLogger
}

func NewAuthHandler(svc AuthUseCase, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Fields are plain strings so sealed values ("enc:...") reach the service intact.
type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Pseudo   string `json:"pseudo" binding:"required,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type codeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type resetConfirmRequest struct {
	Email           string `json:"email" binding:"required"`
	Code            string `json:"code" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{Email: req.Email, Password: req.Password, Pseudo: req.Pseudo})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toUserDTO(u)}, "account created, check your email for the verification code", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Email: req.Email, Password: req.Password, UserAgent: c.Request.UserAgent(), IP: clientIP(c),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":  toUserDTO(res.User),
		"token": res.Tokens,
	}, "login successful", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bind(c, &req) {
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pair, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.UserID(c), middleware.SessionID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req codeRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.ConfirmEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(u)}, "email verified", nil)
}

// accepted answers identically whether or not the email exists.
func (h *AuthHandler) accepted(c *gin.Context, err error, msg string) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"sent": true}, msg, nil)
}

func (h *AuthHandler) VerifyResend(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	h.accepted(c, h.Svc.ResendVerification(c.Request.Context(), req.Email), "if the account exists a new code was sent")
}

func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	h.accepted(c, h.Svc.RequestPasswordReset(c.Request.Context(), req.Email), "if the account exists a reset code was sent")
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Code, req.NewPassword, req.ConfirmPassword); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

func (h *AuthHandler) DeleteRequest(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	h.accepted(c, h.Svc.RequestAccountDeletion(c.Request.Context(), req.Email), "if the account exists a deletion code was sent")
}

func (h *AuthHandler) DeleteConfirm(c *gin.Context) {
	var req codeRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ConfirmAccountDeletion(c.Request.Context(), req.Email, req.Code); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}
