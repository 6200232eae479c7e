package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/response"
)

type UserHandler struct {
	Svc    UserUseCase
	Play   GameplayUseCase
	Logger logrus.FieldLogger
}

func NewUserHandler(svc UserUseCase, play GameplayUseCase, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Svc: svc, Play: play, Logger: logger}
}

type updateProfileRequest struct {
	Pseudo *string `json:"pseudo" binding:"omitempty,min=1,max=50"`
}

type fcmTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

type changePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type scoreRequest struct {
	Points *int `json:"points" binding:"required"`
}

type answerRequest struct {
	Answer string `json:"answer" binding:"required,answer"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{Pseudo: req.Pseudo})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(u), "profile updated", nil)
}

func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	var req fcmTokenRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.UpdateFCMToken(c.Request.Context(), middleware.UserID(c), req.FCMToken); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "push token saved", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserID(c), req.NewPassword, req.ConfirmPassword); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed, please sign in again", nil)
}

func (h *UserHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "stats", nil)
}

func (h *UserHandler) UseLife(c *gin.Context) {
	res, err := h.Play.UseLife(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "life used", nil)
}

func (h *UserHandler) RefreshLives(c *gin.Context) {
	res, err := h.Play.RefreshLives(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "lives refreshed", nil)
}

func (h *UserHandler) LifeStatus(c *gin.Context) {
	res, err := h.Play.LifeStatus(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "life status", nil)
}

func (h *UserHandler) AwardScore(c *gin.Context) {
	var req scoreRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Play.AwardScore(c.Request.Context(), middleware.UserID(c), *req.Points)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "score updated", nil)
}

func (h *UserHandler) SubmitAnswer(c *gin.Context) {
	qid, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req answerRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.Play.SubmitAnswer(c.Request.Context(), middleware.UserID(c), qid, req.Answer)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "answer recorded", nil)
}

// Admin

func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	page, err := h.Svc.List(c.Request.Context(), repository.UserFilter{Email: c.Query("email"), Limit: limit, Offset: offset})
	if err != nil {
		response.FromError(c, err)
		return
	}
	users := mapSlice(page.Users, toUserDTO)
	response.Success(c, http.StatusOK, users, "users", gin.H{"total": page.Total, "limit": page.Limit, "offset": page.Offset})
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	docs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", nil)
}

func (h *UserHandler) SoftDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromError(c, application.ErrUserNotFound)
		return
	}
	if err := h.Svc.SoftDelete(c.Request.Context(), id.String()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deactivated", nil)
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	st, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "dashboard", nil)
}
