package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/pkg/response"
)

type ContentHandler struct {
	Svc  ContentUseCase
	Play GameplayUseCase
}

func NewContentHandler(svc ContentUseCase, play GameplayUseCase) *ContentHandler {
	return &ContentHandler{Svc: svc, Play: play}
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func optionalID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return nil, false
	}
	return &id, true
}

// includeInactive lets admins see hidden rows with ?all=true.
func includeInactive(c *gin.Context) bool {
	all, _ := strconv.ParseBool(c.Query("all"))
	return all
}

type themeRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	IsActive    *bool   `json:"is_active"`
	OrderIndex  int     `json:"order_index" binding:"gte=0"`
}

func (r themeRequest) apply(t *entity.Theme) {
	t.Title, t.Description, t.Icon, t.Color, t.OrderIndex = r.Title, r.Description, r.Icon, r.Color, r.OrderIndex
	t.IsActive = r.IsActive == nil || *r.IsActive
}

type levelRequest struct {
	ThemeID          int64   `json:"theme_id" binding:"required,gt=0"`
	Title            string  `json:"title" binding:"required,max=200"`
	Description      *string `json:"description"`
	Difficulty       string  `json:"difficulty" binding:"omitempty,difficulty"`
	OrderIndex       int     `json:"order_index" binding:"gte=0"`
	IsActive         *bool   `json:"is_active"`
	MinScoreToUnlock int     `json:"min_score_to_unlock" binding:"gte=0"`
}

func (r levelRequest) apply(l *entity.Level) {
	l.ThemeID, l.Title, l.Description = r.ThemeID, r.Title, r.Description
	l.Difficulty, l.OrderIndex, l.MinScoreToUnlock = entity.Difficulty(r.Difficulty), r.OrderIndex, r.MinScoreToUnlock
	l.IsActive = r.IsActive == nil || *r.IsActive
}

type questionRequest struct {
	LevelID       int64   `json:"level_id" binding:"required,gt=0"`
	Text          string  `json:"question_text" binding:"required"`
	OptionA       string  `json:"option_a" binding:"required"`
	OptionB       string  `json:"option_b" binding:"required"`
	OptionC       string  `json:"option_c" binding:"required"`
	OptionD       string  `json:"option_d" binding:"required"`
	CorrectAnswer string  `json:"correct_answer" binding:"required,answer"`
	Explanation   *string `json:"explanation"`
	Points        int     `json:"points" binding:"gte=0"`
	OrderIndex    int     `json:"order_index" binding:"gte=0"`
	IsActive      *bool   `json:"is_active"`
}

func (r questionRequest) apply(q *entity.Question) {
	q.LevelID, q.Text = r.LevelID, r.Text
	q.OptionA, q.OptionB, q.OptionC, q.OptionD = r.OptionA, r.OptionB, r.OptionC, r.OptionD
	q.CorrectAnswer, q.Explanation, q.Points, q.OrderIndex = r.CorrectAnswer, r.Explanation, r.Points, r.OrderIndex
	q.IsActive = r.IsActive == nil || *r.IsActive
}

// Themes

func (h *ContentHandler) ListThemes(c *gin.Context) {
	themes, err := h.Svc.ListThemes(c.Request.Context(), !includeInactive(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(themes, toThemeDTO), "themes", nil)
}

func (h *ContentHandler) GetTheme(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.Svc.GetTheme(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toThemeDTO(t), "theme", nil)
}

func (h *ContentHandler) CreateTheme(c *gin.Context) {
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	var t entity.Theme
	req.apply(&t)
	if err := h.Svc.CreateTheme(c.Request.Context(), &t); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toThemeDTO(&t), "theme created", nil)
}

func (h *ContentHandler) UpdateTheme(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	t := entity.Theme{ID: id}
	req.apply(&t)
	if err := h.Svc.UpdateTheme(c.Request.Context(), &t); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toThemeDTO(&t), "theme updated", nil)
}

func (h *ContentHandler) DeleteTheme(c *gin.Context) {
	h.remove(c, h.Svc.DeleteTheme, "theme deleted")
}

func (h *ContentHandler) remove(c *gin.Context, del func(context.Context, int64) error, msg string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true, "id": id}, msg, nil)
}

// Levels

func (h *ContentHandler) ListLevels(c *gin.Context) {
	themeID, ok := optionalID(c, "theme_id")
	if !ok {
		return
	}
	h.levels(c, themeID)
}

// ThemeLevels serves /themes/:id/levels.
func (h *ContentHandler) ThemeLevels(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.Svc.GetTheme(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	h.levels(c, &id)
}

func (h *ContentHandler) levels(c *gin.Context, themeID *int64) {
	levels, err := h.Svc.ListLevels(c.Request.Context(), themeID, !includeInactive(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(levels, toLevelDTO), "levels", nil)
}

func (h *ContentHandler) GetLevel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	l, err := h.Svc.GetLevel(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toLevelDTO(l), "level", nil)
}

func (h *ContentHandler) CreateLevel(c *gin.Context) {
	var req levelRequest
	if !bind(c, &req) {
		return
	}
	var l entity.Level
	req.apply(&l)
	if err := h.Svc.CreateLevel(c.Request.Context(), &l); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toLevelDTO(&l), "level created", nil)
}

func (h *ContentHandler) UpdateLevel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req levelRequest
	if !bind(c, &req) {
		return
	}
	l := entity.Level{ID: id}
	req.apply(&l)
	if err := h.Svc.UpdateLevel(c.Request.Context(), &l); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toLevelDTO(&l), "level updated", nil)
}

func (h *ContentHandler) DeleteLevel(c *gin.Context) {
	h.remove(c, h.Svc.DeleteLevel, "level deleted")
}

// Questions

// LevelQuiz serves the active questions of a level without their answers.
func (h *ContentHandler) LevelQuiz(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	qs, err := h.Svc.QuizForLevel(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(qs, toQuizQuestionDTO), "questions", gin.H{"count": len(qs)})
}

// ListQuestions is the admin view and includes answers.
func (h *ContentHandler) ListQuestions(c *gin.Context) {
	levelID, ok := optionalID(c, "level_id")
	if !ok {
		return
	}
	qs, err := h.Svc.ListQuestions(c.Request.Context(), levelID, !includeInactive(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(qs, toQuestionDTO), "questions", nil)
}

func (h *ContentHandler) GetQuestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	q, err := h.Svc.GetQuestion(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toQuestionDTO(q), "question", nil)
}

func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	var req questionRequest
	if !bind(c, &req) {
		return
	}
	var q entity.Question
	req.apply(&q)
	if err := h.Svc.CreateQuestion(c.Request.Context(), &q); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toQuestionDTO(&q), "question created", nil)
}

func (h *ContentHandler) UpdateQuestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if !bind(c, &req) {
		return
	}
	q := entity.Question{ID: id}
	req.apply(&q)
	if err := h.Svc.UpdateQuestion(c.Request.Context(), &q); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toQuestionDTO(&q), "question updated", nil)
}

func (h *ContentHandler) DeleteQuestion(c *gin.Context) {
	h.remove(c, h.Svc.DeleteQuestion, "question deleted")
}

// CheckAnswer evaluates an answer without touching any score.
func (h *ContentHandler) CheckAnswer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req answerRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Play.CheckAnswer(c.Request.Context(), id, req.Answer)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "answer checked", nil)
}
