package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

func call(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// asUser stands in for the auth middleware.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, id)
		c.Set(middleware.CtxSessionIDKey, "sid-1")
		c.Next()
	}
}

type fakeAuth struct {
	AuthUseCase
	registered application.RegisterInput
	loginErr   error
	confirmErr error
	resetCalls int
	loggedOut  [2]string
}

func (f *fakeAuth) Register(_ context.Context, in application.RegisterInput) (*entity.User, error) {
	f.registered = in
	return &entity.User{ID: "u1", Email: in.Email, Pseudo: in.Pseudo, Password: "hash", Status: entity.StatusInactive, Verified: entity.VerifiedNo, Role: entity.RoleUser, Level: 1, Lives: 3}, nil
}

func (f *fakeAuth) Login(_ context.Context, in application.LoginInput) (*application.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &application.LoginResult{User: &entity.User{ID: "u1", Email: in.Email}, Tokens: application.TokenPair{AccessToken: "at", RefreshToken: "rt"}}, nil
}

func (f *fakeAuth) ConfirmEmail(context.Context, string, string) (*entity.User, error) {
	return nil, f.confirmErr
}

func (f *fakeAuth) RequestPasswordReset(context.Context, string) error {
	f.resetCalls++
	return nil
}

func (f *fakeAuth) Logout(_ context.Context, uid, sid string) error {
	f.loggedOut = [2]string{uid, sid}
	return nil
}

func authRouter(f *fakeAuth) *gin.Engine {
	h := NewAuthHandler(f, nil)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/verify/confirm", h.VerifyConfirm)
	r.POST("/auth/reset/init", h.ResetInit)
	r.POST("/auth/logout", asUser("u1"), h.Logout)
	return r
}

func TestRegisterHidesPasswordHash(t *testing.T) {
	f := &fakeAuth{}
	w, env := call(t, authRouter(f), http.MethodPost, "/auth/register", gin.H{"email": "a@example.com", "password": "Secret1!", "pseudo": "alice"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "alice", f.registered.Pseudo)
	assert.NotContains(t, w.Body.String(), "hash")
	assert.Contains(t, string(env.Data), `"status":"INACTIVE"`)
}

func TestRegisterMissingFields(t *testing.T) {
	w, env := call(t, authRouter(&fakeAuth{}), http.MethodPost, "/auth/register", gin.H{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), `"password":"is required"`)
}

func TestLoginMapsTypedErrors(t *testing.T) {
	cases := map[error]int{
		application.ErrInvalidCredentials: http.StatusUnauthorized,
		application.ErrAccountInactive:    http.StatusForbidden,
		application.ErrAccountDeleted:     http.StatusForbidden,
		errors.New("db down"):             http.StatusInternalServerError,
	}
	for err, status := range cases {
		w, env := call(t, authRouter(&fakeAuth{loginErr: err}), http.MethodPost, "/auth/login", gin.H{"email": "a@example.com", "password": "x"})
		assert.Equal(t, status, w.Code, err.Error())
		assert.False(t, env.Success)
		assert.NotContains(t, w.Body.String(), "db down")
	}

	w, env := call(t, authRouter(&fakeAuth{}), http.MethodPost, "/auth/login", gin.H{"email": "a@example.com", "password": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"access_token":"at"`)
}

func TestVerifyConfirmExpired(t *testing.T) {
	w, env := call(t, authRouter(&fakeAuth{confirmErr: application.ErrCodeExpired}), http.MethodPost, "/auth/verify/confirm", gin.H{"email": "a@example.com", "code": "123456"})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "verification code expired", env.Message)
}

func TestResetInitAlwaysAccepted(t *testing.T) {
	f := &fakeAuth{}
	w, _ := call(t, authRouter(f), http.MethodPost, "/auth/reset/init", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, f.resetCalls)
}

func TestLogoutUsesContextSession(t *testing.T) {
	f := &fakeAuth{}
	w, _ := call(t, authRouter(f), http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"u1", "sid-1"}, f.loggedOut)
}

type fakeUsers struct {
	UserUseCase
	filter  repository.UserFilter
	deleted []string
}

func (f *fakeUsers) List(_ context.Context, flt repository.UserFilter) (*application.UserPage, error) {
	f.filter = flt
	return &application.UserPage{Users: []entity.User{{ID: "u1"}}, Total: 1, Limit: 20, Offset: 0}, nil
}

func (f *fakeUsers) SoftDelete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func adminRouter(f *fakeUsers) *gin.Engine {
	h := NewUserHandler(f, nil, nil)
	r := gin.New()
	r.GET("/admin/users", h.List)
	r.DELETE("/admin/users/:id", h.SoftDelete)
	return r
}

func TestAdminListReportsAppliedPaging(t *testing.T) {
	f := &fakeUsers{}
	w, env := call(t, adminRouter(f), http.MethodGet, "/admin/users?limit=1000&offset=-5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000, f.filter.Limit)
	assert.JSONEq(t, `{"total":1,"limit":20,"offset":0}`, string(env.Meta))
}

func TestAdminSoftDeleteRejectsMalformedID(t *testing.T) {
	f := &fakeUsers{}
	w, env := call(t, adminRouter(f), http.MethodDelete, "/admin/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Empty(t, f.deleted)

	id := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	w, _ = call(t, adminRouter(f), http.MethodDelete, "/admin/users/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{id}, f.deleted)
}

type fakePlay struct {
	GameplayUseCase
	useErr    error
	submitted string
}

func (f *fakePlay) UseLife(context.Context, string) (*application.LifeUse, error) {
	if f.useErr != nil {
		return nil, f.useErr
	}
	return &application.LifeUse{RemainingLives: 2}, nil
}

func (f *fakePlay) AwardScore(_ context.Context, _ string, earned int) (*rules.Progress, error) {
	if earned < 0 {
		return nil, rules.ErrNegativeScore
	}
	return &rules.Progress{Score: earned, Level: rules.LevelFor(earned)}, nil
}

func (f *fakePlay) SubmitAnswer(_ context.Context, _ string, _ int64, answer string) (*application.AnswerOutcome, error) {
	f.submitted = answer
	return &application.AnswerOutcome{AnswerResult: rules.AnswerResult{IsCorrect: true, CorrectAnswer: "B", PointsEarned: 10}, Score: 10, Level: 1}, nil
}

func playRouter(p *fakePlay) *gin.Engine {
	h := NewUserHandler(nil, p, nil)
	r := gin.New()
	g := r.Group("/me", asUser("u1"))
	g.POST("/lives/use", h.UseLife)
	g.POST("/score", h.AwardScore)
	g.POST("/answers/:id", h.SubmitAnswer)
	return r
}

func TestUseLifeNoLivesIsConflict(t *testing.T) {
	w, env := call(t, playRouter(&fakePlay{useErr: application.ErrNoLivesAvailable}), http.MethodPost, "/me/lives/use", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no lives available", env.Message)

	w, env = call(t, playRouter(&fakePlay{}), http.MethodPost, "/me/lives/use", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"remaining_lives":2`)
}

func TestAwardScore(t *testing.T) {
	r := playRouter(&fakePlay{})
	w, env := call(t, r, http.MethodPost, "/me/score", gin.H{"points": 120})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"new_score":120,"new_level":2}`, string(env.Data))

	w, _ = call(t, r, http.MethodPost, "/me/score", gin.H{"points": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPost, "/me/score", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitAnswerValidatesLetterAndID(t *testing.T) {
	p := &fakePlay{}
	r := playRouter(p)

	w, _ := call(t, r, http.MethodPost, "/me/answers/7", gin.H{"answer": "E"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPost, "/me/answers/abc", gin.H{"answer": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := call(t, r, http.MethodPost, "/me/answers/7", gin.H{"answer": "b"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b", p.submitted)
	assert.Contains(t, string(env.Data), `"is_correct":true`)
	assert.Contains(t, string(env.Data), `"new_score":10`)
}

type fakeContent struct {
	ContentUseCase
	created *entity.Question
}

func (f *fakeContent) QuizForLevel(_ context.Context, levelID int64) ([]entity.Question, error) {
	if levelID != 1 {
		return nil, application.ErrLevelNotFound
	}
	return []entity.Question{{ID: 1, LevelID: 1, Text: "q?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "B", Points: 10}}, nil
}

func (f *fakeContent) CreateQuestion(_ context.Context, q *entity.Question) error {
	q.ID = 42
	f.created = q
	return nil
}

func TestLevelQuizOmitsAnswers(t *testing.T) {
	h := NewContentHandler(&fakeContent{}, nil)
	r := gin.New()
	r.GET("/levels/:id/questions", h.LevelQuiz)

	w, env := call(t, r, http.MethodGet, "/levels/1/questions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"option_b":"b"`)
	assert.NotContains(t, w.Body.String(), "correct_answer")

	w, _ = call(t, r, http.MethodGet, "/levels/2/questions", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateQuestion(t *testing.T) {
	f := &fakeContent{}
	h := NewContentHandler(f, nil)
	r := gin.New()
	r.POST("/questions", h.CreateQuestion)

	body := gin.H{"level_id": 1, "question_text": "q?", "option_a": "a", "option_b": "b", "option_c": "c", "option_d": "d", "correct_answer": "c"}
	w, env := call(t, r, http.MethodPost, "/questions", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.created)
	assert.True(t, f.created.IsActive)
	assert.Contains(t, string(env.Data), `"id":42`)

	body["correct_answer"] = "Z"
	w, _ = call(t, r, http.MethodPost, "/questions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeKYC struct {
	submitted application.KYCSubmission
	verified  *application.KYCSubmission
	selfie    *entity.DocumentImage
}

func (f *fakeKYC) Submit(_ context.Context, _ string, in application.KYCSubmission) (*application.KYCReport, error) {
	f.submitted = in
	if in.DocumentType == "cni" && in.Back == nil {
		return nil, application.ErrBackImageRequired
	}
	return &application.KYCReport{DocumentType: "Passport", OverallStatus: entity.KYCStatusValid}, nil
}

func (f *fakeKYC) Verify(_ context.Context, in application.KYCSubmission) (*application.KYCReport, error) {
	f.verified = &in
	return &application.KYCReport{DocumentType: "Identity Card", OverallStatus: entity.KYCStatusNotValid}, nil
}

func (f *fakeKYC) SubmitSelfie(_ context.Context, uid string, selfie *entity.DocumentImage) (*application.SelfieReport, error) {
	f.selfie = selfie
	return &application.SelfieReport{UserID: uid, SelfieURL: "https://storage.test/selfie"}, nil
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\xff\xd8\xff\xe0 fake jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func kycSender(t *testing.T, f *fakeKYC) func(path string, fields, files map[string]string) *httptest.ResponseRecorder {
	r := gin.New()
	h := NewKYCHandler(f)
	r.POST("/kyc/submit", asUser("u1"), h.Submit)
	r.POST("/kyc/verify", asUser("u1"), h.Verify)
	r.POST("/kyc/selfie", asUser("u1"), h.Selfie)

	return func(path string, fields, files map[string]string) *httptest.ResponseRecorder {
		body, ct := multipartBody(t, fields, files)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
}

func TestKYCSubmit(t *testing.T) {
	f := &fakeKYC{}
	send := kycSender(t, f)

	w := send("/kyc/submit", map[string]string{"document_type": "passport"}, map[string]string{"front_image": "p.jpg"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.submitted.Front)
	assert.Nil(t, f.submitted.Back)
	assert.Nil(t, f.submitted.Selfie)
	assert.Equal(t, "image/jpeg", f.submitted.Front.ContentType)
	assert.True(t, strings.Contains(w.Body.String(), `"overallStatus":"valid"`))

	w = send("/kyc/submit", map[string]string{"document_type": "cni"}, map[string]string{"front_image": "f.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send("/kyc/submit", map[string]string{"document_type": "visa"}, map[string]string{"front_image": "f.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKYCSubmitSelfieAndDocumentData(t *testing.T) {
	f := &fakeKYC{}
	send := kycSender(t, f)

	w := send("/kyc/submit",
		map[string]string{"document_type": "passport", "document_data": `{"fullName":"Jane Doe","nationality":"CMR"}`},
		map[string]string{"front_image": "p.jpg", "selfie_image": "me.jpg"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.submitted.Selfie)
	assert.Equal(t, "me.jpg", f.submitted.Selfie.Filename)
	assert.Equal(t, map[string]string{"fullName": "Jane Doe", "nationality": "CMR"}, f.submitted.DocumentData)

	w = send("/kyc/submit",
		map[string]string{"document_type": "passport", "document_data": `["not","an","object"]`},
		map[string]string{"front_image": "p.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "document_data")
}

func TestKYCVerifyAndSelfie(t *testing.T) {
	f := &fakeKYC{}
	send := kycSender(t, f)

	w := send("/kyc/verify", map[string]string{"document_type": "cni"}, map[string]string{"front_image": "f.jpg", "back_image": "b.jpg"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.verified)
	require.NotNil(t, f.verified.Back)
	assert.Equal(t, 1, f.verified.Back.Page)
	assert.Contains(t, w.Body.String(), `"overallStatus":"not valid"`)

	w = send("/kyc/selfie", nil, map[string]string{"selfie_image": "me.jpg"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.selfie)
	assert.Contains(t, w.Body.String(), "https://storage.test/selfie")
}

type fakeBroadcaster struct{ to []string }

func (f *fakeBroadcaster) Broadcast(_ context.Context, to []string, _, _, _ string) (int, error) {
	f.to = to
	return len(to), nil
}

func TestEmailSend(t *testing.T) {
	f := &fakeBroadcaster{}
	r := gin.New()
	r.POST("/email/send", NewEmailHandler(f).Send)

	w, env := call(t, r, http.MethodPost, "/email/send", gin.H{"to": []string{"a@example.com", "b@example.com"}, "subject": "hi", "text": "hello"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"enqueued":2}`, string(env.Data))

	w, _ = call(t, r, http.MethodPost, "/email/send", gin.H{"to": []string{"nope"}, "subject": "hi", "text": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPost, "/email/send", gin.H{"to": []string{"a@example.com"}, "subject": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	r := gin.New()
	r.GET("/up", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": ok}).Health)
	r.GET("/down", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Health)

	w, _ := call(t, r, http.MethodGet, "/up", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := call(t, r, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"postgres":"up","redis":"down"}`, string(env.Error))
}
