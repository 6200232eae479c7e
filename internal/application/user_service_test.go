package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

func newUsers(t *testing.T) (*UserService, *memDB, *memSessions, *fakeIndexer) {
	t.Helper()
	db, sessions, index := newMemDB(), newMemSessions(), newFakeIndexer()
	clk := &clock{t: epoch}
	return &UserService{UoW: db, Sessions: sessions, Index: index, Logger: quietLogger(), Now: clk.Now}, db, sessions, index
}

func TestUpdateProfilePseudo(t *testing.T) {
	ctx := context.Background()
	svc, db, _, index := newUsers(t)
	a := db.put(entity.User{Email: "a@example.com", Pseudo: "alpha"})
	db.put(entity.User{Email: "b@example.com", Pseudo: "beta"})

	taken := "BETA"
	_, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Pseudo: &taken})
	require.ErrorIs(t, err, ErrPseudoTaken)

	same := "Alpha"
	u, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Pseudo: &same})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", u.Pseudo)
	assert.Equal(t, "Alpha", index.indexed[a.ID].Pseudo)

	blank := " "
	_, err = svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Pseudo: &blank})
	require.Error(t, err)
	assert.Equal(t, "Alpha", db.user(a.ID).Pseudo)
}

func TestUpdateFCMToken(t *testing.T) {
	ctx := context.Background()
	svc, db, _, _ := newUsers(t)
	a := db.put(entity.User{Email: "a@example.com", Pseudo: "alpha"})

	require.NoError(t, svc.UpdateFCMToken(ctx, a.ID, " tok "))
	require.NotNil(t, db.user(a.ID).FCMToken)
	assert.Equal(t, "tok", *db.user(a.ID).FCMToken)

	require.NoError(t, svc.UpdateFCMToken(ctx, a.ID, ""))
	assert.Nil(t, db.user(a.ID).FCMToken)

	require.ErrorIs(t, svc.UpdateFCMToken(ctx, "missing", "tok"), ErrUserNotFound)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, db, sessions, _ := newUsers(t)
	a := db.put(entity.User{Email: "a@example.com", Pseudo: "alpha", Password: "old"})
	require.NoError(t, sessions.Save(ctx, "s1", helpers.Session{UserID: a.ID}, time.Hour))

	require.ErrorIs(t, svc.ChangePassword(ctx, a.ID, "NewPass1!", "NewPass1?"), rules.ErrPasswordMismatch)
	require.ErrorIs(t, svc.ChangePassword(ctx, a.ID, "nopolicy", "nopolicy"), rules.ErrPasswordPolicy)
	assert.Equal(t, "old", db.user(a.ID).Password)

	require.NoError(t, svc.ChangePassword(ctx, a.ID, "NewPass1!", "NewPass1!"))
	assert.True(t, helpers.CompareHashAndPassword(db.user(a.ID).Password, "NewPass1!"))
	assert.Empty(t, sessions.items)
}

func TestStats(t *testing.T) {
	svc, db, _, _ := newUsers(t)
	last := epoch.Add(-5 * time.Minute)
	a := db.put(entity.User{Email: "a@example.com", Pseudo: "alpha", Points: 130, Level: 2, Lives: 2, LastLifeRefresh: &last})

	st, err := svc.Stats(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 130, st.Score)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 70, st.PointsToNextLevel)
	assert.Equal(t, 2, st.Lives)
	assert.Equal(t, 1500, st.NextLifeInSeconds)
}

func TestAdminListAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, db, sessions, index := newUsers(t)
	a := db.put(entity.User{Email: "a@example.com", Pseudo: "alpha", Status: entity.StatusActive})
	db.put(entity.User{Email: "b@other.org", Pseudo: "beta", Status: entity.StatusActive})
	require.NoError(t, sessions.Save(ctx, "s1", helpers.Session{UserID: a.ID}, time.Hour))

	page, err := svc.List(ctx, repository.UserFilter{Email: "example", Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)

	require.NoError(t, svc.SoftDelete(ctx, a.ID))
	assert.True(t, db.user(a.ID).IsDeleted)
	assert.Equal(t, entity.StatusActive, db.user(a.ID).Status)
	assert.Empty(t, sessions.items)
	assert.True(t, index.indexed[a.ID].IsDeleted)
	require.ErrorIs(t, svc.SoftDelete(ctx, a.ID), ErrUserNotFound)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.ActiveUsers)
}

func TestSearchWithoutIndex(t *testing.T) {
	svc, _, _, _ := newUsers(t)
	svc.Index = nil
	docs, err := svc.Search(context.Background(), "a", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
