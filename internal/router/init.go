package router

import (
	"context"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/container"
	"github.com/civica-app/civica-backend/internal/infrastructure/postgres"
	"github.com/civica-app/civica-backend/internal/infrastructure/search"
	"github.com/civica-app/civica-backend/internal/infrastructure/storage"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/router/modules"
)

type appHandlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Content *handlers.ContentHandler
	KYC     *handlers.KYCHandler
	Email   *handlers.EmailHandler
	Health  *handlers.HealthHandler
}

// optional collaborators stay untyped nil when not configured so the
// services' nil checks see them as absent.
func userIndex() application.UserIndexer {
	if es := container.GetES(); es != nil {
		return search.NewUserIndex(es, container.GetConfig().ESUsersIndex)
	}
	return nil
}

func publisher() application.JSONPublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

func documentStore() application.DocumentStore {
	cfg := container.GetConfig()
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		return storage.NewDocumentStore(gcs, cfg.GCSBucket, cfg.KYCObjectPrefix)
	}
	return nil
}

func buildHandlers() appHandlers {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	uow := postgres.NewUnitOfWork(container.GetPGPool())
	index := userIndex()
	mail := application.NewEmailDispatcher(publisher(), cfg, logger)

	auth := &application.AuthService{
		UoW:      uow,
		Codes:    application.NewVerificationService(uow, cfg.VerificationCodeTTL),
		JWT:      container.GetJWT(),
		Sessions: container.GetSessions(),
		Mail:     mail,
		Index:    index,
		Fields:   container.GetFields(),
		Logger:   logger,
	}
	users := &application.UserService{UoW: uow, Sessions: container.GetSessions(), Index: index, Logger: logger}
	play := &application.GameplayService{UoW: uow}
	content := &application.ContentService{UoW: uow, Logger: logger}
	kyc := &application.KYCService{UoW: uow, Store: documentStore(), Recognizer: container.GetRegula(), Logger: logger}

	redisPing := handlers.PingFunc(func(ctx context.Context) error {
		return container.GetRedis().Ping(ctx).Err()
	})
	checks := map[string]handlers.Pinger{
		"postgres": container.GetPGPool(),
		"redis":    redisPing,
	}

	return appHandlers{
		Auth:    handlers.NewAuthHandler(auth, logger),
		User:    handlers.NewUserHandler(users, play, logger),
		Content: handlers.NewContentHandler(content, play),
		KYC:     handlers.NewKYCHandler(kyc),
		Email:   handlers.NewEmailHandler(mail),
		Health:  handlers.NewHealthHandler(checks),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	h := buildHandlers()
	jwt := container.GetJWT()

	r.Add(modules.NewHealthModule(h.Health))
	r.Add(modules.NewAuthModule(h.Auth, jwt))
	r.Add(modules.NewUserModule(h.User, jwt))
	r.Add(modules.NewAdminModule(h.User, jwt))
	r.Add(modules.NewContentModule(h.Content, jwt))
	r.Add(modules.NewKYCModule(h.KYC, jwt))
	r.Add(modules.NewEmailModule(h.Email, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
