package application

import (
	"context"
	"io"
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/infrastructure/search"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// SessionStore records login sessions so tokens can be revoked.
type SessionStore interface {
	Save(ctx context.Context, sid string, sess helpers.Session, ttl time.Duration) error
	Get(ctx context.Context, uid, sid string) (*helpers.Session, bool, error)
	Delete(ctx context.Context, uid, sid string) error
	DeleteAll(ctx context.Context, uid string) error
}

// UserIndexer mirrors users into the admin search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]search.UserDoc, error)
}

// DocumentStore persists uploaded identity document images.
type DocumentStore interface {
	Put(ctx context.Context, userID, side, filename, contentType string, r io.Reader) (string, error)
}

// DocumentRecognizer extracts fields from identity document images.
type DocumentRecognizer interface {
	Recognize(ctx context.Context, images []entity.DocumentImage) (*entity.RecognitionResult, error)
}

// JSONPublisher enqueues a message for asynchronous processing.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func nowFrom(f func() time.Time) time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}
