package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}

// KeySession is the Redis key holding one login session of a user.
func KeySession(uid, sid string) string {
	return "session:" + uid + ":" + sid
}

// Session is what the API remembers about a login.
type Session struct {
	UserID    string    `json:"uid"`
	Role      string    `json:"role"`
	UserAgent string    `json:"ua,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps login sessions in Redis so tokens can be revoked.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sid string, sess Session, ttl time.Duration) error {
	return RedisSetJSON(ctx, s.rdb, KeySession(sess.UserID, sid), sess, ttl)
}

func (s *SessionStore) Get(ctx context.Context, uid, sid string) (*Session, bool, error) {
	var sess Session
	ok, err := RedisGetJSON(ctx, s.rdb, KeySession(uid, sid), &sess)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &sess, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, uid, sid string) error {
	return RedisDel(ctx, s.rdb, KeySession(uid, sid))
}

// DeleteAll drops every session of a user.
func (s *SessionStore) DeleteAll(ctx context.Context, uid string) error {
	iter := s.rdb.Scan(ctx, 0, KeySession(uid, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
