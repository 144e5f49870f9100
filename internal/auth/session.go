package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"
)

// Session is the identity a resolved token maps to.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Sessions issues, resolves, and destroys opaque session tokens. The
// token value carries no meaning; identity lives server-side only.
type Sessions interface {
	// Create issues a new token bound to the given identity, expiring
	// SessionTTL from now.
	Create(ctx context.Context, userID, username string) (string, error)

	// Resolve returns the identity for a token, or ErrUnauthenticated
	// if the token is unknown or expired.
	Resolve(ctx context.Context, token string) (*Session, error)

	// Destroy removes a session. Destroying an absent session is not
	// an error.
	Destroy(ctx context.Context, token string) error
}

// RedisSessions stores sessions in Redis with an absolute TTL.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Create(ctx context.Context, userID, username string) (string, error) {
	token := uuid.New().String()
	payload, err := json.Marshal(Session{UserID: userID, Username: username})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, "session:"+token, payload, SessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Resolve(ctx context.Context, token string) (*Session, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessions) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}
