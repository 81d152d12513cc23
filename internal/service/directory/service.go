package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/repository"
)

// Service resolves people referenced by notifications.
type Service interface {
	// GetUser returns nil, nil when the user does not exist or is inactive.
	GetUser(ctx context.Context, id int64) (*domain.DirectoryUser, error)
	// DisplayName never fails; unknown users get a placeholder name.
	DisplayName(ctx context.Context, id int64) string
	// LookupName returns nil when the user cannot be resolved.
	LookupName(ctx context.Context, id int64) *string
}

type service struct {
	userRepo repository.UserRepository
	redis    *redis.Client
	ttl      time.Duration
	log      *zap.Logger
}

func NewService(userRepo repository.UserRepository, redis *redis.Client, ttl time.Duration, log *zap.Logger) Service {
	return &service{
		userRepo: userRepo,
		redis:    redis,
		ttl:      ttl,
		log:      logger.OrNop(log).Named("directory"),
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("directory:user:%d", id)
}

func (s *service) GetUser(ctx context.Context, id int64) (*domain.DirectoryUser, error) {
	if s.redis != nil && s.ttl > 0 {
		if cached, err := s.redis.Get(ctx, cacheKey(id)).Result(); err == nil {
			var user domain.DirectoryUser
			if json.Unmarshal([]byte(cached), &user) == nil {
				return &user, nil
			}
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewUpstreamError("directory", err)
	}
	if user == nil {
		return nil, nil
	}

	if s.redis != nil && s.ttl > 0 {
		if data, err := json.Marshal(user); err == nil {
			if err := s.redis.Set(ctx, cacheKey(id), data, s.ttl).Err(); err != nil {
				s.log.Debug("directory cache write failed", zap.Int64("user_id", id), zap.Error(err))
			}
		}
	}

	return user, nil
}

func (s *service) DisplayName(ctx context.Context, id int64) string {
	if name := s.LookupName(ctx, id); name != nil {
		return *name
	}
	return domain.FallbackUserName(id)
}

func (s *service) LookupName(ctx context.Context, id int64) *string {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		s.log.Warn("directory lookup failed", zap.Int64("user_id", id), zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}
	name := user.Name()
	return &name
}
