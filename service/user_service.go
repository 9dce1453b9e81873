package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"
)

const profileCacheTTL = 10 * time.Minute

// UserService handles user-related business logic. Profile reads go
// through a cache-aside layer; the cache is optional and the service
// falls back to the database when it is absent or stale.
type UserService struct {
	userRepo repository.IUserRepository
	cache    ICacheClient
}

func NewUserService(userRepo repository.IUserRepository, cache ICacheClient) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

// GetProfile returns the user's profile, utilizing a cache-aside strategy.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			user := &model.User{}
			if err := json.Unmarshal([]byte(cached), user); err == nil {
				return user, nil
			}
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
		}
	}

	return user, nil
}
