package service

import (
	"go-auth-api/logger"

	"golang.org/x/crypto/bcrypt"
)

// AuthService owns password hashing. The work factor comes from
// configuration so operators can raise it without a code change.
type AuthService struct {
	cost int
}

func NewAuthService(cost int) *AuthService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{cost: cost}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
