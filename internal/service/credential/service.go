package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"doc-authorizer/internal/config"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const ServiceRole = "Service"

// Claims mirror what the origin services expect from an internal caller.
type Claims struct {
	Name string `json:"unique_name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service interface {
	// Issue returns a freshly signed service credential.
	Issue() (string, error)
	Validate(token string) (*Claims, error)
}

type service struct {
	secret []byte
	name   string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(cfg *config.Config) Service {
	return &service{
		secret: []byte(cfg.JWTSecret),
		name:   cfg.ServiceName,
		ttl:    cfg.ServiceTokenTTL,
		now:    time.Now,
	}
}

func (s *service) Issue() (string, error) {
	now := s.now()
	claims := Claims{
		Name: s.name,
		Role: ServiceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.name,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign service credential: %w", err)
	}
	return signed, nil
}

func (s *service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
