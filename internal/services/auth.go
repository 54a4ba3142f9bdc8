package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/interview-prep/internal/config"
)

type AuthService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
	GenerateToken(username string) (string, error)
	ValidateToken(token string) (string, error)
}

type authService struct {
	secret     []byte
	expiration time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{
		secret:     []byte(cfg.JWTSecret),
		expiration: time.Duration(cfg.ExpirationMinutes) * time.Minute,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// HashPassword implements AuthService.
func (a *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword implements AuthService.
func (a *authService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken implements AuthService. The subject claim carries the username.
func (a *authService) GenerateToken(username string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements AuthService and returns the token's username.
func (a *authService) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
