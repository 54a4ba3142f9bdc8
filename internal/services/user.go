package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

type UserService interface {
	Register(req models.RegisterRequest) (*models.User, error)
	Login(username, password string) (string, error)
	Authenticate(token string) (*models.User, error)
	Profile(username string) (*models.User, error)
	UpdateProfile(username string, req models.UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{
		repo: repo,
		auth: auth,
	}
}

// Register implements UserService.
func (u *userService) Register(req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)

	hash, err := u.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := u.repo.CreateUser(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return nil, err
	}

	log.Printf("👤 Registered user %s\n", username)
	return user, nil
}

// Login implements UserService. Unknown users and wrong passwords are
// reported identically.
func (u *userService) Login(username, password string) (string, error) {
	user, err := u.repo.GetUser(username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !u.auth.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return u.auth.GenerateToken(user.Username)
}

// Authenticate implements UserService.
func (u *userService) Authenticate(token string) (*models.User, error) {
	username, err := u.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := u.repo.GetUser(username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

// Profile implements UserService.
func (u *userService) Profile(username string) (*models.User, error) {
	user, err := u.repo.GetUser(username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return nil, err
	}

	resumes, err := u.repo.ListResumes(user.ID)
	if err != nil {
		return nil, err
	}
	user.Resumes = resumes
	return user, nil
}

// UpdateProfile implements UserService. A new password is only accepted
// together with the correct current one.
func (u *userService) UpdateProfile(username string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := u.repo.GetUser(username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return nil, err
	}

	var patch models.UserPatch
	if email := strings.TrimSpace(req.Email); email != "" {
		patch.Email = &email
	}

	if req.NewPassword != "" {
		if !u.auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
			return nil, fmt.Errorf("%w: current password is incorrect", ErrInvalidCredentials)
		}
		hash, err := u.auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if err := u.repo.UpdateUser(username, patch); err != nil {
		return nil, err
	}

	return u.Profile(username)
}
