package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-prep/internal/models"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
)

// UserRepository is the user store keyed by username, plus the résumé rows
// that belong to each user.
type UserRepository interface {
	GetUser(username string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(username string, patch models.UserPatch) error

	AddResume(resume *models.Resume) error
	ListResumes(userID uuid.UUID) ([]models.Resume, error)
	FindResume(userID uuid.UUID, filename string) (*models.Resume, error)
	DeleteResume(id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUser implements UserRepository.
func (u *userRepository) GetUser(username string) (*models.User, error) {
	var user models.User
	if err := u.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", username, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// CreateUser implements UserRepository.
func (u *userRepository) CreateUser(user *models.User) error {
	if err := u.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateUser implements UserRepository.
func (u *userRepository) UpdateUser(username string, patch models.UserPatch) error {
	updates := map[string]any{}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if len(updates) == 0 {
		return nil
	}

	result := u.db.Model(&models.User{}).Where("username = ?", username).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", username, ErrRecordNotFound)
	}

	return nil
}

// AddResume implements UserRepository.
func (u *userRepository) AddResume(resume *models.Resume) error {
	if err := u.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	return nil
}

// ListResumes implements UserRepository. Newest first.
func (u *userRepository) ListResumes(userID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := u.db.Where("user_id = ?", userID).Order("upload_date DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, nil
}

// FindResume implements UserRepository. The most recent upload wins when a
// user stored the same file name twice.
func (u *userRepository) FindResume(userID uuid.UUID, filename string) (*models.Resume, error) {
	var resume models.Resume
	err := u.db.Where("user_id = ? AND filename = ?", userID, filename).
		Order("upload_date DESC").
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", filename, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}

	return &resume, nil
}

// DeleteResume implements UserRepository.
func (u *userRepository) DeleteResume(id uuid.UUID) error {
	if err := u.db.Delete(&models.Resume{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}

	return nil
}
