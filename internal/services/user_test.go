package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

// memoryUserRepo is an in-memory UserRepository.
type memoryUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	resumes []models.Resume
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*models.User{}}
}

func (m *memoryUserRepo) GetUser(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, repositories.ErrRecordNotFound)
	}
	clone := *u
	return &clone, nil
}

func (m *memoryUserRepo) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return repositories.ErrDuplicate
	}
	user.ID = uuid.New()
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *memoryUserRepo) UpdateUser(username string, patch models.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return nil
}

func (m *memoryUserRepo) AddResume(resume *models.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	resume.ID = uuid.New()
	m.resumes = append(m.resumes, *resume)
	return nil
}

func (m *memoryUserRepo) ListResumes(userID uuid.UUID) ([]models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Resume{}
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryUserRepo) FindResume(userID uuid.UUID, filename string) (*models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.resumes) - 1; i >= 0; i-- {
		if r := m.resumes[i]; r.UserID == userID && r.Filename == filename {
			return &r, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (m *memoryUserRepo) DeleteResume(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.resumes {
		if r.ID == id {
			m.resumes = append(m.resumes[:i], m.resumes[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestUserService(t *testing.T) (UserService, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	svc := NewUserService(repo, newTestAuth())
	_, err := svc.Register(models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	return svc, repo
}

func TestUserService_Register(t *testing.T) {
	svc, repo := newTestUserService(t)

	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password1", stored.PasswordHash)

	_, err := svc.Register(models.RegisterRequest{Username: "alice", Email: "a@b.c", Password: "password2"})
	assert.True(t, errors.Is(err, ErrUserExists))
}

func TestUserService_LoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)

	token, err := svc.Login("alice", "password1")
	require.NoError(t, err)

	user, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Login("alice", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Login("mallory", "password1")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Authenticate("garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.UpdateProfile("alice", models.UpdateProfileRequest{Email: "alice@new.example"})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example", user.Email)

	_, err = svc.UpdateProfile("alice", models.UpdateProfileRequest{CurrentPassword: "nope", NewPassword: "password2"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.UpdateProfile("alice", models.UpdateProfileRequest{CurrentPassword: "password1", NewPassword: "password2"})
	require.NoError(t, err)

	_, err = svc.Login("alice", "password2")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile("ghost", models.UpdateProfileRequest{Email: "x@y.z"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
