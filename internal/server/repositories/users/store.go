package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avilov/authgate/internal/common"
	"github.com/avilov/authgate/internal/cryptox"
	"github.com/avilov/authgate/internal/server/models"
)

// Store implements Repository over a Blob holding the collection as a JSON
// array. Every operation runs a full load-check-mutate-save cycle under one
// mutex; without that boundary two concurrent Creates could both pass the
// uniqueness checks before either write lands.
type Store struct {
	blob       Blob
	iterations int

	mu sync.Mutex
}

// NewStore constructs a Store persisting through blob and hashing passwords
// with the given PBKDF2 iteration count.
func NewStore(blob Blob, iterations int) *Store {
	return &Store{blob: blob, iterations: iterations}
}

// load reads the whole collection. A blob that has never been written is
// initialized as an empty collection, not reported as an error.
func (s *Store) load(ctx context.Context) ([]models.User, error) {
	data, err := s.blob.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrBlobNotExist) {
			if err := s.save(ctx, []models.User{}); err != nil {
				return nil, err
			}
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("loading user collection: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decoding user collection: %w", err)
	}
	return users, nil
}

func (s *Store) save(ctx context.Context, users []models.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user collection: %w", err)
	}
	if err := s.blob.Save(ctx, data); err != nil {
		return fmt.Errorf("saving user collection: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, username, email, password string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	// both uniqueness checks run before any mutation
	for i := range users {
		if users[i].Username == username {
			return nil, common.ErrUsernameTaken
		}
	}
	for i := range users {
		if users[i].Email == email {
			return nil, common.ErrEmailTaken
		}
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: cryptox.HashPassword(password, salt, s.iterations),
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
		LastLogin:    nil,
		IsActive:     true,
	}

	users = append(users, user)
	if err := s.save(ctx, users); err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return users[i].Profile(), nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			now := time.Now().UTC()
			users[i].LastLogin = &now
			return s.save(ctx, users)
		}
	}
	// unknown id is a no-op
	return nil
}

func (s *Store) VerifyPassword(ctx context.Context, username, password string) (bool, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return false, nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			matched := cryptox.VerifyPassword(password, u.PasswordHash, u.Salt, s.iterations)
			return matched, &u, nil
		}
	}
	return false, nil, nil
}
