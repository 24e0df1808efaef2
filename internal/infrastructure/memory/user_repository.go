package memory

import (
	"sync"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo is the in-memory user table.
type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]*entity.User
}

// NewUserRepository builds an empty table.
func NewUserRepository() *UserRepo {
	return &UserRepo{byID: make(map[string]*entity.User)}
}

// Create persists a new user; usernames are unique.
func (r *UserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

// GetByID returns a copy, or nil when absent.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// FindByUsername returns a copy by username, or nil when absent.
func (r *UserRepo) FindByUsername(username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
