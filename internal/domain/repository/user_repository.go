package repository

import "github.com/adamugarba/thanledger/internal/domain/entity"

// UserRepository is the persistence port for operators and reviewers.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}
