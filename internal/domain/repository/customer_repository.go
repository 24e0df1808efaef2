package repository

import "github.com/adamugarba/thanledger/internal/domain/entity"

// CustomerRepository is the persistence port for counterparties. Names are
// the lookup key because that is what the intent classifier extracts.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByName(name string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
