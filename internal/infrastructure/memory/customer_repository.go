package memory

import (
	"sort"
	"sync"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo is the in-memory customer table.
type CustomerRepo struct {
	mu   sync.RWMutex
	byID map[string]*entity.Customer
}

// NewCustomerRepository builds an empty table.
func NewCustomerRepository() *CustomerRepo {
	return &CustomerRepo{byID: make(map[string]*entity.Customer)}
}

// Create persists a new customer; names are unique.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == customer.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *customer
	r.byID[customer.ID] = &cp
	return nil
}

// GetByID returns a copy, or nil when absent.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetByName returns a copy by exact name, or nil when absent.
func (r *CustomerRepo) GetByName(name string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// List returns customers ordered by name with pagination.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Customer
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Update overwrites the stored row.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *customer
	r.byID[customer.ID] = &cp
	return nil
}
