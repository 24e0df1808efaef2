// Package inventory wraps the than repository with the record-store contract:
// explicit preconditions on every mutation and bounded retry on version
// conflict. The legacy system ran read-then-write with last-writer-wins; here
// every write compares the row version and re-reads on mismatch.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

// Store is the inventory record store.
type Store struct {
	thans      repository.ThanRepository
	retryLimit int
}

// NewStore builds the store. retryLimit bounds version-conflict retries per
// mutation; values below 1 are treated as 1.
func NewStore(thans repository.ThanRepository, retryLimit int) *Store {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &Store{thans: thans, retryLimit: retryLimit}
}

// Receive registers a newly arrived than. The row must not exist yet.
func (s *Store) Receive(t *entity.Than) error {
	if t.PackageNo == "" || t.ThanNo <= 0 {
		return fmt.Errorf("%w: receive needs package and than number", domain.ErrValidation)
	}
	if !t.Yards.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: receive needs positive yards", domain.ErrValidation)
	}
	if t.Status == "" {
		t.Status = entity.ThanStatusAvailable
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	if err := s.thans.Create(t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("%w: than %d of package %s already exists", domain.ErrDuplicate, t.ThanNo, t.PackageNo)
		}
		return err
	}
	return nil
}

// Find lists thans matching the filter as given.
func (s *Store) Find(filter entity.ThanFilter) ([]*entity.Than, error) {
	return s.thans.Find(filter)
}

// FindAvailable lists available thans matching the filter.
func (s *Store) FindAvailable(filter entity.ThanFilter) ([]*entity.Than, error) {
	filter.Status = entity.ThanStatusAvailable
	return s.thans.Find(filter)
}

// FindThan fetches one than row.
func (s *Store) FindThan(packageNo string, thanNo int) (*entity.Than, error) {
	t, err := s.thans.Get(packageNo, thanNo)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: than %d of package %s", domain.ErrNotFound, thanNo, packageNo)
	}
	return t, nil
}

// Package returns the derived package view.
func (s *Store) Package(packageNo string) (*entity.PackageSummary, error) {
	thans, err := s.thans.ListByPackage(packageNo)
	if err != nil {
		return nil, err
	}
	if len(thans) == 0 {
		return nil, fmt.Errorf("%w: package %s", domain.ErrNotFound, packageNo)
	}
	return entity.SummarizePackage(packageNo, thans), nil
}

// MarkThanSold transitions one than available -> sold.
func (s *Store) MarkThanSold(packageNo string, thanNo int, soldTo string) (*entity.Than, error) {
	return s.mutate(packageNo, thanNo, func(t *entity.Than) error {
		if t.Status != entity.ThanStatusAvailable {
			return fmt.Errorf("%w: than %d of package %s is already sold", domain.ErrValidation, thanNo, packageNo)
		}
		now := time.Now()
		t.Status = entity.ThanStatusSold
		t.SoldTo = soldTo
		t.SoldDate = &now
		return nil
	})
}

// MarkThanAvailable transitions one than sold -> available (a return).
// Returning a than that is not sold is a no-op signalled as not found:
// there is nothing to return.
func (s *Store) MarkThanAvailable(packageNo string, thanNo int) (*entity.Than, error) {
	return s.mutate(packageNo, thanNo, func(t *entity.Than) error {
		if t.Status != entity.ThanStatusSold {
			return fmt.Errorf("%w: nothing to return for than %d of package %s", domain.ErrNotFound, thanNo, packageNo)
		}
		t.Status = entity.ThanStatusAvailable
		t.SoldTo = ""
		t.SoldDate = nil
		return nil
	})
}

// MarkPackageSold sells every available than of the package to the
// counterparty and returns the rows sold.
func (s *Store) MarkPackageSold(packageNo, soldTo string) ([]*entity.Than, error) {
	thans, err := s.thans.ListByPackage(packageNo)
	if err != nil {
		return nil, err
	}
	if len(thans) == 0 {
		return nil, fmt.Errorf("%w: package %s", domain.ErrNotFound, packageNo)
	}
	var sold []*entity.Than
	for _, t := range thans {
		if t.Status != entity.ThanStatusAvailable {
			continue
		}
		updated, err := s.MarkThanSold(t.PackageNo, t.ThanNo, soldTo)
		if err != nil {
			return sold, err
		}
		sold = append(sold, updated)
	}
	if len(sold) == 0 {
		return nil, fmt.Errorf("%w: no available thans in package %s", domain.ErrValidation, packageNo)
	}
	return sold, nil
}

// MarkPackageAvailable returns every sold than of the package.
func (s *Store) MarkPackageAvailable(packageNo string) ([]*entity.Than, error) {
	thans, err := s.thans.ListByPackage(packageNo)
	if err != nil {
		return nil, err
	}
	if len(thans) == 0 {
		return nil, fmt.Errorf("%w: package %s", domain.ErrNotFound, packageNo)
	}
	var returned []*entity.Than
	for _, t := range thans {
		if t.Status != entity.ThanStatusSold {
			continue
		}
		updated, err := s.MarkThanAvailable(t.PackageNo, t.ThanNo)
		if err != nil {
			return returned, err
		}
		returned = append(returned, updated)
	}
	if len(returned) == 0 {
		return nil, fmt.Errorf("%w: nothing to return in package %s", domain.ErrNotFound, packageNo)
	}
	return returned, nil
}

// TransferThan moves one available than to another warehouse. Transferring a
// sold than or to the same warehouse is a validation error.
func (s *Store) TransferThan(packageNo string, thanNo int, toWarehouse string) (*entity.Than, error) {
	return s.mutate(packageNo, thanNo, func(t *entity.Than) error {
		if t.Status != entity.ThanStatusAvailable {
			return fmt.Errorf("%w: cannot transfer sold than %d of package %s", domain.ErrValidation, thanNo, packageNo)
		}
		if t.Warehouse == toWarehouse {
			return fmt.Errorf("%w: than %d of package %s is already in %s", domain.ErrValidation, thanNo, packageNo, toWarehouse)
		}
		t.Warehouse = toWarehouse
		return nil
	})
}

// TransferPackage moves every available than of the package.
func (s *Store) TransferPackage(packageNo, toWarehouse string) ([]*entity.Than, error) {
	thans, err := s.thans.ListByPackage(packageNo)
	if err != nil {
		return nil, err
	}
	if len(thans) == 0 {
		return nil, fmt.Errorf("%w: package %s", domain.ErrNotFound, packageNo)
	}
	var moved []*entity.Than
	for _, t := range thans {
		if t.Status != entity.ThanStatusAvailable || t.Warehouse == toWarehouse {
			continue
		}
		updated, err := s.TransferThan(t.PackageNo, t.ThanNo, toWarehouse)
		if err != nil {
			return moved, err
		}
		moved = append(moved, updated)
	}
	if len(moved) == 0 {
		return nil, fmt.Errorf("%w: no transferable thans in package %s", domain.ErrValidation, packageNo)
	}
	return moved, nil
}

// UpdatePrice reprices every row matching the filter regardless of status and
// returns the count of rows updated.
func (s *Store) UpdatePrice(filter entity.ThanFilter, newPrice decimal.Decimal) (int, error) {
	if !newPrice.GreaterThan(decimal.Zero) {
		return 0, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	n, err := s.thans.UpdatePriceWhere(filter, newPrice)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no thans match the price filter", domain.ErrNotFound)
	}
	return n, nil
}

// mutate runs read -> precondition -> write with version compare, re-reading
// and retrying on conflict up to the bound.
func (s *Store) mutate(packageNo string, thanNo int, apply func(*entity.Than) error) (*entity.Than, error) {
	var lastErr error
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		t, err := s.FindThan(packageNo, thanNo)
		if err != nil {
			return nil, err
		}
		if err := apply(t); err != nil {
			return nil, err
		}
		t.UpdatedAt = time.Now()
		if err := s.thans.Update(t); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("than %d of package %s kept conflicting after %d attempts: %w",
		thanNo, packageNo, s.retryLimit, lastErr)
}
