package repository

import (
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// ThanRepository is the persistence port for than rows. Update performs a
// version-checked write: it fails with domain.ErrConflict when the stored
// version no longer matches the one read, so callers re-read and retry.
type ThanRepository interface {
	Create(than *entity.Than) error
	Get(packageNo string, thanNo int) (*entity.Than, error)
	ListByPackage(packageNo string) ([]*entity.Than, error)
	Find(filter entity.ThanFilter) ([]*entity.Than, error)
	Update(than *entity.Than) error
	// UpdatePriceWhere reprices every row matching the filter regardless of
	// status and returns the number of rows touched.
	UpdatePriceWhere(filter entity.ThanFilter, newPrice decimal.Decimal) (int, error)
}
