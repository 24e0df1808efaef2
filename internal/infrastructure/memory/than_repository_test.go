package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/infrastructure/memory"
)

func newThan(packageNo string, thanNo int) *entity.Than {
	return &entity.Than{
		PackageNo:    packageNo,
		ThanNo:       thanNo,
		Design:       "D-101",
		Shade:        "maroon",
		Yards:        decimal.NewFromInt(10),
		Status:       entity.ThanStatusAvailable,
		Warehouse:    "Lagos",
		PricePerYard: decimal.NewFromInt(100),
		UpdatedAt:    time.Now(),
	}
}

func TestThanRepo_UpdateEnforcesVersion(t *testing.T) {
	repo := memory.NewThanRepository()
	require.NoError(t, repo.Create(newThan("5801", 1)))

	// two readers hold the same version
	first, err := repo.Get("5801", 1)
	require.NoError(t, err)
	second, err := repo.Get("5801", 1)
	require.NoError(t, err)

	first.Status = entity.ThanStatusSold
	require.NoError(t, repo.Update(first))
	assert.Equal(t, int64(2), first.Version, "successful update bumps the caller's version")

	second.Warehouse = "Kano"
	err = repo.Update(second)
	assert.True(t, errors.Is(err, domain.ErrConflict), "stale version must lose")

	// the first write survived intact
	row, err := repo.Get("5801", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ThanStatusSold, row.Status)
	assert.Equal(t, "Lagos", row.Warehouse)
}

func TestThanRepo_CreateRejectsDuplicateKey(t *testing.T) {
	repo := memory.NewThanRepository()
	require.NoError(t, repo.Create(newThan("5801", 1)))
	assert.True(t, errors.Is(repo.Create(newThan("5801", 1)), domain.ErrDuplicate))

	// same than number in another package is a different row
	require.NoError(t, repo.Create(newThan("5802", 1)))
}

func TestThanRepo_FindIgnoresZeroFilterFields(t *testing.T) {
	repo := memory.NewThanRepository()
	require.NoError(t, repo.Create(newThan("5801", 1)))
	kano := newThan("5801", 2)
	kano.Warehouse = "Kano"
	require.NoError(t, repo.Create(kano))
	other := newThan("5802", 1)
	other.Shade = "navy"
	require.NoError(t, repo.Create(other))

	all, err := repo.Find(entity.ThanFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byShade, err := repo.Find(entity.ThanFilter{Shade: "navy"})
	require.NoError(t, err)
	require.Len(t, byShade, 1)
	assert.Equal(t, "5802", byShade[0].PackageNo)

	byBoth, err := repo.Find(entity.ThanFilter{PackageNo: "5801", Warehouse: "Kano"})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, 2, byBoth[0].ThanNo)
}

func TestThanRepo_HandsOutCopies(t *testing.T) {
	repo := memory.NewThanRepository()
	require.NoError(t, repo.Create(newThan("5801", 1)))

	got, err := repo.Get("5801", 1)
	require.NoError(t, err)
	got.Status = entity.ThanStatusSold

	again, err := repo.Get("5801", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ThanStatusAvailable, again.Status)
}

func TestThanRepo_UpdatePriceWhereBumpsVersions(t *testing.T) {
	repo := memory.NewThanRepository()
	require.NoError(t, repo.Create(newThan("5801", 1)))
	require.NoError(t, repo.Create(newThan("5801", 2)))

	stale, err := repo.Get("5801", 1)
	require.NoError(t, err)

	n, err := repo.UpdatePriceWhere(entity.ThanFilter{PackageNo: "5801"}, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a bulk reprice invalidates concurrently held versions
	stale.Status = entity.ThanStatusSold
	assert.True(t, errors.Is(repo.Update(stale), domain.ErrConflict))
}
