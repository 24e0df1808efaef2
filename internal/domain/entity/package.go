package entity

import "github.com/shopspring/decimal"

// PackageSummary is the derived view over all thans sharing a package number.
// Packages are never persisted; aggregates are computed on read.
type PackageSummary struct {
	PackageNo      string
	TotalThans     int
	AvailableThans int
	SoldThans      int
	TotalYards     decimal.Decimal
	AvailableYards decimal.Decimal
	TotalValue     decimal.Decimal
	Warehouses     []string
}

// SummarizePackage groups than rows into the package view.
func SummarizePackage(packageNo string, thans []*Than) *PackageSummary {
	s := &PackageSummary{
		PackageNo:      packageNo,
		TotalYards:     decimal.Zero,
		AvailableYards: decimal.Zero,
		TotalValue:     decimal.Zero,
	}
	seen := map[string]bool{}
	for _, t := range thans {
		if t.PackageNo != packageNo {
			continue
		}
		s.TotalThans++
		s.TotalYards = s.TotalYards.Add(t.Yards)
		s.TotalValue = s.TotalValue.Add(t.Value())
		switch t.Status {
		case ThanStatusAvailable:
			s.AvailableThans++
			s.AvailableYards = s.AvailableYards.Add(t.Yards)
		case ThanStatusSold:
			s.SoldThans++
		}
		if !seen[t.Warehouse] {
			seen[t.Warehouse] = true
			s.Warehouses = append(s.Warehouses, t.Warehouse)
		}
	}
	return s
}
