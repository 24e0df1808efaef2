package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// titleName normalizes a customer name for lookup and display. The caser is
// built per call: an x/text Caser carries internal buffer state and is not
// safe for concurrent use.
func titleName(s string) string {
	return cases.Title(language.English).String(s)
}

// execute applies one action against the inventory store and runs the ordered
// post-commit pipeline (movement log, ledger pair, customer balance). Every
// mutation holds the package lock for its package, so concurrent sales or
// transfers of the same than serialize within the process.
//
// Effects run after the inventory write and are not rolled back on failure:
// each failed effect is logged and reported as a warning on the result. The
// ledger keys effects by txn id, so a later replay cannot double-post.
func (o *Orchestrator) execute(ctx context.Context, a action.Action, actor Actor) (*Result, error) {
	switch a.Kind {
	case action.KindSellThan:
		return o.sellThan(ctx, a.Sell, actor)
	case action.KindSellPackage:
		return o.sellPackage(ctx, a.Sell.PackageNo, a.Sell.Customer, actor)
	case action.KindSellBatch:
		return o.sellBatch(ctx, a.Sell, actor)
	case action.KindReturnThan:
		return o.returnThan(a.Return, actor)
	case action.KindReturnPackage:
		return o.returnPackage(a.Return.PackageNo, actor)
	case action.KindTransferThan:
		return o.transferThan(a.Transfer)
	case action.KindTransferPackage:
		return o.transferPackage(a.Transfer.PackageNo, a.Transfer.ToWarehouse)
	case action.KindTransferBatch:
		return o.transferBatch(a.Transfer)
	case action.KindUpdatePrice:
		return o.updatePrice(a.Price)
	case action.KindRecordPayment:
		return o.recordPayment(a.Payment, actor)
	case action.KindAddCustomer:
		return o.addCustomer(a.Customer)
	}
	return nil, fmt.Errorf("%w: unknown action kind %q", domain.ErrValidation, a.Kind)
}

func (o *Orchestrator) sellThan(ctx context.Context, p *action.SellPayload, actor Actor) (*Result, error) {
	unlock := o.locks.Lock(p.PackageNo)
	defer unlock()

	customer, err := o.ensureCustomer(p.Customer)
	if err != nil {
		return nil, err
	}
	t, err := o.store.MarkThanSold(p.PackageNo, p.ThanNo, customer.Name)
	if err != nil {
		return nil, err
	}
	warnings := o.postSaleEffects(customer.Name, []*entity.Than{t}, actor)
	return &Result{
		Status:   StatusCompleted,
		Message:  fmt.Sprintf("sold than %d of package %s to %s (%syd)", t.ThanNo, t.PackageNo, customer.Name, t.Yards.String()),
		Warnings: warnings,
	}, nil
}

func (o *Orchestrator) sellPackage(ctx context.Context, packageNo, customerName string, actor Actor) (*Result, error) {
	unlock := o.locks.Lock(packageNo)
	defer unlock()

	customer, err := o.ensureCustomer(customerName)
	if err != nil {
		return nil, err
	}
	sold, err := o.store.MarkPackageSold(packageNo, customer.Name)
	if err != nil {
		// Rows flipped before the failure stay sold; post their movement and
		// ledger effects so the books match the inventory, then surface the
		// failure.
		if len(sold) > 0 {
			o.postSaleEffects(customer.Name, sold, actor)
		}
		return nil, err
	}
	warnings := o.postSaleEffects(customer.Name, sold, actor)
	yards := sumYards(sold)
	return &Result{
		Status:   StatusCompleted,
		Message:  fmt.Sprintf("sold %d thans of package %s to %s (%syd)", len(sold), packageNo, customer.Name, yards.String()),
		Warnings: warnings,
	}, nil
}

// sellBatch sells each package independently. Multi-package mutations are
// non-atomic as a whole: completion is reported per item, never rolled back.
func (o *Orchestrator) sellBatch(ctx context.Context, p *action.SellPayload, actor Actor) (*Result, error) {
	res := &Result{Status: StatusCompleted}
	for _, pkg := range p.Packages {
		item := ItemResult{PackageNo: pkg}
		if _, err := o.sellPackage(ctx, pkg, p.Customer, actor); err != nil {
			item.Err = err.Error()
		}
		res.Items = append(res.Items, item)
	}
	res.Message = batchMessage("sold", res.Items)
	return res, nil
}

func (o *Orchestrator) returnThan(p *action.ReturnPayload, actor Actor) (*Result, error) {
	unlock := o.locks.Lock(p.PackageNo)
	defer unlock()

	// Capture the buyer before the return clears it; the reverse ledger pair
	// needs the counterparty.
	before, err := o.store.FindThan(p.PackageNo, p.ThanNo)
	if err != nil {
		return nil, err
	}
	soldTo := before.SoldTo
	t, err := o.store.MarkThanAvailable(p.PackageNo, p.ThanNo)
	if err != nil {
		return nil, err
	}
	warnings := o.postReturnEffects(soldTo, []*entity.Than{t}, actor)
	return &Result{
		Status:   StatusCompleted,
		Message:  fmt.Sprintf("returned than %d of package %s (%syd)", t.ThanNo, t.PackageNo, t.Yards.String()),
		Warnings: warnings,
	}, nil
}

func (o *Orchestrator) returnPackage(packageNo string, actor Actor) (*Result, error) {
	unlock := o.locks.Lock(packageNo)
	defer unlock()

	// Buyers of record: the sold rows still carry them; capture before the
	// return clears them.
	soldBefore, err := o.store.Find(entity.ThanFilter{PackageNo: packageNo, Status: entity.ThanStatusSold})
	if err != nil {
		return nil, err
	}
	returned, err := o.store.MarkPackageAvailable(packageNo)
	if err != nil {
		if len(returned) > 0 {
			o.postReturnsByBuyer(soldBefore, returned, actor)
		}
		return nil, err
	}
	warnings := o.postReturnsByBuyer(soldBefore, returned, actor)
	return &Result{
		Status:   StatusCompleted,
		Message:  fmt.Sprintf("returned %d thans of package %s", len(returned), packageNo),
		Warnings: warnings,
	}, nil
}

func (o *Orchestrator) transferThan(p *action.TransferPayload) (*Result, error) {
	unlock := o.locks.Lock(p.PackageNo)
	defer unlock()

	t, err := o.store.TransferThan(p.PackageNo, p.ThanNo, p.ToWarehouse)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:  StatusCompleted,
		Message: fmt.Sprintf("transferred than %d of package %s to %s", t.ThanNo, t.PackageNo, t.Warehouse),
	}, nil
}

func (o *Orchestrator) transferPackage(packageNo, toWarehouse string) (*Result, error) {
	unlock := o.locks.Lock(packageNo)
	defer unlock()

	moved, err := o.store.TransferPackage(packageNo, toWarehouse)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:  StatusCompleted,
		Message: fmt.Sprintf("transferred %d thans of package %s to %s", len(moved), packageNo, toWarehouse),
	}, nil
}

func (o *Orchestrator) transferBatch(p *action.TransferPayload) (*Result, error) {
	res := &Result{Status: StatusCompleted}
	for _, pkg := range p.Packages {
		item := ItemResult{PackageNo: pkg}
		if _, err := o.transferPackage(pkg, p.ToWarehouse); err != nil {
			item.Err = err.Error()
		}
		res.Items = append(res.Items, item)
	}
	res.Message = batchMessage("transferred", res.Items)
	return res, nil
}

func (o *Orchestrator) updatePrice(p *action.PricePayload) (*Result, error) {
	filter := entity.ThanFilter{PackageNo: p.PackageNo, Design: p.Design, Shade: p.Shade}
	n, err := o.store.UpdatePrice(filter, p.NewPrice)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:  StatusCompleted,
		Message: fmt.Sprintf("updated price to %s on %d thans", p.NewPrice.String(), n),
	}, nil
}

func (o *Orchestrator) recordPayment(p *action.PaymentPayload, actor Actor) (*Result, error) {
	// The balance update is a read-then-write; serialize per customer so two
	// concurrent payments cannot lose a decrement.
	name := titleName(p.Customer)
	unlock := o.locks.Lock("customer/" + name)
	defer unlock()

	customer, err := o.ensureCustomer(name)
	if err != nil {
		return nil, err
	}
	// Balance decrements floored at zero; payments beyond the outstanding
	// amount simply clear it.
	customer.OutstandingBalance = customer.OutstandingBalance.Sub(p.Amount)
	if customer.OutstandingBalance.IsNegative() {
		customer.OutstandingBalance = decimal.Zero
	}
	customer.UpdatedAt = time.Now()
	if err := o.customers.Update(customer); err != nil {
		return nil, fmt.Errorf("update customer balance: %w", err)
	}

	var warnings []string
	txnID := uuid.New().String()
	if err := o.posting.RecordPaymentReceived(customer.Name, p.Amount, p.Method, txnID, actor.Name); err != nil {
		o.log.Error().Err(err).Str("txn", txnID).Msg("payment ledger post failed")
		warnings = append(warnings, fmt.Sprintf("ledger post failed: %v", err))
	}
	return &Result{
		Status: StatusCompleted,
		Message: fmt.Sprintf("recorded %s payment of %s from %s (outstanding %s)",
			p.Method, p.Amount.String(), customer.Name, customer.OutstandingBalance.String()),
		Warnings: warnings,
	}, nil
}

func (o *Orchestrator) addCustomer(p *action.CustomerPayload) (*Result, error) {
	name := titleName(p.Name)
	existing, err := o.customers.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: customer %s already exists", domain.ErrDuplicate, name)
	}
	now := time.Now()
	c := &entity.Customer{
		ID:                 uuid.New().String(),
		Name:               name,
		OutstandingBalance: decimal.Zero,
		CreditLimit:        p.CreditLimit,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := o.customers.Create(c); err != nil {
		return nil, err
	}
	return &Result{
		Status:  StatusCompleted,
		Message: fmt.Sprintf("added customer %s", name),
	}, nil
}

// ensureCustomer returns the customer by normalized name, creating the record
// lazily on first reference.
func (o *Orchestrator) ensureCustomer(rawName string) (*entity.Customer, error) {
	name := titleName(rawName)
	c, err := o.customers.GetByName(name)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	now := time.Now()
	c = &entity.Customer{
		ID:                 uuid.New().String(),
		Name:               name,
		OutstandingBalance: decimal.Zero,
		CreditLimit:        decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := o.customers.Create(c); err != nil {
		return nil, fmt.Errorf("create customer %s: %w", name, err)
	}
	return c, nil
}

// postSaleEffects runs the ordered pipeline after a sale: one sale_out
// movement per (item, branch) group and one balanced ledger pair for the
// whole transaction.
func (o *Orchestrator) postSaleEffects(customer string, sold []*entity.Than, actor Actor) []string {
	var warnings []string
	txnID := uuid.New().String()

	for _, g := range groupByItem(sold) {
		if err := o.stockLog.RecordSaleOut(g.itemID, g.packageNo, g.branch, g.yards, txnID); err != nil {
			o.log.Error().Err(err).Str("txn", txnID).Str("item", g.itemID).Msg("sale movement post failed")
			warnings = append(warnings, fmt.Sprintf("stock movement failed for %s: %v", g.itemID, err))
		}
	}
	if err := o.posting.RecordSaleValue(customer, sumYards(sold), sumValue(sold), txnID, actor.Name); err != nil {
		o.log.Error().Err(err).Str("txn", txnID).Msg("sale ledger post failed")
		warnings = append(warnings, fmt.Sprintf("ledger post failed: %v", err))
	}
	return warnings
}

// postReturnsByBuyer splits a package return by buyer of record and posts one
// reverse pair per buyer. Thans of the same package can have been sold to
// different customers; a single pair against one of them would misattribute
// the rest.
func (o *Orchestrator) postReturnsByBuyer(soldBefore, returned []*entity.Than, actor Actor) []string {
	buyers := map[string]string{}
	for _, t := range soldBefore {
		buyers[thanKey(t)] = t.SoldTo
	}
	groups := map[string][]*entity.Than{}
	var order []string
	for _, t := range returned {
		name := buyers[thanKey(t)]
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], t)
	}
	var warnings []string
	for _, name := range order {
		warnings = append(warnings, o.postReturnEffects(name, groups[name], actor)...)
	}
	return warnings
}

func thanKey(t *entity.Than) string {
	return fmt.Sprintf("%s#%d", t.PackageNo, t.ThanNo)
}

// postReturnEffects mirrors postSaleEffects for returns: return_in movements
// plus the reverse ledger pair.
func (o *Orchestrator) postReturnEffects(customer string, returned []*entity.Than, actor Actor) []string {
	var warnings []string
	txnID := uuid.New().String()

	for _, g := range groupByItem(returned) {
		if err := o.stockLog.RecordReturnIn(g.itemID, g.packageNo, g.branch, g.yards, txnID); err != nil {
			o.log.Error().Err(err).Str("txn", txnID).Str("item", g.itemID).Msg("return movement post failed")
			warnings = append(warnings, fmt.Sprintf("stock movement failed for %s: %v", g.itemID, err))
		}
	}
	if err := o.posting.RecordReturnValue(customer, sumYards(returned), sumValue(returned), txnID, actor.Name); err != nil {
		o.log.Error().Err(err).Str("txn", txnID).Msg("return ledger post failed")
		warnings = append(warnings, fmt.Sprintf("ledger post failed: %v", err))
	}
	return warnings
}

type itemGroup struct {
	itemID    string
	packageNo string
	branch    string
	yards     decimal.Decimal
}

// groupByItem buckets thans by (itemID, branch) so each pair gets a single
// movement row for the transaction.
func groupByItem(thans []*entity.Than) []*itemGroup {
	var groups []*itemGroup
	index := map[string]*itemGroup{}
	for _, t := range thans {
		key := t.ItemID() + "@" + t.Warehouse
		g, ok := index[key]
		if !ok {
			g = &itemGroup{itemID: t.ItemID(), packageNo: t.PackageNo, branch: t.Warehouse, yards: decimal.Zero}
			index[key] = g
			groups = append(groups, g)
		}
		g.yards = g.yards.Add(t.Yards)
	}
	return groups
}

func sumYards(thans []*entity.Than) decimal.Decimal {
	total := decimal.Zero
	for _, t := range thans {
		total = total.Add(t.Yards)
	}
	return total
}

func sumValue(thans []*entity.Than) decimal.Decimal {
	total := decimal.Zero
	for _, t := range thans {
		total = total.Add(t.Value())
	}
	return total
}

func batchMessage(verb string, items []ItemResult) string {
	ok := 0
	for _, it := range items {
		if it.Err == "" {
			ok++
		}
	}
	return fmt.Sprintf("%s %d of %d packages", verb, ok, len(items))
}
