package workflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/adamugarba/thanledger/internal/domain/action"
)

func sellAction(customer string) action.Action {
	return action.Action{
		Kind: action.KindSellThan,
		Sell: &action.SellPayload{PackageNo: "5801", ThanNo: 1, Customer: customer},
	}
}

func TestDuplicateGuard_BlocksWithinWindow(t *testing.T) {
	g := NewDuplicateGuard(30 * time.Second)
	fp := Fingerprint("u1", sellAction("Bala"))

	assert.True(t, g.Remember(fp), "first submission is new")
	assert.False(t, g.Remember(fp), "immediate resubmission is a duplicate")
}

func TestDuplicateGuard_SeenDoesNotRecord(t *testing.T) {
	g := NewDuplicateGuard(30 * time.Second)
	fp := Fingerprint("u1", sellAction("Bala"))

	assert.False(t, g.Seen(fp), "nothing recorded yet")
	assert.False(t, g.Seen(fp), "peeking never records")
	assert.True(t, g.Remember(fp))
	assert.True(t, g.Seen(fp))
}

func TestDuplicateGuard_SeenExpiresAfterTTL(t *testing.T) {
	g := NewDuplicateGuard(30 * time.Second)
	base := time.Now()
	g.now = func() time.Time { return base }

	fp := Fingerprint("u1", sellAction("Bala"))
	g.Remember(fp)
	assert.True(t, g.Seen(fp))

	g.now = func() time.Time { return base.Add(31 * time.Second) }
	assert.False(t, g.Seen(fp), "stale fingerprints no longer match")
}

func TestDuplicateGuard_ExpiresAfterTTL(t *testing.T) {
	g := NewDuplicateGuard(30 * time.Second)
	base := time.Now()
	g.now = func() time.Time { return base }

	fp := Fingerprint("u1", sellAction("Bala"))
	assert.True(t, g.Remember(fp))

	g.now = func() time.Time { return base.Add(31 * time.Second) }
	assert.True(t, g.Remember(fp), "after the window the same action is new again")
}

func TestDuplicateGuard_SweepDropsStaleEntries(t *testing.T) {
	g := NewDuplicateGuard(time.Second)
	base := time.Now()
	g.now = func() time.Time { return base }

	g.Remember(Fingerprint("u1", sellAction("Bala")))
	g.Remember(Fingerprint("u1", sellAction("Rafiq")))
	assert.Len(t, g.seen, 2)

	g.now = func() time.Time { return base.Add(2 * time.Second) }
	g.Remember(Fingerprint("u1", sellAction("Sani")))
	assert.Len(t, g.seen, 1, "stale fingerprints are swept on access")
}

func TestFingerprint_DistinguishesActorAndPayload(t *testing.T) {
	a := sellAction("Bala")

	assert.Equal(t, Fingerprint("u1", a), Fingerprint("u1", a))
	assert.NotEqual(t, Fingerprint("u1", a), Fingerprint("u2", a), "different actors never collide")
	assert.NotEqual(t, Fingerprint("u1", a), Fingerprint("u1", sellAction("Rafiq")), "different payloads never collide")

	b := sellAction("Bala")
	b.Sell.ThanNo = 2
	assert.NotEqual(t, Fingerprint("u1", a), Fingerprint("u1", b))

	p := action.Action{
		Kind:    action.KindRecordPayment,
		Payment: &action.PaymentPayload{Customer: "Bala", Amount: decimal.NewFromInt(100), Method: "cash"},
	}
	assert.NotEqual(t, Fingerprint("u1", a), Fingerprint("u1", p))
}
