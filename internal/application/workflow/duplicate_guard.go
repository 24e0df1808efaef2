package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/adamugarba/thanledger/internal/domain/action"
)

// DuplicateGuard suppresses rapid resubmission of the same action by the same
// actor. It is explicit process-wide state with a declared TTL: entries expire
// after the window and the map is swept on access. It is not durable across
// restarts and not shared across instances; a multi-instance deployment backs
// this with an external cache instead.
type DuplicateGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewDuplicateGuard builds the guard with the given window.
func NewDuplicateGuard(ttl time.Duration) *DuplicateGuard {
	return &DuplicateGuard{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Seen reports whether the fingerprint was recorded within the TTL window,
// without recording it. The orchestrator checks first and remembers only
// outcomes that stood, so a failed action never blocks an identical retry.
func (g *DuplicateGuard) Seen(fingerprint string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.seen[fingerprint]
	return ok && g.now().Sub(at) <= g.ttl
}

// Remember records the fingerprint and reports whether it was new. A false
// return means the same action was submitted within the TTL window.
func (g *DuplicateGuard) Remember(fingerprint string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, k)
		}
	}
	if at, ok := g.seen[fingerprint]; ok && now.Sub(at) <= g.ttl {
		return false
	}
	g.seen[fingerprint] = now
	return true
}

// Fingerprint hashes actor identity plus the canonical action encoding.
func Fingerprint(actorID string, a action.Action) string {
	payload, err := action.Encode(a)
	if err != nil {
		payload = string(a.Kind)
	}
	sum := sha256.Sum256([]byte(actorID + "|" + payload))
	return hex.EncodeToString(sum[:])
}
