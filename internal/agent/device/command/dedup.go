package command

import (
	"time"

	"github.com/finlock/finlock-agent/internal/agent/client"
	"github.com/jellydator/ttlcache/v3"
)

// DefaultDedupWindow absorbs push retry storms while staying short enough
// that a legitimate rapid lock-unlock-lock sequence is not dropped.
const DefaultDedupWindow = 5 * time.Second

// Deduplicator collapses duplicate remote commands of the same kind arriving
// within a short window. Purely a noise-reduction guard, not a correctness
// mechanism: the window lives in memory only and a duplicate slipping
// through (after the window, or after a process restart) is still idempotent
// against the persisted lock state.
type Deduplicator struct {
	window time.Duration
	cache  *ttlcache.Cache[client.CommandKind, time.Time]
}

// NewDeduplicator creates a deduplicator with the given window. A
// non-positive window disables deduplication entirely.
func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{
		window: window,
		cache: ttlcache.New[client.CommandKind, time.Time](
			ttlcache.WithTTL[client.CommandKind, time.Time](window),
			// the window is measured from the last accepted command, not the
			// last duplicate, so hits must not extend the TTL
			ttlcache.WithDisableTouchOnHit[client.CommandKind, time.Time](),
		),
	}
}

// Accept reports whether a command of this kind should proceed. Different
// kinds never suppress each other.
func (d *Deduplicator) Accept(kind client.CommandKind) bool {
	if d.window <= 0 {
		return true
	}
	if item := d.cache.Get(kind); item != nil {
		return false
	}
	d.cache.Set(kind, time.Now(), ttlcache.DefaultTTL)
	return true
}

// Forget drops the window for a kind so the next command of that kind is not
// suppressed. A command that failed must never shield its own redelivery, or
// a corrected command arriving within the window.
func (d *Deduplicator) Forget(kind client.CommandKind) {
	if d.window <= 0 {
		return
	}
	d.cache.Delete(kind)
}
