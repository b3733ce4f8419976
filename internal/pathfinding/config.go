package pathfinding

import (
	"time"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/transport"
)

// DefaultCutoff is how long a search may run without improving its best node.
const DefaultCutoff = 30 * time.Second

// Policy holds the routing switches applied to one search.
type Policy struct {
	Cutoff            time.Duration
	AvoidWilderness   bool
	DisableWilderness bool
	Wilderness        Wilderness
}

// DefaultPolicy returns a policy with the default cutoff and wilderness areas.
func DefaultPolicy() Policy {
	return Policy{
		Cutoff:     DefaultCutoff,
		Wilderness: DefaultWilderness(),
	}
}

// Config binds the shared collision data and transport table to a policy.
// The flag store and table are read-only; a Config may back any number of
// concurrent searches as long as each uses its own CollisionMap.
type Config struct {
	store      *geo.FlagStore
	transports *transport.Table
	policy     Policy
}

// NewConfig returns a config over store and transports. A nil table means no
// transports; a zero cutoff falls back to DefaultCutoff.
func NewConfig(store *geo.FlagStore, transports *transport.Table, policy Policy) *Config {
	if policy.Cutoff <= 0 {
		policy.Cutoff = DefaultCutoff
	}
	return &Config{store: store, transports: transports, policy: policy}
}

// Store returns the shared flag store.
func (c *Config) Store() *geo.FlagStore { return c.store }

// Transports returns the transport table.
func (c *Config) Transports() *transport.Table { return c.transports }

// Policy returns the routing policy.
func (c *Config) Policy() Policy { return c.policy }

// CollisionMap returns a new per-worker collision map over the shared store.
func (c *Config) CollisionMap() *CollisionMap {
	return NewCollisionMap(c.store)
}

// IsInWilderness reports whether p lies in a wilderness area.
func (c *Config) IsInWilderness(p geo.PackedPoint) bool {
	return c.policy.Wilderness.Contains(p)
}

// AvoidWilderness reports whether the step from -> to must be skipped: it
// enters the wilderness from outside while the target does not need it.
func (c *Config) AvoidWilderness(from, to geo.PackedPoint, targetInWilderness bool) bool {
	return c.policy.AvoidWilderness && !c.IsInWilderness(from) && c.IsInWilderness(to) && !targetInWilderness
}

// DisableWilderness reports whether routing must stop because the target is
// in the wilderness and wilderness routing is disabled. With both set every
// expansion is refused, so such targets are unreachable.
func (c *Config) DisableWilderness(targetInWilderness bool) bool {
	return c.policy.DisableWilderness && targetInWilderness
}
