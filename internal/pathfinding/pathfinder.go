package pathfinding

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/intmap"
)

// ErrNoTargets is returned when a search is created without targets.
var ErrNoTargets = errors.New("pathfinding: no targets")

// Reason tells why a search stopped.
type Reason uint32

const (
	ReasonRunning Reason = iota
	ReasonTarget
	ReasonDeadline
	ReasonExhausted
)

func (r Reason) String() string {
	switch r {
	case ReasonRunning:
		return "running"
	case ReasonTarget:
		return "target"
	case ReasonDeadline:
		return "deadline"
	case ReasonExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(text []byte) error {
	for c := ReasonRunning; c <= ReasonExhausted; c++ {
		if c.String() == string(text) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown search reason %q", text)
}

// Result summarises a finished search.
type Result struct {
	Path     []geo.Point   `json:"path"`
	Reached  bool          `json:"reached"`
	Reason   Reason        `json:"reason"`
	Cost     int           `json:"cost"`
	Expanded int           `json:"expanded"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Stats is a snapshot of search progress.
type Stats struct {
	Expanded int
	Reason   Reason
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithClock replaces the clock used for the cutoff deadline.
func WithClock(now func() time.Time) Option {
	return func(p *Pathfinder) { p.now = now }
}

// WithCollisionMap makes the search use m instead of a fresh map. m must not
// be shared with another running search.
func WithCollisionMap(m *CollisionMap) Option {
	return func(p *Pathfinder) { p.cmap = m }
}

type pathSnapshot struct {
	best int32
	path []geo.Point
}

// Pathfinder is one search from a start tile to the nearest of a set of
// targets. Run must be called at most once, from one goroutine. Path, Stats
// and Done may be called from any goroutine at any time.
type Pathfinder struct {
	cfg     *Config
	cmap    *CollisionMap
	now     func() time.Time
	start   geo.PackedPoint
	targets []geo.PackedPoint
	isGoal  *intmap.Map[struct{}]

	targetInWilderness bool

	visited  *geo.VisitedTiles
	boundary deque
	pending  pendingQueue
	nodes    arena

	best     atomic.Int32
	cache    atomic.Pointer[pathSnapshot]
	expanded atomic.Int64
	reason   atomic.Uint32
	done     chan struct{}
}

// New prepares a search from start to the nearest of targets.
func New(cfg *Config, start geo.Point, targets []geo.Point, opts ...Option) (*Pathfinder, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	p := &Pathfinder{
		cfg:     cfg,
		now:     time.Now,
		start:   start.Pack(),
		targets: make([]geo.PackedPoint, 0, len(targets)),
		isGoal:  intmap.New[struct{}](len(targets)),
		visited: geo.NewVisitedTiles(cfg.Store()),
		done:    make(chan struct{}),
	}
	for _, t := range targets {
		packed := t.Pack()
		p.targets = append(p.targets, packed)
		if err := p.isGoal.Put(uint32(packed), struct{}{}); err != nil {
			return nil, err
		}
	}
	p.targetInWilderness = cfg.IsInWilderness(p.targets[0])
	p.best.Store(noNode)

	for _, opt := range opts {
		opt(p)
	}
	if p.cmap == nil {
		p.cmap = cfg.CollisionMap()
	}
	return p, nil
}

// Run executes the search and returns its result.
func (p *Pathfinder) Run() Result {
	started := p.now()
	defer close(p.done)

	root := p.nodes.add(node{point: p.start, prev: noNode, kind: kindWalk})
	p.visited.Set(p.start)
	p.boundary.pushBack(root)
	p.best.Store(root)

	cutoff := p.cfg.Policy().Cutoff
	deadline := started.Add(cutoff)
	bestDistance, bestHeuristic := math.MaxInt, math.MaxInt
	reason := ReasonExhausted

	for p.boundary.len() > 0 || p.pending.len() > 0 {
		if p.pending.len() > 0 {
			head := p.pending.peek()
			if p.boundary.len() == 0 || head.cost < p.nodes.at(p.boundary.front()).cost {
				p.boundary.pushFront(p.pending.pop())
			}
		}

		idx := p.boundary.popFront()
		p.expanded.Add(1)
		current := p.nodes.at(idx)

		if p.isTarget(current.point) {
			p.best.Store(idx)
			reason = ReasonTarget
			break
		}

		distance, heuristic := p.closest(current.point)
		now := p.now()
		if heuristic < bestHeuristic || (heuristic <= bestHeuristic && distance < bestDistance) {
			p.best.Store(idx)
			bestDistance, bestHeuristic = distance, heuristic
			deadline = now.Add(cutoff)
		}
		if now.After(deadline) {
			reason = ReasonDeadline
			break
		}

		if reached := p.expand(idx); reached != noNode {
			p.best.Store(reached)
			reason = ReasonTarget
			break
		}
	}

	p.boundary.clear()
	p.pending.clear()
	p.visited.Clear()
	p.reason.Store(uint32(reason))

	best := p.nodes.at(p.best.Load())
	return Result{
		Path:     p.Path(),
		Reached:  reason == ReasonTarget,
		Reason:   reason,
		Cost:     int(best.cost),
		Expanded: int(p.expanded.Load()),
		Elapsed:  p.now().Sub(started),
	}
}

// expand enqueues the unvisited neighbors of node idx. It returns the index of
// a target node if one was produced, noNode otherwise.
func (p *Pathfinder) expand(idx int32) int32 {
	if p.cfg.DisableWilderness(p.targetInWilderness) {
		return noNode
	}

	current := *p.nodes.at(idx)
	for _, c := range p.cmap.neighbors(current.point, p.visited, p.cfg.Transports()) {
		cost := current.cost + int32(geo.Chebyshev(current.point, c.point)) + int32(c.extra)
		if p.isTarget(c.point) {
			return p.nodes.add(node{point: c.point, prev: idx, cost: cost, kind: c.kind})
		}
		if p.cfg.AvoidWilderness(current.point, c.point, p.targetInWilderness) {
			continue
		}
		// A transport destination can coincide with a walk neighbor of the
		// same expansion.
		if p.visited.Get(c.point) {
			continue
		}
		p.visited.Set(c.point)

		next := p.nodes.add(node{point: c.point, prev: idx, cost: cost, kind: c.kind})
		if c.kind == kindTransport {
			p.pending.push(next, cost)
		} else {
			p.boundary.pushBack(next)
		}
	}
	return noNode
}

func (p *Pathfinder) isTarget(pt geo.PackedPoint) bool {
	_, ok := p.isGoal.Get(uint32(pt))
	return ok
}

// closest returns the minimum Chebyshev distance and minimum Manhattan
// heuristic from pt over all targets.
func (p *Pathfinder) closest(pt geo.PackedPoint) (distance, heuristic int) {
	distance, heuristic = math.MaxInt, math.MaxInt
	for _, t := range p.targets {
		distance = min(distance, geo.Chebyshev(pt, t))
		heuristic = min(heuristic, geo.Manhattan(pt, t))
	}
	return distance, heuristic
}

// Path returns the path from the start to the current best node. It is safe
// to call while Run is in progress; the path is rebuilt only when the best
// node has changed since the previous call.
func (p *Pathfinder) Path() []geo.Point {
	best := p.best.Load()
	if best == noNode {
		return nil
	}
	if snap := p.cache.Load(); snap != nil && snap.best == best {
		return snap.path
	}

	var path []geo.Point
	for i := best; i != noNode; {
		n := p.nodes.load(i)
		path = append(path, n.point.Point())
		i = n.prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	p.cache.Store(&pathSnapshot{best: best, path: path})
	return path
}

// Stats returns the progress of the search.
func (p *Pathfinder) Stats() Stats {
	return Stats{
		Expanded: int(p.expanded.Load()),
		Reason:   Reason(p.reason.Load()),
	}
}

// Done is closed when Run returns.
func (p *Pathfinder) Done() <-chan struct{} {
	return p.done
}

// Nodes returns the number of nodes created so far. Only meaningful once
// Done is closed.
func (p *Pathfinder) Nodes() int {
	return p.nodes.len()
}
