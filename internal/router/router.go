// Package router serves path searches over one shared collision map.
//
// The flag store and the transport catalogue are immutable and shared by
// every search. Each running search borrows one CollisionMap from a fixed
// pool; the pool size caps concurrency.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/pathfinding"
	"github.com/udisondev/tilepath/internal/transport"
)

var (
	ErrNoTargets    = pathfinding.ErrNoTargets
	ErrInvalidPoint = errors.New("router: point outside the coordinate domain")
)

// Request is one search.
type Request struct {
	Start   geo.Point   `json:"start"`
	Targets []geo.Point `json:"targets"`

	// Overrides of the default policy; nil keeps the default.
	AvoidWilderness   *bool `json:"avoid_wilderness,omitempty"`
	DisableWilderness *bool `json:"disable_wilderness,omitempty"`

	Capabilities transport.Capabilities `json:"capabilities"`
}

// Options configures a Router.
type Options struct {
	// Workers bounds concurrent searches. Zero means GOMAXPROCS.
	Workers int
	// Policy is the default search policy.
	Policy pathfinding.Policy
	// Registerer receives the router metrics. Nil means a private registry.
	Registerer prometheus.Registerer
}

// Router runs searches on a bounded pool of workers.
type Router struct {
	store     *geo.FlagStore
	catalogue *transport.Catalogue
	policy    pathfinding.Policy
	workers   chan *pathfinding.CollisionMap
	metrics   *metrics
}

// New creates a Router over store and catalogue.
func New(store *geo.FlagStore, catalogue *transport.Catalogue, opts Options) *Router {
	n := opts.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	if catalogue == nil {
		catalogue = transport.NewCatalogue(nil)
	}

	r := &Router{
		store:     store,
		catalogue: catalogue,
		policy:    opts.Policy,
		workers:   make(chan *pathfinding.CollisionMap, n),
		metrics:   newMetrics(reg),
	}
	for range n {
		r.workers <- pathfinding.NewCollisionMap(store)
	}
	return r
}

// Workers returns the pool size.
func (r *Router) Workers() int {
	return cap(r.workers)
}

// Regions returns the number of loaded collision regions.
func (r *Router) Regions() int {
	return r.store.Loaded()
}

// Route runs req to completion on a free worker.
func (r *Router) Route(ctx context.Context, req Request) (pathfinding.Result, error) {
	s, err := r.Start(ctx, req)
	if err != nil {
		return pathfinding.Result{}, err
	}
	<-s.Done()
	return s.Result(), nil
}

// RouteBatch runs reqs concurrently, at most Workers at a time. Results are
// in request order. The first failing request cancels the rest.
func (r *Router) RouteBatch(ctx context.Context, reqs []Request) ([]pathfinding.Result, error) {
	results := make([]pathfinding.Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers())
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Route(ctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Start waits for a free worker and runs req in the background.
func (r *Router) Start(ctx context.Context, req Request) (*Search, error) {
	cfg, err := r.prepare(req)
	if err != nil {
		return nil, err
	}

	var cmap *pathfinding.CollisionMap
	select {
	case cmap = <-r.workers:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	pf, err := pathfinding.New(cfg, req.Start, req.Targets, pathfinding.WithCollisionMap(cmap))
	if err != nil {
		r.workers <- cmap
		return nil, err
	}

	s := &Search{pf: pf, done: make(chan struct{})}
	r.metrics.busy.Inc()
	go func() {
		defer func() {
			r.metrics.busy.Dec()
			r.workers <- cmap
			close(s.done)
		}()
		s.result = pf.Run()
		r.metrics.observe(s.result)
		slog.Debug("search finished",
			"start", req.Start,
			"targets", len(req.Targets),
			"reason", s.result.Reason,
			"expanded", s.result.Expanded,
			"elapsed", s.result.Elapsed)
	}()
	return s, nil
}

// prepare validates req and builds its search config.
func (r *Router) prepare(req Request) (*pathfinding.Config, error) {
	if len(req.Targets) == 0 {
		return nil, ErrNoTargets
	}
	if !req.Start.Valid() {
		return nil, fmt.Errorf("start %s: %w", req.Start, ErrInvalidPoint)
	}
	for _, t := range req.Targets {
		if !t.Valid() {
			return nil, fmt.Errorf("target %s: %w", t, ErrInvalidPoint)
		}
	}

	table, err := r.catalogue.Table(req.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("building transport table: %w", err)
	}

	policy := r.policy
	if req.AvoidWilderness != nil {
		policy.AvoidWilderness = *req.AvoidWilderness
	}
	if req.DisableWilderness != nil {
		policy.DisableWilderness = *req.DisableWilderness
	}

	return pathfinding.NewConfig(r.store, table, policy), nil
}

// Search is a search running in the background.
type Search struct {
	pf     *pathfinding.Pathfinder
	result pathfinding.Result
	done   chan struct{}
}

// Path returns the best path found so far.
func (s *Search) Path() []geo.Point {
	return s.pf.Path()
}

// Stats returns the search progress.
func (s *Search) Stats() pathfinding.Stats {
	return s.pf.Stats()
}

// Done is closed when the search has finished and its worker is released.
func (s *Search) Done() <-chan struct{} {
	return s.done
}

// Result returns the final result. It must only be called after Done is closed.
func (s *Search) Result() pathfinding.Result {
	return s.result
}
