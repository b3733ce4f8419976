package router

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/pathfinding"
	"github.com/udisondev/tilepath/internal/transport"
)

// twoRooms returns a store with rooms x 0..9 and x 20..29 (y 0..9) and no
// walkable link between them.
func twoRooms(t *testing.T) *geo.FlagStore {
	t.Helper()
	open := func(x, y int) bool {
		return y >= 0 && y <= 9 && ((x >= 0 && x <= 9) || (x >= 20 && x <= 29))
	}
	r, err := geo.NewRegion(0, 0, 1)
	require.NoError(t, err)
	for x := range geo.RegionSize {
		for y := range geo.RegionSize {
			if open(x, y) {
				require.NoError(t, r.Set(x, y, 0, geo.FlagNorth, open(x, y+1)))
				require.NoError(t, r.Set(x, y, 0, geo.FlagEast, open(x+1, y)))
			}
		}
	}
	s, err := geo.NewFlagStore(geo.RegionExtent{}, map[geo.RegionKey]*geo.Region{{X: 0, Y: 0}: r})
	require.NoError(t, err)
	return s
}

func gatedCatalogue() *transport.Catalogue {
	c := transport.NewCatalogue([]transport.Record{{
		Edge: transport.Edge{
			Origin:      geo.Pack(9, 5, 0),
			Destination: geo.Pack(20, 5, 0),
			Cost:        transport.CostTransport,
		},
		Requirements: transport.Requirements{Quest: "Bridge Repair"},
	}})
	c.FairyRings = nil
	c.SpiritTrees = nil
	return c
}

func newRouter(t *testing.T, workers int) (*Router, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r := New(twoRooms(t), gatedCatalogue(), Options{
		Workers:    workers,
		Policy:     pathfinding.DefaultPolicy(),
		Registerer: reg,
	})
	return r, reg
}

func p(x, y int) geo.Point { return geo.Point{X: x, Y: y} }

func TestRoute(t *testing.T) {
	r, _ := newRouter(t, 2)

	res, err := r.Route(context.Background(), Request{Start: p(1, 1), Targets: []geo.Point{p(8, 8)}})
	require.NoError(t, err)
	assert.True(t, res.Reached)
	assert.Equal(t, p(8, 8), res.Path[len(res.Path)-1])
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.searches.WithLabelValues("target")))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.metrics.busy))
}

func TestRouteCapabilities(t *testing.T) {
	r, _ := newRouter(t, 1)
	req := Request{Start: p(1, 5), Targets: []geo.Point{p(25, 5)}}

	res, err := r.Route(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Reached)
	assert.Equal(t, pathfinding.ReasonExhausted, res.Reason)

	req.Capabilities.Quests = []string{"bridge repair"}
	res, err = r.Route(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Reached)
	assert.Contains(t, res.Path, p(20, 5))
}

func TestRoutePolicyOverrides(t *testing.T) {
	policy := pathfinding.DefaultPolicy()
	policy.Wilderness = pathfinding.Wilderness{Areas: []geo.Area{{X: 5, Y: 0, Width: 5, Height: 10}}}
	r := New(twoRooms(t), gatedCatalogue(), Options{Workers: 1, Policy: policy})

	req := Request{Start: p(1, 1), Targets: []geo.Point{p(8, 8)}}
	res, err := r.Route(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Reached)

	disable := true
	req.DisableWilderness = &disable
	res, err = r.Route(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Reached)
	assert.Equal(t, []geo.Point{p(1, 1)}, res.Path)
}

func TestRouteInvalidRequests(t *testing.T) {
	r, _ := newRouter(t, 1)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"no targets", Request{Start: p(1, 1)}, ErrNoTargets},
		{"bad start", Request{Start: p(-1, 1), Targets: []geo.Point{p(2, 2)}}, ErrInvalidPoint},
		{"bad target", Request{Start: p(1, 1), Targets: []geo.Point{{X: 1, Y: 1, Plane: 4}}}, ErrInvalidPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Route(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRouteWaitsForWorker(t *testing.T) {
	r, _ := newRouter(t, 1)

	held := <-r.workers
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Route(ctx, Request{Start: p(1, 1), Targets: []geo.Point{p(2, 2)}})
	assert.ErrorIs(t, err, context.Canceled)

	r.workers <- held
	res, err := r.Route(context.Background(), Request{Start: p(1, 1), Targets: []geo.Point{p(2, 2)}})
	require.NoError(t, err)
	assert.True(t, res.Reached)
}

func TestRouteBatch(t *testing.T) {
	r, _ := newRouter(t, 2)

	reqs := []Request{
		{Start: p(1, 1), Targets: []geo.Point{p(8, 8)}},
		{Start: p(21, 1), Targets: []geo.Point{p(28, 2)}},
		{Start: p(1, 1), Targets: []geo.Point{p(25, 5)}},
		{Start: p(3, 3), Targets: []geo.Point{p(3, 3)}},
	}
	results, err := r.RouteBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	assert.True(t, results[0].Reached)
	assert.Equal(t, p(8, 8), results[0].Path[len(results[0].Path)-1])
	assert.Equal(t, p(28, 2), results[1].Path[len(results[1].Path)-1])
	assert.False(t, results[2].Reached)
	assert.Equal(t, []geo.Point{p(3, 3)}, results[3].Path)
}

func TestRouteBatchFailure(t *testing.T) {
	r, _ := newRouter(t, 2)

	_, err := r.RouteBatch(context.Background(), []Request{
		{Start: p(1, 1), Targets: []geo.Point{p(8, 8)}},
		{Start: p(1, 1)},
	})
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.ErrorContains(t, err, "request 1")
}

func TestStartSearch(t *testing.T) {
	r, _ := newRouter(t, 1)

	s, err := r.Start(context.Background(), Request{Start: p(1, 1), Targets: []geo.Point{p(9, 9)}})
	require.NoError(t, err)

	<-s.Done()
	res := s.Result()
	assert.True(t, res.Reached)
	assert.Equal(t, res.Path, s.Path())
	assert.Equal(t, pathfinding.ReasonTarget, s.Stats().Reason)
	assert.Len(t, r.workers, 1)
}

func TestNewDefaults(t *testing.T) {
	r := New(twoRooms(t), nil, Options{})
	assert.Positive(t, r.Workers())

	res, err := r.Route(context.Background(), Request{Start: p(1, 1), Targets: []geo.Point{p(2, 1)}})
	require.NoError(t, err)
	assert.True(t, res.Reached)
}
