// Package api exposes the router over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/pathfinding"
	"github.com/udisondev/tilepath/internal/router"
)

// Options configures a Server.
type Options struct {
	// StreamInterval is the period of progress messages on the stream.
	StreamInterval time.Duration
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// AccessLog receives one line per request.
	AccessLog zerolog.Logger
}

// Server is the HTTP surface of the route service.
type Server struct {
	router   *router.Router
	engine   *gin.Engine
	interval time.Duration
}

// New builds the gin engine and registers all routes.
func New(r *router.Router, opts Options) *Server {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 250 * time.Millisecond
	}

	s := &Server{router: r, engine: gin.New(), interval: opts.StreamInterval}
	s.engine.Use(accessLog(opts.AccessLog), gin.Recovery())

	compressed := s.engine.Group("/", brotliMiddleware())
	compressed.GET("/healthz", s.handleHealth)
	compressed.POST("/v1/path", s.handlePath)

	s.engine.GET("/v1/path/stream", s.handleStream)
	if opts.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type pathResponse struct {
	Path      []geo.Point        `json:"path"`
	Reached   bool               `json:"reached"`
	Reason    pathfinding.Reason `json:"reason"`
	Cost      int                `json:"cost"`
	Expanded  int                `json:"expanded"`
	ElapsedMS float64            `json:"elapsed_ms"`
}

func newPathResponse(res pathfinding.Result) pathResponse {
	path := res.Path
	if path == nil {
		path = []geo.Point{}
	}
	return pathResponse{
		Path:      path,
		Reached:   res.Reached,
		Reason:    res.Reason,
		Cost:      res.Cost,
		Expanded:  res.Expanded,
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000.0,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"regions": s.router.Regions(),
		"workers": s.router.Workers(),
	})
}

func (s *Server) handlePath(c *gin.Context) {
	var req router.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	res, err := s.router.Route(c.Request.Context(), req)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newPathResponse(res))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, router.ErrNoTargets), errors.Is(err, router.ErrInvalidPoint):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
