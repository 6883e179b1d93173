// Package api serves the payoff engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/banachtech/phoenix/config"
	"github.com/banachtech/phoenix/metrics"
	"github.com/banachtech/phoenix/store"
)

// Server serves HTTP requests for the payoff service.
type Server struct {
	config           config.Config
	store            store.Store
	router           *gin.Engine
	evalLimiters     *keyLimiters
	registerLimiters *keyLimiters
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(st store.Store, cfg config.Config) *Server {
	server := &Server{
		config:           cfg,
		store:            st,
		evalLimiters:     newKeyLimiters(rate.Every(time.Second), 2),
		registerLimiters: newKeyLimiters(rate.Every(time.Minute), 2),
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()
	router.Use(server.requestMetrics)

	router.GET("/healthz", server.healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/users", server.createUser)

	authRoutes := router.Group("/v1").Use(server.authentication)
	authRoutes.POST("/payoff", server.rateLimit, server.evaluatePayoff)
	authRoutes.POST("/scenarios", server.rateLimit, server.runScenarios)
	authRoutes.POST("/validate", server.validateDocument)
	authRoutes.GET("/evaluations", server.listEvaluations)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// Handler exposes the router so callers can manage the http.Server
// themselves, e.g. for graceful shutdown.
func (server *Server) Handler() http.Handler {
	return server.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func (server *Server) healthz(c *gin.Context) {
	if err := server.store.Ping(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
