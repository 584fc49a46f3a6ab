package apiserver

import (
	goctx "context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAddr is the default address of the APIServer
const DefaultAddr = "0.0.0.0:7074"

// APIServer runs a HTTP server to inspect a learned agent and the states of
// its environment
type APIServer struct {
	router   *gin.Engine
	env      mdp.Environment
	agent    agents.Agent
	gatherer prometheus.Gatherer

	server *http.Server
	addr   string

	*types.BaseService
}

// NewAPIServer instantiates APIServer. A nil gatherer serves the metrics of
// the default prometheus registry.
func NewAPIServer(addr string, env mdp.Environment, agent agents.Agent, gatherer prometheus.Gatherer, logger *log.Logger) *APIServer {
	if addr == "" {
		addr = DefaultAddr
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	server := &APIServer{
		env:         env,
		agent:       agent,
		gatherer:    gatherer,
		addr:        addr,
		BaseService: types.NewBaseService("APIServer", logger),
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(server.logMiddleware)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/agent")
	})
	router.GET("/agent", server.handleAgent)
	router.GET("/trace", server.handleTrace)
	router.GET("/states", server.handleStates)
	router.GET("/states/:state", server.handleStateGet)
	router.GET("/states/:state/qvalues", server.handleQValues)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	server.router = router
	server.server = &http.Server{
		Addr:    server.addr,
		Handler: router,
	}

	return server
}

// Handler returns the router serving the routes of the APIServer
func (a *APIServer) Handler() http.Handler {
	return a.router
}

func (a *APIServer) logMiddleware(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	raw := c.Request.URL.RawQuery

	// Process request
	c.Next()

	end := time.Now()
	if raw != "" {
		path = path + "?" + raw
	}
	a.Logger.With(log.LogParams{
		"timestamp":   end,
		"latency":     end.Sub(start).String(),
		"client_ip":   c.ClientIP(),
		"method":      c.Request.Method,
		"status_code": c.Writer.Status(),
		"error":       c.Errors.ByType(gin.ErrorTypePrivate).String(),
		"body_size":   c.Writer.Size(),
		"path":        path,
	}).Debug("Handled request")
}

// Start starts the APIServer and implements Service
func (a *APIServer) Start() error {
	a.StartRunning()
	go func() {
		a.Logger.With(log.LogParams{
			"addr": a.addr,
		}).Info("API server starting!")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.With(log.LogParams{
				"addr": a.addr,
				"err":  err,
			}).Error("API server closed!")
			a.StopRunning()
		}
	}()
	return nil
}

// Stop stops the APIServer and implements Service
func (a *APIServer) Stop() error {
	a.StopRunning()
	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("API server focefully shutdown")
		return err
	}
	a.Logger.Info("API server stopped!")
	return nil
}
