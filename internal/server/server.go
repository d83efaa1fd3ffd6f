package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/strategy"
)

const maxDecisionLimit = 500

// Server exposes analyses, indicator series and decision history over HTTP.
type Server struct {
	Service  *analyzer.Service
	Gatherer prometheus.Gatherer
	engine   *gin.Engine
	http     *http.Server
}

// New builds the router. A nil gatherer serves the default registry.
func New(svc *analyzer.Service, gatherer prometheus.Gatherer, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{Service: svc, Gatherer: gatherer, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/analysis/:symbol", s.getAnalysis)
	api.GET("/indicators/:symbol", s.getIndicators)
	api.GET("/decisions", s.getDecisions)

	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("http server listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"source":    s.Service.Collector.Fetcher.Name(),
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) getAnalysis(c *gin.Context) {
	a, err := s.Service.Analyze(c.Request.Context(), c.Param("symbol"), c.Query("period"), analyzer.TriggerAPI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getIndicators(c *gin.Context) {
	series, err := s.Service.Series(c.Request.Context(), c.Param("symbol"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) getDecisions(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxDecisionLimit)
	}
	symbol := c.Query("symbol")
	if symbol != "" {
		symbol = collector.NormalizeSymbol(symbol, s.Service.Collector.ExchangeSuffix)
	}
	recs, err := s.Service.Recorder.RecentDecisions(c.Request.Context(), symbol, limit)
	if err != nil {
		log.Errorf("recent decisions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load decisions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": recs, "count": len(recs)})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, strategy.ErrInsufficientHistory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cannot analyze: " + err.Error()})
	case errors.Is(err, collector.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "market data unavailable"})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}
