// Package endpoint is a small suggestion server for trying the prompt
// without a real backend. It answers GET /search?q=<query> with the
// candidates whose field starts with the query.
package endpoint

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	mu    sync.RWMutex
	index *Index

	field     string
	arrayName string
	limit     int
	logger    *zap.Logger
}

type Options struct {
	// Field is the record key matched against the query.
	Field string

	// ArrayName, when set, wraps the response as {"<ArrayName>": [...]}.
	ArrayName string

	Limit int
}

func NewServer(records []Record, options Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		index:     NewIndex(records, options.Field),
		field:     options.Field,
		arrayName: options.ArrayName,
		limit:     options.Limit,
		logger:    logger,
	}
}

// Replace swaps the served records. Requests in flight finish against the
// previous set.
func (s *Server) Replace(records []Record) {
	index := NewIndex(records, s.field)

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
}

func (s *Server) currentIndex() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// GenerateRoutes builds the HTTP handler.
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodHead}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		requestLogger(s.logger),
		cors.New(corsConfig),
	)

	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "gsuggest is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "gsuggest is running") })

	r.GET("/search", s.SearchHandler)
	r.GET("/search/:query", s.SearchHandler)

	return r
}

// SearchHandler answers with the matching records, either as a bare array
// or wrapped under the configured array name.
func (s *Server) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Param("query")
	}

	matches := s.currentIndex().Search(query, s.limit)

	if s.arrayName != "" {
		c.JSON(http.StatusOK, gin.H{s.arrayName: matches})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("served request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.RequestURI()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Serve listens on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srvr := &http.Server{
		Handler:           s.GenerateRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("endpoint shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("endpoint listening", zap.String("addr", ln.Addr().String()))
	if err := srvr.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
