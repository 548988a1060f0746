// internal/gateway/server.go
package gateway

import (
	"context"
	"net/http"
	"time"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"

	"github.com/gin-gonic/gin"
)

// ProcessStarter starts one BPMN process instance. Satisfied by the
// camunda client; stubbed in tests.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// Server is the test-taking session API. Pure transport: pagination,
// answer bookkeeping and validation all live in the core packages.
type Server struct {
	config   *config.Config
	catalog  *catalog.Store
	progress *session.ProgressStore
	results  *results.Store
	camunda  ProcessStarter
	logger   logger.Logger

	engine     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, store *catalog.Store, progress *session.ProgressStore, resultStore *results.Store, starter ProcessStarter, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   cfg,
		catalog:  store,
		progress: progress,
		results:  resultStore,
		camunda:  starter,
		logger:   log.WithFields(map[string]interface{}{"component": "gateway"}),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/healthz", s.handleHealth)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/assessments/:assessmentId/session", s.handleSection)
		v1.PUT("/assessments/:assessmentId/session/answers", s.handleAnswer)
		v1.POST("/assessments/:assessmentId/session/advance", s.handleAdvance)
		v1.POST("/assessments/:assessmentId/session/retreat", s.handleRetreat)
		v1.POST("/assessments/:assessmentId/session/submit", s.handleSubmit)
		v1.GET("/results/:resultId", s.handleResult)
	}

	s.engine = engine
	return s
}

// Engine exposes the router for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

func (s *Server) Start() error {
	gw := s.config.Gateway
	s.httpServer = &http.Server{
		Addr:         gw.Address,
		Handler:      s.engine,
		ReadTimeout:  time.Duration(gw.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(gw.WriteTimeout) * time.Millisecond,
	}

	s.logger.Info("gateway listening", map[string]interface{}{"address": gw.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
