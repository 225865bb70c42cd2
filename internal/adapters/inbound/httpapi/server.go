// Package httpapi serves health, version, metrics and the latest report
// over HTTP for long-running deployments of riskgate.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riskgate/riskgate/internal/adapters/outbound/markdown"
	"github.com/riskgate/riskgate/internal/adapters/outbound/metrics"
	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// VersionInfo is served on /version.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Server holds the latest report and re-runs the analysis on demand.
type Server struct {
	svc         *application.AnalyzeService
	metrics     *metrics.Recorder
	projectPath string
	info        VersionInfo
	logger      *zap.Logger

	mu     sync.RWMutex
	latest *domain.Report
}

// NewServer creates a Server. metrics may be nil, which disables /metrics.
func NewServer(svc *application.AnalyzeService, rec *metrics.Recorder, projectPath string, info VersionInfo, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, metrics: rec, projectPath: projectPath, info: info, logger: logger}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	if s.metrics != nil {
		r.Use(metricsMiddleware(s.metrics))
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/", s.index)
	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)
	r.GET("/version", s.version)
	r.GET("/report", s.report)
	r.GET("/report.md", s.reportMarkdown)
	return r
}

// Refresh runs the analysis and stores the result as the latest report.
func (s *Server) Refresh(ctx context.Context, summary bool) (*domain.Report, error) {
	a, err := s.svc.Analyze(ctx, application.AnalyzeOptions{
		ProjectPath: s.projectPath,
		NoSummary:   !summary,
		NoHistory:   true,
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.latest = a.Report
	s.mu.Unlock()
	return a.Report, nil
}

// Latest returns the stored report, or nil before the first analysis.
func (s *Server) Latest() *domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// The first analysis runs before the listener opens.
func (s *Server) Run(ctx context.Context, addr string) error {
	if _, err := s.Refresh(ctx, false); err != nil {
		s.logger.Warn("initial analysis failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("riskgate HTTP listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "riskgate",
		"endpoints": []string{"/healthz", "/readyz", "/version", "/metrics", "/report", "/report.md"},
	})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyz reports ready once a report is available.
func (s *Server) readyz(c *gin.Context) {
	if s.Latest() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) version(c *gin.Context) {
	c.JSON(http.StatusOK, s.info)
}

// current returns the latest report, re-analyzing when asked to or when
// none exists yet.
func (s *Server) current(c *gin.Context) (*domain.Report, bool) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	summary, _ := strconv.ParseBool(c.Query("summary"))

	if r := s.Latest(); r != nil && !refresh && !summary {
		return r, true
	}
	r, err := s.Refresh(c.Request.Context(), summary)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return r, true
}

func (s *Server) report(c *gin.Context) {
	r, ok := s.current(c)
	if !ok {
		return
	}
	c.Header("X-Riskgate-Verdict", r.Verdict())
	c.JSON(http.StatusOK, r)
}

func (s *Server) reportMarkdown(c *gin.Context) {
	r, ok := s.current(c)
	if !ok {
		return
	}
	c.Header("X-Riskgate-Verdict", r.Verdict())
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown.Render(r)))
}
