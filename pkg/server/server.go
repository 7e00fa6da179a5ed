// Package server exposes the exporters over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/targets
//	POST /api/export/:target?format=json|shortcode|html&optimize=true&raw=true
//	POST /api/validate/:target
//
// Request bodies are a page envelope ({"root": ...}) or a bare component
// tree.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/export"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 16 << 20

// Config controls the HTTP server.
type Config struct {
	Addr         string
	CORSOrigins  []string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Server serves export requests from a shared export.Service.
type Server struct {
	router *gin.Engine
	svc    *export.Service
	cfg    Config
	logger *slog.Logger
}

// TargetInfo describes one target in GET /api/targets.
type TargetInfo struct {
	Target  builder.Target   `json:"target"`
	Label   string           `json:"label"`
	Formats []builder.Format `json:"formats"`
}

// ExportResponse is the body of a successful export.
type ExportResponse struct {
	*export.Result
	Complete bool `json:"complete"`
	// Output is the document itself for JSON, a string otherwise.
	Output any `json:"output"`
}

// ValidateResponse is the body of a validation request.
type ValidateResponse struct {
	*export.Result
	Complete bool `json:"complete"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the router.
func New(svc *export.Service, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{svc: svc, cfg: cfg, logger: cfg.Logger}

	r := gin.New()
	r.Use(requestLogger(cfg.Logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		cfg.Logger.Error("panic while handling request", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "X-Export-Run"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.healthHandler)
	api := r.Group("/api")
	api.GET("/targets", s.targetsHandler)
	api.POST("/export/:target", s.exportHandler)
	api.POST("/validate/:target", s.validateHandler)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": s.svc.Stats()})
}

func (s *Server) targetsHandler(c *gin.Context) {
	var out []TargetInfo
	for _, t := range builder.Targets() {
		out = append(out, TargetInfo{Target: t, Label: t.Label(), Formats: export.Formats(t)})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) exportHandler(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	format, err := builder.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	req.Format = format
	req.Optimize = queryBool(c, "optimize", true)

	res, ok := s.run(c, req)
	if !ok {
		return
	}
	c.Header("X-Export-Run", res.RunID)
	if queryBool(c, "raw", false) {
		c.Data(http.StatusOK, res.Format.ContentType(), res.Output)
		return
	}

	var output any = string(res.Output)
	if res.Format == builder.FormatJSON {
		output = json.RawMessage(res.Output)
	}
	c.JSON(http.StatusOK, ExportResponse{Result: res, Complete: res.Complete(), Output: output})
}

func (s *Server) validateHandler(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	req.Format = builder.FormatJSON
	res, ok := s.run(c, req)
	if !ok {
		return
	}
	status := http.StatusOK
	if !res.Report.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, ValidateResponse{Result: res, Complete: res.Complete()})
}

// request resolves the target parameter. It writes the error response and
// returns false on failure.
func (s *Server) request(c *gin.Context) (export.Request, bool) {
	target, err := builder.ParseTarget(c.Param("target"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return export.Request{}, false
	}
	return export.Request{Target: target, Source: c.Query("source")}, true
}

func (s *Server) run(c *gin.Context, req export.Request) (*export.Result, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
	data, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body is empty"})
		return nil, false
	}

	res, err := s.svc.ExportBytes(data, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, builder.ErrUnknownTarget) {
			status = http.StatusNotFound
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return nil, false
	}
	return res, true
}

func queryBool(c *gin.Context, key string, def bool) bool {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request failed", attrs...)
		default:
			logger.Debug("request", attrs...)
		}
	}
}
