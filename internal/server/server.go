package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/core"
	"github.com/agenthands/genepath/internal/core/export"
	"github.com/agenthands/genepath/internal/observability"
)

type Server struct {
	Pathway *core.Pathway

	defaultThreshold float64
	logger           *zap.Logger
	metrics          *observability.Collector
}

func NewServer(pathway *core.Pathway, logger *zap.Logger, metrics *observability.Collector) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Pathway:          pathway,
		defaultThreshold: pathway.DefaultThreshold,
		logger:           logger.Named("http"),
		metrics:          metrics,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.logger, s.metrics))

	r.GET("/", s.Index)
	r.GET("/healthz", s.Health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api/pathway")
	api.POST("", s.RunPathway)
	api.POST("/csv", s.DownloadCSV)
	api.POST("/export", s.ExportPathway)

	return r
}

func (s *Server) Index(c *gin.Context) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{
		Placeholder:      genePlaceholder,
		DefaultThreshold: s.defaultThreshold,
	}); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindRequest parses the JSON body and tags the request with the request ID.
func (s *Server) bindRequest(c *gin.Context) (core.Request, bool) {
	var req core.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return req, false
	}
	req.ID = c.GetString(requestIDKey)
	return req, true
}

func (s *Server) RunPathway(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}

	report := s.Pathway.Run(c.Request.Context(), req)
	c.JSON(reportStatus(report), report)
}

func (s *Server) DownloadCSV(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	req.SkipSummary = true

	report := s.Pathway.Run(c.Request.Context(), req)
	if status := reportStatus(report); status != http.StatusOK {
		c.JSON(status, report)
		return
	}

	data := report.CSV
	if data == nil {
		var err error
		if data, err = export.CSV(report.Interactions); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
			return
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) ExportPathway(c *gin.Context) {
	if s.Pathway.Driver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": core.ErrExportDisabled.Error()})
		return
	}

	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	req.SkipSummary = true

	report := s.Pathway.Run(c.Request.Context(), req)
	if status := reportStatus(report); status != http.StatusOK {
		c.JSON(status, report)
		return
	}

	if err := s.Pathway.Export(c.Request.Context(), report); err != nil {
		if errors.Is(err, core.ErrExportDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Failed to export network", zap.String("request_id", report.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export network"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           report.ID,
		"genes":        len(report.Genes),
		"interactions": len(report.Interactions),
	})
}

// reportStatus maps a finished run to an HTTP status. Input problems are 422,
// an upstream failure that left no data is 502.
func reportStatus(report *core.Report) int {
	switch {
	case report.Stage == core.StageInputError:
		return http.StatusUnprocessableEntity
	case report.HasErrors() && len(report.Interactions) == 0:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
