// =============================================================================
// Workbank Normalizer - HTTP Server
// =============================================================================
//
// This module exposes the processing entry point over HTTP for the upload
// front end.
//
// ROUTES:
//   GET  /health   - liveness check
//   GET  /systems  - the supported partner systems and their columns
//   POST /process  - multipart upload: "file" and "system" form fields,
//                    optional ?format=xlsx|csv|json. Responds with the
//                    encoded output as an attachment, or a JSON Failure:
//                      400 missing or invalid inputs
//                      413 upload larger than server.max_upload_mb
//                      422 the file could not be processed
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/converter"
	"github.com/ginjaninja78/workbank-normalizer/internal/writer"
	"github.com/ginjaninja78/workbank-normalizer/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// WarningCountHeader reports the number of audit findings of an output.
const WarningCountHeader = "X-Workbank-Warnings"

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP surface.
type Server struct {
	cfg       *config.AppConfig
	processor *converter.Processor
	systems   map[string]*config.SystemConfig
	router    *gin.Engine
	log       logrus.FieldLogger
	now       func() time.Time
}

// New builds a Server and its routes.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - processor: The rule dispatcher.
//   - systems: Per-system configs, for CSV settings. May be nil.
//   - log: The logger.
func New(cfg *config.AppConfig, processor *converter.Processor, systems map[string]*config.SystemConfig, log logrus.FieldLogger) *Server {
	s := &Server{
		cfg:       cfg,
		processor: processor,
		systems:   systems,
		log:       log,
		now:       time.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = cfg.Server.UploadLimit()

	r.GET("/health", s.health)
	r.GET("/systems", s.listSystems)
	r.POST("/process", s.process)

	s.router = r
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request handled")
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// systemInfo is one entry of GET /systems.
type systemInfo struct {
	System   string   `json:"system"`
	BankCode string   `json:"bank_code,omitempty"`
	BankName string   `json:"bank_name,omitempty"`
	Columns  []string `json:"columns"`
	Required []string `json:"required,omitempty"`
	Flexible bool     `json:"flexible,omitempty"`
}

func (s *Server) listSystems(c *gin.Context) {
	registry := s.processor.Registry()

	var out []systemInfo
	for _, id := range registry.SortedSystems() {
		set, _ := registry.Lookup(id)
		info := set.Info()
		out = append(out, systemInfo{
			System:   info.System,
			BankCode: info.BankCode,
			BankName: info.BankName,
			Columns:  info.Columns,
			Required: info.Required,
			Flexible: info.Flexible,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) process(c *gin.Context) {
	log := s.log.WithField("request_id", c.GetString("request_id"))

	limit := s.cfg.Server.UploadLimit()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	if err := c.Request.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB))
			return
		}
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	system := strings.TrimSpace(c.PostForm("system"))
	if system == "" {
		fail(c, http.StatusBadRequest, errors.New("system is required"))
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", s.cfg.OutputFormat))
	if !config.IsOutputFormat(format) {
		fail(c, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	log = log.WithFields(logrus.Fields{"system": system, "file": fh.Filename})

	var csvSettings config.CSVSettings
	if sc, ok := s.systems[system]; ok {
		csvSettings = sc.CSVSettings
	}

	sheet, err := converter.Decode(fh.Filename, data, csvSettings)
	if err != nil {
		log.WithError(err).Info("upload could not be decoded")
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	now := s.now()
	out, err := s.processor.Process(sheet, system, now)
	if err != nil {
		log.WithError(err).Info("upload could not be processed")
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	var buf bytes.Buffer
	if err := writer.Encode(&buf, format, out.Document()); err != nil {
		log.WithError(err).Error("failed to encode output")
		fail(c, http.StatusInternalServerError, errors.New("failed to encode output"))
		return
	}

	name := utils.GenerateOutputFileName(s.cfg.OutputNameFormat, now, map[string]string{
		"bank":   out.BankName(),
		"system": out.System,
		"ext":    writer.Extension(format),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header(WarningCountHeader, strconv.Itoa(len(out.Warnings)))
	c.Data(http.StatusOK, writer.ContentType(format), buf.Bytes())
}

// fail writes a JSON Failure.
func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, converter.NewResult(nil, err))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
