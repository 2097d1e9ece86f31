// Package server exposes trained models over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/pipeline"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// Classes > 0 adds rounded class indices to every prediction.
	Classes int
}

// Server serves predictions from a fixed set of models.
type Server struct {
	echo     *echo.Echo
	models   *pipeline.Models
	logger   log.Logger
	config   *Config
	registry *prometheus.Registry
	metrics  *Metrics
}

// New creates a server for models. A nil logger uses the process logger and
// a nil config listens on localhost:8080.
func New(models *pipeline.Models, logger log.Logger, cfg *Config) (*Server, error) {
	if models == nil || len(models.Ensembles) == 0 {
		return nil, histerrors.Wrap(histerrors.ErrNoModels, "server.New")
	}
	if logger == nil {
		logger = log.GetLoggerWithName("histgbm.server")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	registry := prometheus.NewRegistry()
	s := &Server{
		echo:     e,
		models:   models,
		logger:   logger,
		config:   cfg,
		registry: registry,
		metrics:  NewMetrics(registry),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.observe)

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/predict", s.handlePredict)
}

// observe logs every request and records its latency.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let echo write the error response so the status is final.
			c.Error(err)
		}
		status := c.Response().Status
		elapsed := time.Since(start)

		s.metrics.observeRequest(c.Request().Method, c.Path(), status, elapsed)
		s.logger.Info("HTTP request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", status,
			log.DurationMsKey, elapsed.Milliseconds(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Targets []string `json:"targets"`
}

func (s *Server) handleHealth(c echo.Context) error {
	targets := make([]string, 0, dataset.NumTargets)
	for _, t := range s.models.Targets() {
		targets = append(targets, t.Name())
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Targets: targets})
}

// PredictRequest is the body of POST /api/v1/predict. Either Records or
// Prompt must be set; a bare Prompt is scored as a record whose other
// fields are unknown.
type PredictRequest struct {
	Records []dataset.Record `json:"records"`
	Prompt  string           `json:"prompt"`
}

// Prediction holds every model's output for one record.
type Prediction struct {
	ID      string             `json:"master_index"`
	Values  map[string]float64 `json:"values"`
	Classes map[string]int     `json:"classes,omitempty"`
}

// PredictResponse is the body returned by POST /api/v1/predict.
type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

func (s *Server) handlePredict(c echo.Context) error {
	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("Invalid predict request", "error", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	records := req.Records
	if len(records) == 0 {
		if strings.TrimSpace(req.Prompt) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "records or prompt is required")
		}
		records = []dataset.Record{promptRecord(req.Prompt)}
	}

	var preds map[dataset.Target][]float64
	if err := histerrors.SafeExecute("predict", func() error {
		preds = s.models.PredictAll(records)
		return nil
	}); err != nil {
		s.logger.Error("Prediction failed", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "prediction failed")
	}
	s.metrics.rowsPredicted.Add(float64(len(records)))

	resp := PredictResponse{Predictions: make([]Prediction, len(records))}
	for i, rec := range records {
		p := Prediction{ID: rec.ID, Values: make(map[string]float64, len(preds))}
		if s.config.Classes > 0 {
			p.Classes = make(map[string]int, len(preds))
		}
		for t, values := range preds {
			p.Values[t.Name()] = values[i]
			if p.Classes != nil {
				p.Classes[t.Name()] = pipeline.Clamp(values[i], s.config.Classes)
			}
		}
		resp.Predictions[i] = p
	}

	s.logger.Debug("Predictions served", log.PredsKey, len(records))
	return c.JSON(http.StatusOK, resp)
}

// promptRecord fills the fields a bare prompt request does not carry.
func promptRecord(prompt string) dataset.Record {
	return dataset.Record{
		County:            "unknown",
		HealthLevel:       "unknown",
		YearsOfExperience: "5",
		Prompt:            prompt,
		NursingCompetency: "unknown",
		ClinicalPanel:     "unknown",
	}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("Starting HTTP server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return histerrors.Wrap(err, "http server")
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
