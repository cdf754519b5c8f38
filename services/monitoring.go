package services

import (
	"fmt"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lac-hong-legacy/engage_api/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "engage_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_active",
			Help: "Number of active concurrent HTTP requests",
		},
		[]string{"method"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Engagement Metrics
var (
	heartsDeductedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engage_hearts_deducted_total",
			Help: "Hearts deducted for incorrect answers",
		},
	)

	heartResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engage_heart_resets_total",
			Help: "Daily heart refills",
		},
	)

	xpAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engage_xp_awarded_total",
			Help: "XP awarded across all participants",
		},
	)

	streakTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_streak_transitions_total",
			Help: "Streak evaluations by outcome",
		},
		[]string{"outcome"},
	)

	quizCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_quiz_completions_total",
			Help: "Saved quiz results by stars earned",
		},
		[]string{"stars"},
	)

	storeConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_store_conflicts_total",
			Help: "Optimistic version conflicts that forced a re-read",
		},
		[]string{"record", "op"},
	)

	sessionsOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engage_sessions_opened_total",
			Help: "Sessions opened",
		},
	)

	sessionsClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_sessions_closed_total",
			Help: "Sessions closed by end reason",
		},
		[]string{"reason"},
	)

	concurrentSessionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engage_concurrent_sessions_total",
			Help: "Session starts that found another open session for the same participant",
		},
	)

	eventsRecordedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_events_recorded_total",
			Help: "Events appended to the store",
		},
		[]string{"type"},
	)

	eventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_events_dropped_total",
			Help: "Events lost to a full queue or a failed append",
		},
		[]string{"cause"},
	)

	swallowedWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engage_swallowed_write_failures_total",
			Help: "Best-effort writes that failed and were not surfaced",
		},
		[]string{"op"},
	)
)

type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry
	server   *fiber.App
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	svc.port = shared.GetEnvInt("PROMETHEUS_PORT", DEFAULT_PROMETHEUS_PORT)
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		httpRequestsTotal,
		httpRequestsActive,
		httpRequestDurationSeconds,
		heartsDeductedTotal,
		heartResetsTotal,
		xpAwardedTotal,
		streakTransitionsTotal,
		quizCompletionsTotal,
		storeConflictsTotal,
		sessionsOpenedTotal,
		sessionsClosedTotal,
		concurrentSessionsTotal,
		eventsRecordedTotal,
		eventsDroppedTotal,
		swallowedWritesTotal,
	)

	svc.register = reg

	config := fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	}

	svc.server = fiber.New(config)
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Int("port", svc.port).Msg("Prometheus metrics server stopped")
		}
	}()

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

// RecordRequest records HTTP request metrics
func (svc *MonitoringService) RecordRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(duration.Seconds())
}

// MonitoringMiddleware creates a Fiber middleware for monitoring HTTP requests
func MonitoringMiddleware(monitoringSvc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		httpRequestsActive.WithLabelValues(method).Inc()
		defer httpRequestsActive.WithLabelValues(method).Dec()

		err := c.Next()

		// route pattern is only resolved once the handler chain has run
		status := strconv.Itoa(c.Response().StatusCode())
		monitoringSvc.RecordRequest(method, c.Route().Path, status, time.Since(start))

		return err
	}
}
