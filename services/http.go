package services

import (
	"errors"
	"fmt"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/lac-hong-legacy/engage_api/docs"
	"github.com/lac-hong-legacy/engage_api/middleware"
	"github.com/lac-hong-legacy/engage_api/services/handlers"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type HttpService struct {
	appContext.DefaultService

	engagementSvc *EngagementService
	exportSvc     *ExportService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port     int
	logLevel string
	app      *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	svc.port = shared.GetEnvInt("HTTP_PORT", 8000)
	svc.logLevel = shared.GetEnv("LOG_LEVEL", "INFO")

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.engagementSvc = svc.Service(ENGAGEMENT_SVC).(*EngagementService)
	svc.exportSvc = svc.Service(EXPORT_SVC).(*ExportService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc, _ = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.app = NewHttpApp(svc.engagementSvc, svc.exportSvc, svc.rateLimitSvc, svc.monitoringSvc, svc.logLevel == "TRACE")

	log.WithField("port", svc.port).Info("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// NewHttpApp wires routes onto a fiber app. limiter and monitoring may be nil.
func NewHttpApp(engagement handlers.EngagementServiceInterface, export handlers.ExportServiceInterface, limiter middleware.Limiter, monitoring *MonitoringService, trace bool) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          HandleError,
	})

	docs.SwaggerInfo.BasePath = "/"
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if trace {
		app.Use(logger.New())
	}
	if monitoring != nil {
		app.Use(MonitoringMiddleware(monitoring))
	}

	limit := func(endpointType string) fiber.Handler {
		if limiter == nil {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return middleware.RateLimit(limiter, endpointType)
	}

	participantHandler := handlers.NewParticipantHandler(engagement, export)
	sessionHandler := handlers.NewSessionHandler(engagement)
	videoHandler := handlers.NewVideoHandler(engagement)

	app.Get("/ping", ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", ping)

	p := v1.Group("/participants/:participantId")
	p.Post("/login", limit(shared.EndpointSessionSignal), participantHandler.Login)
	p.Post("/logout", limit(shared.EndpointSessionSignal), participantHandler.Logout)

	tabs := p.Group("/tabs/:tabId", limit(shared.EndpointSessionSignal))
	tabs.Post("/hidden", sessionHandler.Hidden)
	tabs.Post("/visible", sessionHandler.Visible)
	tabs.Post("/unload", sessionHandler.Unload)
	tabs.Post("/pagehide", sessionHandler.PageHide)

	p.Post("/quiz", limit(shared.EndpointQuizComplete), participantHandler.CompleteQuiz)
	p.Post("/answers", limit(shared.EndpointAnswerJudged), participantHandler.JudgeAnswer)
	p.Get("/units/:index/unlocked", participantHandler.IsUnlocked)
	p.Get("/units/:unitId/best", participantHandler.GetBestScore)
	p.Get("/gamification", participantHandler.GetGamification)
	p.Get("/can-participate", participantHandler.CanParticipate)
	p.Post("/video-runs", videoHandler.StartRun)
	p.Put("/video-runs/:runId", videoHandler.FinishRun)
	p.Post("/events", videoHandler.RecordEvent)
	p.Post("/export", participantHandler.Export)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(errors.New("page not found"), "Not Found")
	})

	return app
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func HandleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
	return shared.ResponseInternalError(c)
}
