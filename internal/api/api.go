package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bushaija/studious-potato-sub008/internal/api/controller"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store"
	"github.com/Bushaija/studious-potato-sub008/internal/service/generator"
)

// APIService is the thin host shell mounting the statement engine. It does
// no authentication, approval workflow or period locking; those concerns
// live in the applications that embed the engine.
type APIService struct {
	router           *echo.Echo
	generatorService *generator.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, opts generator.Options) (*APIService, error) {
	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true

	svc.router.Validator = NewValidator()
	svc.router.JSONSerializer = NewSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.Logger())
	svc.router.Use(RequestIDMiddleware)

	svc.generatorService = generator.NewService(store, opts)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.generatorService)

	statements := api.Group("/statements")
	statements.POST("/generate", cntrl.GenerateStatement)
	statements.GET("/templates/:code", cntrl.GetTemplate)
	statements.POST("/cache/invalidate", cntrl.InvalidateCache)

	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return svc, nil
}
