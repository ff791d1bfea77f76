package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	oapimiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/controller"
	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/service"
	storageredis "github.com/hiphil2000/IB.React/internal/storage/redis"
	"github.com/hiphil2000/IB.React/internal/util"
)

const (
	shutdownTimeout = 5 * time.Second
)

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	jwtService      *service.JwtService
	loginLimiter    *storageredis.LoginLimiter
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	cleanupFuncs    []func()
}

func NewAPI(
	c *controller.Controller,
	jwtService *service.JwtService,
	loginLimiter *storageredis.LoginLimiter,
	sc *util.ServerConfig,
	l *zap.SugaredLogger,
	cleanupFuncs []func(),
) *API {
	e := echo.New()

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l)

	return &API{
		server:          e,
		controller:      c,
		jwtService:      jwtService,
		loginLimiter:    loginLimiter,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		cleanupFuncs:    cleanupFuncs,
	}
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	swagger, err := controller.GetSwagger()
	if err != nil {
		a.log.Fatalf("Failed to load OpenAPI specification: %v", err)
	}
	swagger.Servers = nil

	a.server.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a)))

	g := a.server.Group("/api")
	g.Use(oapimiddleware.OapiRequestValidator(swagger))
	a.registerRoutes(g)

	a.ListenGracefulShutdown(ctx)
}

// registerRoutes mounts the service-name-prefixed surface. The Auth
// endpoints manage tokens themselves; only Core and the user listing sit
// behind the cookie middleware.
func (a *API) registerRoutes(g *echo.Group) {
	auth := g.Group("/Auth")
	auth.POST("/Login", a.controller.Login, LoginRateLimitMiddleware(a.loginLimiter, a.log))
	auth.POST("/Logout", a.controller.Logout)
	auth.GET("/CurrentUser", a.controller.CurrentUser)
	auth.POST("/ValidateToken", a.controller.ValidateToken)
	auth.GET("/Users", a.controller.Users,
		JwtAuthMiddleware(a.jwtService), RequireRoles(models.RoleAdmin))

	core := g.Group("/Core",
		JwtAuthMiddleware(a.jwtService), RequireRoles(models.RoleUser, models.RoleAdmin))
	core.GET("/GetCommonCodes", a.controller.GetCommonCodes)
	core.GET("/GetCommonCode", a.controller.GetCommonCode)
	core.GET("/GetCodeGroups", a.controller.GetCodeGroups)
	core.GET("/GetCodeGroup", a.controller.GetCodeGroup)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	longShutdown := make(chan struct{}, 1)

	go func() {
		time.Sleep(a.gracefulTimeout)
		longShutdown <- struct{}{}
	}()

	select {
	case <-shutdownCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			a.log.Info("server shutdown completed")
		} else {
			a.log.Errorf("server shutdown: %v", ctx.Err())
		}
	case <-longShutdown:
		a.log.Infof("finished")
	}
}
