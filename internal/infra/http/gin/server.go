// Package gin wires the HTTP surface: public booking endpoints, the host
// and admin dashboards, and the payment webhook.
package gin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/queries"
	authsvc "staykit/internal/app/services/auth"
	"staykit/internal/domain/user"
	"staykit/internal/infra/obs"
)

type ServerConfig struct {
	Addr          string
	Dev           bool
	CommandBus    commands.Bus
	QueryBus      queries.Bus
	Accounts      *authsvc.Service
	WebhookSecret string
	CORSOrigins   []string
	Log           *slog.Logger
	Ready         []obs.ReadinessCheck
}

func NewServer(cfg ServerConfig) *http.Server {
	configureGinMode(cfg.Dev)
	router := gin.New()
	router.Use(gin.Recovery(), obs.RequestID(), obs.Logger(cfg.Log))
	router.Use(corsMiddleware(cfg.CORSOrigins))

	router.GET("/livez", obs.Livez())
	router.GET("/readyz", obs.Readyz(cfg.Ready...))

	bookingH := &bookingHandler{commandBus: cfg.CommandBus, queryBus: cfg.QueryBus}
	calendarH := &calendarHandler{commandBus: cfg.CommandBus, queryBus: cfg.QueryBus}
	propertyH := &propertyHandler{commandBus: cfg.CommandBus, queryBus: cfg.QueryBus}
	adminH := &adminHandler{commandBus: cfg.CommandBus, queryBus: cfg.QueryBus}
	authH := &authHandler{accounts: cfg.Accounts}
	webhookH := &webhookHandler{
		commandBus:    cfg.CommandBus,
		webhookSecret: cfg.WebhookSecret,
		log:           cfg.Log,
		now:           time.Now,
	}

	api := router.Group("/api/v1")

	// Public booking site.
	api.GET("/properties/:id", propertyH.get)
	api.GET("/properties/:id/quote", bookingH.quote)
	api.POST("/bookings", bookingH.requestStay)
	api.GET("/bookings/:id", bookingH.get)
	api.POST("/webhooks/payments", webhookH.handle)

	api.POST("/auth/login", authH.login)

	authed := api.Group("", AuthMiddleware(cfg.Accounts))
	authed.POST("/auth/logout", authH.logout)

	// Host dashboard.
	host := authed.Group("", RequireRole(user.RoleHost))
	host.GET("/host/properties", propertyH.listOwn)
	host.POST("/host/properties", propertyH.create)
	host.PUT("/host/properties/:id/rates", propertyH.updateRates)
	host.POST("/host/properties/:id/activate", propertyH.activate)
	host.POST("/host/properties/:id/photos", propertyH.addPhoto)
	host.GET("/host/properties/:id/bookings", bookingH.listForProperty)
	host.GET("/properties/:id/calendar", calendarH.getMonth)
	host.PUT("/properties/:id/calendar/:date", calendarH.setDate)

	// Admin dashboard.
	adminGroup := authed.Group("/admin", RequireRole(user.RoleAdmin))
	adminGroup.GET("/stats", adminH.stats)
	adminGroup.POST("/hosts", adminH.createHost)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key")
	return cors.New(corsCfg)
}

func configureGinMode(dev bool) {
	if dev {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
