package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/zonebridge/internal/adapters/signal"
	"github.com/dkeye/zonebridge/internal/app/orch"
	"github.com/dkeye/zonebridge/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const zonesTimeout = 2 * time.Second

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ZoneBridgeSessions", store))
	r.Use(ClientTokenMiddleware())

	limiter := signal.NewConnectLimiter(cfg.ConnectLimit.Max, cfg.ConnectLimit.Window)
	ctrl := signal.NewSignalWSController(o, limiter, cfg.ReadLimit, cfg.PingPeriod)
	ws := func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	}

	// Clients connect to the bare root as well as the api path.
	r.GET("/", ws)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "zonebridge"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/ws/signal", ws)
	api.GET("/status", func(c *gin.Context) {
		id := o.Identity()
		c.JSON(http.StatusOK, gin.H{
			"running":      o.Running(),
			"extension_id": id.ExtensionID,
			"version":      id.Version,
			"sessions":     o.Hub.Len(),
		})
	})
	api.GET("/zones", func(c *gin.Context) {
		if !o.Running() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not running"})
			return
		}
		qctx, cancel := context.WithTimeout(c.Request.Context(), zonesTimeout)
		defer cancel()
		zones, err := o.ZonesSnapshot(qctx)
		if err != nil {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"zones": zones})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
