package api

import (
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    "github.com/d60-Lab/campus-moments/config"
    "github.com/d60-Lab/campus-moments/internal/api/handler"
    "github.com/d60-Lab/campus-moments/internal/api/middleware"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(gzip.Gzip(gzip.DefaultCompression))
    r.Use(otelgin.Middleware("campus-moments"))
    if cfg.Sentry.DSN != "" {
        r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    }
    r.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.Burst))

    r.GET("/objects/*path", h.GetObject)

    v1 := r.Group("/api/v1")
    {
        ro := v1.Group("", middleware.OptionalAuth(cfg.Auth.JWTSecret))
        ro.GET("/posts/:post_id", h.GetPost)
        ro.GET("/posts/:post_id/engagement", h.GetEngagement)
        ro.GET("/posts/:post_id/comments", h.ListComments)
        ro.GET("/sync/status", h.SyncStatus)

        rw := v1.Group("", middleware.Auth(cfg.Auth.JWTSecret))
        rw.POST("/posts", h.PublishPost)
        rw.POST("/posts/:post_id/like", h.ToggleLike)
        rw.POST("/posts/:post_id/comments", h.AddComment)
        rw.POST("/sync/drain", h.TriggerDrain)
    }
    return r
}
