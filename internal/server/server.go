package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/insightrow/sheetsync/internal/audit/domain"
	"github.com/insightrow/sheetsync/internal/config"
	datasourcedomain "github.com/insightrow/sheetsync/internal/datasource/domain"
	metricdomain "github.com/insightrow/sheetsync/internal/metric/domain"
	syncsvc "github.com/insightrow/sheetsync/internal/sync"
	tenantdomain "github.com/insightrow/sheetsync/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewEngine builds the gin engine with the base middleware and the
// operational endpoints.
func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	syncSvc   *syncsvc.Service
	auditSvc  auditdomain.Service
	tenants   tenantdomain.Repository
	sources   datasourcedomain.Repository
	metrics   metricdomain.Repository
}

type Params struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	SyncSvc  *syncsvc.Service
	AuditSvc auditdomain.Service
	Tenants  tenantdomain.Repository
	Sources  datasourcedomain.Repository
	Metrics  metricdomain.Repository
}

func NewServer(p Params) *Server {
	return &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("server"),
		genID:    p.GenID,
		syncSvc:  p.SyncSvc,
		auditSvc: p.AuditSvc,
		tenants:  p.Tenants,
		sources:  p.Sources,
		metrics:  p.Metrics,
	}
}

// RegisterRoutes mounts the sync trigger and admin API.
func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")
	api.POST("/sync/trigger", s.triggerSync)
	api.GET("/metrics", s.listMetrics)

	admin := api.Group("/admin")
	admin.POST("/sync-all", s.syncAll)
	admin.GET("/audit-logs", s.listAuditLogs)
	admin.GET("/sheets-config", s.listSheetsConfigs)
	admin.POST("/sheets-config", s.createSheetsConfig)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Module wires the HTTP surface: engine, server, routes, and the
// listener lifecycle.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)
