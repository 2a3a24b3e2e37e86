package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/icewatch/x-monitor/internal/metrics"
	"github.com/icewatch/x-monitor/internal/ratelimit"
	"github.com/icewatch/x-monitor/internal/repositories/account"
	"github.com/icewatch/x-monitor/internal/repositories/like"
	"github.com/icewatch/x-monitor/internal/repositories/post"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	LC          fx.Lifecycle
	Logger      logger.Logger
	Config      *config.Config
	Metrics     *metrics.Metrics
	PostRepo    post.Repository
	AccountRepo account.Repository
	LikeRepo    like.Repository
}

// Server is the read-side HTTP API over ingested posts plus the engagement
// counter writes. It never touches the posts table beyond SELECTs.
type Server struct {
	engine      *gin.Engine
	logger      logger.Logger
	config      *config.Config
	metrics     *metrics.Metrics
	postRepo    post.Repository
	accountRepo account.Repository
	likeRepo    like.Repository
	likeLimiter ratelimit.Limiter
}

func New(opts Opts) *Server {
	if opts.Config.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		logger:      opts.Logger.WithComponent("HTTPServer"),
		config:      opts.Config,
		metrics:     opts.Metrics,
		postRepo:    opts.PostRepo,
		accountRepo: opts.AccountRepo,
		likeRepo:    opts.LikeRepo,
		// The like counter is global and unauthenticated: one like every
		// 2 seconds per client IP, burst of 5.
		likeLimiter: ratelimit.NewInMemoryLimiter(1, 2*time.Second, 5),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)
	s.engine = engine

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler: engine,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.logger.Info("Starting HTTP server", "addr", httpServer.Addr)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})

	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		api.GET("/posts", s.listPosts)
		api.GET("/posts/:post_id", s.getPost)
		api.POST("/posts/:post_id/like", s.likePost)
		api.GET("/accounts", s.listAccounts)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
