package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	accountdomain "github.com/jakub-pelec/teacherspace-cf/internal/account/domain"
	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	obsmiddleware "github.com/jakub-pelec/teacherspace-cf/internal/observability/logger"
	paymentdomain "github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

type Params struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	AccountSvc accountdomain.Service
	PaymentSvc paymentdomain.Service
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	accountSvc accountdomain.Service
	paymentSvc paymentdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		accountSvc: p.AccountSvc,
		paymentSvc: p.PaymentSvc,
	}
}

// RegisterRoutes mounts the v1 REST surface and the trigger surface that
// receives document-store and identity-provider events.
func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")
	v1.POST("/accounts", s.CreateAccount)

	triggers := s.engine.Group("/triggers")
	triggers.POST("/firestore", s.FirestoreTrigger)
	triggers.POST("/auth/deleted", s.AuthUserDeleted)
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
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
