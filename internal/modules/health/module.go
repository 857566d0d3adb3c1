package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/health/service"
)

// RunReporter — сведения о последнем проходе раннера.
type RunReporter interface {
	LastRun() (time.Time, int)
}

type routerIn struct {
	fx.In

	State    *service.State
	Gatherer prometheus.Gatherer
	Runs     RunReporter `optional:"true"`
}

func NewRouter(in routerIn) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/livez", func(c *gin.Context) {
		// процесс жив
		c.String(http.StatusOK, "ok")
	})

	r.GET("/readyz", func(c *gin.Context) {
		if !in.State.Ready() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	r.GET("/healthz", func(c *gin.Context) {
		resp := gin.H{
			"ready":     in.State.Ready(),
			"uptimeSec": int64(in.State.Uptime().Seconds()),
		}
		if in.Runs != nil {
			last, failed := in.Runs.LastRun()
			var unix int64
			if !last.IsZero() {
				unix = last.Unix()
			}
			resp["lastRunUnix"] = unix
			resp["lastRunFailed"] = failed
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{})))
	return r
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, state *service.State, router *gin.Engine, log *zap.Logger) {
	if cfg.Service.AdminAddr == "" {
		state.SetReady(true)
		return
	}
	srv := &http.Server{
		Addr:              cfg.Service.AdminAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Service.AdminAddr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("[HTTP] admin server", zap.Error(err))
				}
			}()
			state.SetReady(true)
			log.Info("[HTTP] admin listening", zap.String("addr", cfg.Service.AdminAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewRouter,
		),
		fx.Invoke(RunHTTP),
	)
}
