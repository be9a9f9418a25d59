// Package scheduler 以 cron 執行背景作業（過期會籍批次停用）。
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/delivery"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// sweepTimeout 單次批次停用的上限
const sweepTimeout = 4 * time.Minute

// Params fx 注入參數
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Sweep  membership.SweepExpiredMembershipsUseCase
}

type cronServer struct {
	cron    *cron.Cron
	sweep   membership.SweepExpiredMembershipsUseCase
	logger  *slog.Logger
	enabled bool
}

// NewServer 建立排程；sweep.enabled 為 false 時 Serve 不做任何事
func NewServer(params Params) (delivery.Delivery, error) {
	logger := params.Logger.With(slog.String("component", "scheduler"))
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))

	s := &cronServer{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweep:   params.Sweep,
		logger:  logger,
		enabled: params.Config.Sweep.Enabled,
	}

	if s.enabled {
		if _, err := s.cron.AddFunc(params.Config.Sweep.Spec, s.runSweep); err != nil {
			return nil, errors.Wrapf(err, "invalid sweep schedule %q", params.Config.Sweep.Spec)
		}
	}

	params.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s, nil
}

// Serve 啟動排程（非阻塞）
func (s *cronServer) Serve(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("expiry sweep disabled")
		return nil
	}

	s.logger.Info("starting scheduler", slog.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
	return nil
}

func (s *cronServer) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.sweep.Execute(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", slog.Any("error", err))
		return
	}

	s.logger.Info("expiry sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("deactivated", result.Deactivated),
		slog.Int("failed", result.Failed),
		slog.Duration("elapsed", time.Since(start)))
}

// stop 等待執行中的作業結束
func (s *cronServer) stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "scheduler stop")
	}
}
