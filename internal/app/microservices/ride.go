package microservices

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Temutjin2k/ride-safety/config"
	"github.com/Temutjin2k/ride-safety/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/ride-safety/internal/adapter/http/ws"
	"github.com/Temutjin2k/ride-safety/internal/adapter/memory"
	"github.com/Temutjin2k/ride-safety/internal/adapter/notify"
	rabbitadapter "github.com/Temutjin2k/ride-safety/internal/adapter/rabbit"
	redisadapter "github.com/Temutjin2k/ride-safety/internal/adapter/redis"
	"github.com/Temutjin2k/ride-safety/internal/service/auth"
	"github.com/Temutjin2k/ride-safety/internal/service/ride"
	"github.com/Temutjin2k/ride-safety/internal/service/safety"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/rabbit"
	ws "github.com/Temutjin2k/ride-safety/pkg/wsHub"
)

// RideSafetyService runs the ride lifecycle, the safety monitor and their HTTP surface.
type RideSafetyService struct {
	httpServer *server.API
	monitor    *safety.Monitor
	connHub    *ws.ConnectionHub
	rabbit     *rabbit.RabbitMQ
	redis      *goredis.Client

	cfg config.Config
	log logger.Logger
}

func NewRideSafety(ctx context.Context, cfg config.Config, log logger.Logger) (*RideSafetyService, error) {
	s := &RideSafetyService{
		cfg: cfg,
		log: log,
	}

	repo := memory.NewRideRepo()

	rideOpts := []ride.Option{ride.WithFare(ride.FixedFare(cfg.Ride.BaseFare))}
	notifiers := notify.Fanout{notify.NewLogNotifier(log)}

	if cfg.RabbitMQ.Enabled {
		client, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to connect to rabbitmq", err)
			return nil, err
		}
		s.rabbit = client

		if err := client.DeclareTopicExchange(ctx, cfg.RabbitMQ.Exchange); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("declare exchange: %w", err)
		}

		broker := rabbitadapter.NewSafetyBroker(client, cfg.RabbitMQ.Exchange, log)
		rideOpts = append(rideOpts, ride.WithPublisher(broker))
		notifiers = append(notifiers, broker)
	}

	monitorOpts := []safety.Option{
		safety.WithConfig(safety.Config{
			Cadence:        cfg.Safety.CheckCadence,
			PollInterval:   cfg.Safety.PollInterval,
			ResponseWindow: cfg.Safety.ResponseWindow,
			MissThreshold:  cfg.Safety.MissThreshold,
		}),
		safety.WithNotifier(notifiers),
	}

	if cfg.Redis.Enabled {
		client, err := redisadapter.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error(ctx, "Failed to connect to redis", err)
			s.close(ctx)
			return nil, err
		}
		s.redis = client
		monitorOpts = append(monitorOpts, safety.WithEventSink(redisadapter.NewSafetyFeed(client, log)))
	}

	rides := ride.NewRideService(repo, log, rideOpts...)

	s.connHub = ws.NewConnHub(log)
	riders := wshandler.NewRiderHub(s.connHub, log)
	rides.Subscribe(riders.OnStatusChange)

	monitorOpts = append(monitorOpts, safety.WithPrompter(riders))
	s.monitor = safety.NewMonitor(repo, rides, log, monitorOpts...)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, log)

	httpServer, err := server.New(cfg.HTTP, rides, s.monitor, riders, tokens, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}
	s.httpServer = httpServer

	return s, nil
}

func (s *RideSafetyService) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.httpServer.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info(wrap.WithAction(context.WithoutCancel(gctx), "shutdown"), "shutting down application")
		s.close(context.WithoutCancel(gctx))
		return nil
	})

	s.log.Info(ctx, "ride safety service started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	s.log.Info(ctx, "ride safety service closed")
	return nil
}

// close releases resources in reverse dependency order.
func (s *RideSafetyService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.monitor != nil {
		s.monitor.Close()
	}

	if s.connHub != nil {
		s.connHub.Close()
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis", "error", err.Error())
		}
	}
}
