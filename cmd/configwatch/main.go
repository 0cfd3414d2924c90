package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Alwanly/service-config-client/internal/config"
	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/pubsub"
	"github.com/Alwanly/service-config-client/pkg/remoteconfig"
	"github.com/Alwanly/service-config-client/pkg/retry"
)

func main() {
	log, err := logger.NewLoggerFromEnv("configwatch")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting configuration watcher")

	cfg, err := config.LoadWatchConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	log.Info("configuration loaded",
		logger.Strings("endpoints", cfg.Endpoints),
		logger.Duration("poll_interval", cfg.PollInterval),
		logger.Duration("request_timeout", cfg.RequestTimeout),
	)

	fetcher := remoteconfig.NewHTTPFetcher(
		remoteconfig.WithTimeout(cfg.RequestTimeout),
		remoteconfig.WithRetry(retry.Config{
			MaxRetries:     cfg.FetchMaxRetries,
			InitialBackoff: cfg.FetchInitialBackoff,
			MaxBackoff:     cfg.FetchMaxBackoff,
			Multiplier:     cfg.FetchBackoffMultiplier,
			Jitter:         true,
		}),
		remoteconfig.WithFetchLogger(log),
	)

	client, err := remoteconfig.New(remoteconfig.Options[map[string]any]{
		Endpoints:  cfg.Endpoints,
		Interval:   cfg.PollInterval,
		Initialize: true,
		Fetcher:    fetcher,
		Logger:     log,
		Callback: func(ctx context.Context, event remoteconfig.Event[map[string]any]) (*map[string]any, error) {
			switch event.Status {
			case remoteconfig.StatusError:
				log.WithError(event.Err).Error("configuration refresh failed")
			case remoteconfig.StatusUpdated:
				log.Info("configuration changed",
					logger.String(logger.FieldEndpoint, event.Endpoint),
					logger.Any("configuration", event.Configuration),
				)
			default:
				log.Info("configuration refreshed",
					logger.String(logger.FieldEndpoint, event.Endpoint),
					logger.String(logger.FieldStatus, string(event.Status)),
				)
			}
			return nil, nil
		},
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create configuration client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Redis != nil {
		sub, err := pubsub.NewRedisPubSub(pubsub.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.WithError(err).Error("failed to initialize Redis pub/sub, continuing in poll-only mode")
		} else {
			defer sub.Close()

			messages, err := sub.Subscribe(ctx, pubsub.ConfigUpdatesChannel)
			if err != nil {
				log.WithError(err).Fatal("failed to subscribe to configuration updates")
			}

			// push-assisted refresh: a published ETag triggers an immediate
			// fetch instead of waiting for the next poll
			g.Go(func() error {
				for {
					select {
					case <-gCtx.Done():
						return nil
					case m, ok := <-messages:
						if !ok {
							return nil
						}
						log.Info("configuration update notification received",
							logger.String(logger.FieldETag, m.Payload),
						)
						if _, err := client.Refresh(gCtx); err != nil {
							log.WithError(err).Error("push-triggered refresh failed")
						}
					}
				}
			})
		}
	}

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigCh:
			log.Info("received shutdown signal", logger.String("signal", sig.String()))
		case <-gCtx.Done():
			log.Info("context cancelled")
		}

		client.Pause()
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("configuration watcher stopped with error")
		os.Exit(1)
	}

	log.Info("configuration watcher stopped gracefully")
}
