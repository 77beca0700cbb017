package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ratewatch/internal/alerts"
	"ratewatch/internal/config"
	"ratewatch/internal/fetcher"
	"ratewatch/internal/handlers"
	"ratewatch/internal/limiter"
	"ratewatch/internal/logger"
	"ratewatch/internal/notify"
	"ratewatch/internal/ratecache"
	"ratewatch/internal/ratesource"
	"ratewatch/internal/resolver"
	"ratewatch/internal/store"
	"ratewatch/internal/tracing"
)

func main() {
	logger.InitLogger()
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("Failed to load configuration", zap.Error(err))
	}

	shutdown, err := tracing.InitTracer()
	if err != nil {
		logger.Log.Warn("Failed to initialize tracer, continuing without", zap.Error(err))
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional redis: shared cache, shared source budget, cross-instance
	// notification channel. Without it everything stays in-process.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	}

	var alertStore store.AlertStore
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL, logger.Log)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer pg.Close()
		alertStore = pg
	} else {
		logger.Log.Warn("PGSQL_URL not set, alerts will not survive a restart")
		alertStore = store.NewMemory()
	}

	sources := []ratesource.Source{
		ratesource.NewFrankfurter(cfg.FrankfurterURL, nil),
		ratesource.NewOpenRates(cfg.OpenRatesURL, nil),
		ratesource.NewCoinGecko(cfg.CoinGeckoURL, nil),
	}

	var sourceLimiter limiter.SourceLimiter = limiter.Unlimited{}
	var rateCache ratecache.Cache = ratecache.NewMemory(cfg.CacheTTL, nil)
	if redisClient != nil {
		sourceLimiter = limiter.NewRedisLimiter(redisClient, cfg.SourceBudgetPerMinute)
		rateCache = ratecache.NewRedis(redisClient, cfg.CacheTTL, logger.Log)
	}

	fallback := fetcher.New(sources, sourceLimiter, cfg.PerSourceTimeout, logger.Log)
	cachedFetcher := ratecache.NewCachedFetcher(rateCache, fallback, logger.Log)
	rateResolver := resolver.New(cachedFetcher, logger.Log)

	hub := notify.NewHub(logger.Log)
	sinks := notify.Multi{notify.LogSink{Logger: logger.Log}}
	if redisClient != nil {
		sinks = append(sinks, notify.NewRedisSink(redisClient, logger.Log))
		sub, err := notify.NewRedisSubscriber(ctx, redisClient, logger.Log)
		if err != nil {
			logger.Log.Fatal("Failed to subscribe to alerts channel", zap.Error(err))
		}
		defer sub.Close()
		go hub.Relay(ctx, sub)
	} else {
		sinks = append(sinks, hub)
	}
	if cfg.KafkaBroker != "" {
		kafkaSink, err := notify.NewKafkaSink(cfg.KafkaBroker, logger.Log)
		if err != nil {
			logger.Log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	evaluator := alerts.NewEvaluator(alertStore, rateResolver, sinks, nil, alerts.EvaluatorConfig{
		MinRecheck:              cfg.MinRecheck,
		DefaultMaxNotifications: cfg.DefaultMaxNotifications,
	}, logger.Log)
	scheduler := alerts.NewScheduler(evaluator, cfg.CheckInterval, nil, logger.Log)
	go scheduler.Run(ctx)

	mux := http.NewServeMux()
	alertsAPI := handlers.NewAlertsAPI(alertStore)
	mux.Handle("/alerts", alertsAPI)
	mux.Handle("/alerts/stream", hub)
	mux.Handle("/alerts/", alertsAPI)
	mux.Handle("/convert", handlers.NewConvertHandler(rateResolver))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Log.Info("ratewatch starting", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
