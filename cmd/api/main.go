package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"ong-shelter-api/internal/adapters/auth/jwtauth"
	"ong-shelter-api/internal/adapters/messaging"
	"ong-shelter-api/internal/adapters/payments/stripe"
	"ong-shelter-api/internal/adapters/storage/postgres"
	"ong-shelter-api/internal/config"
	"ong-shelter-api/internal/platform/logger"
	"ong-shelter-api/internal/platform/pix"
	"ong-shelter-api/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	opts := router.Options{
		Log:        log,
		RateLimit:  cfg.RateLimit,
		RateWindow: cfg.RateWindow,
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory repositories", nil)
	}

	if cfg.JWTSecret != "" {
		j := jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)
		opts.AuthVerifier = j
		opts.TokenIssuer = j
	} else {
		log.Warn("JWT_SECRET not set, staff auth in dev mode", nil)
	}

	if cfg.RedisAddr != "" {
		opts.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer opts.Redis.Close()
	}

	if cfg.AMQPURL != "" {
		pub, err := messaging.NewRabbitMQPublisher(cfg.AMQPURL, cfg.AMQPQueue, config.NewCircuitBreaker("rabbitmq"))
		if err != nil {
			// Las notificaciones son secundarias: el proceso arranca igual.
			log.Warn("rabbitmq unavailable, notifications disabled", map[string]any{"error": err.Error()})
		} else {
			defer pub.Close()
			opts.Publisher = pub
		}
	}

	if cfg.PixKey != "" {
		opts.Pix = &pix.Generator{
			Key:          cfg.PixKey,
			MerchantName: cfg.PixMerchantName,
			MerchantCity: cfg.PixMerchantCity,
		}
	}

	if cfg.StripeSecretKey != "" {
		sc, err := stripe.NewClient(stripe.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			SuccessURL:    cfg.StripeSuccessURL,
			CancelURL:     cfg.StripeCancelURL,
		}, config.NewCircuitBreaker("stripe"))
		if err != nil {
			log.Error("stripe client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Checkout = sc
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts.Metrics = reg

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}
