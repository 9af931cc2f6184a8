package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/config"
	"github.com/lumivian/receptionist/backend/internal/handler"
	clinicHandler "github.com/lumivian/receptionist/backend/internal/handler/clinic"
	"github.com/lumivian/receptionist/backend/internal/metrics"
	"github.com/lumivian/receptionist/backend/internal/middleware"
	"github.com/lumivian/receptionist/backend/internal/model/clinic"
	"github.com/lumivian/receptionist/backend/internal/service/booking"
	"github.com/lumivian/receptionist/backend/internal/service/chat"
	"github.com/lumivian/receptionist/backend/internal/service/voice"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		klog.V(1).InfoS("no .env file loaded, using process environment", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		klog.Fatalf("failed to load configuration: %v", err)
	}

	info, err := clinic.LoadProfile(cfg.Dialogue.ClinicProfile)
	if err != nil {
		klog.Fatalf("failed to load clinic profile: %v", err)
	}

	rec := metrics.New()

	store, closeStore := openStore(ctx, cfg.Store)
	defer closeStore()

	// The appointment book is optional; the receptionist keeps working without it.
	var bookings *booking.Service
	var bookingLister clinicHandler.BookingLister
	if db, err := booking.InitDB(cfg.Database.Type, cfg.Database.DSN); err != nil {
		klog.ErrorS(err, "appointment book unavailable, bookings will not be recorded", "type", cfg.Database.Type)
	} else {
		bookings = booking.NewService(booking.NewRepository(db))
		bookingLister = bookings
		klog.InfoS("appointment book ready", "type", cfg.Database.Type)
	}

	opts := chat.Options{
		Clinic:     info,
		ReplyDelay: cfg.Dialogue.ReplyDelay,
		Metrics:    rec,
	}
	if bookings != nil {
		opts.Bookings = bookings
	}
	chatService := chat.NewService(store, opts)
	defer chatService.Close()

	voiceSimulator := voice.NewSimulator(chatService, cfg.Dialogue.VoiceTimeout, rec)
	defer voiceSimulator.Close()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled() {
		limitOpts := middleware.DefaultRateLimiterOptions()
		limitOpts.Limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		limitOpts.Burst = cfg.RateLimit.Burst
		limiter = middleware.NewRateLimiter(rec, limitOpts)
	}

	router := handler.NewRouter(chatService, voiceSimulator, bookingLister, rec, limiter)

	startServer(ctx, cfg.Server, router)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (chat.Store, func()) {
	if cfg.Kind != "redis" {
		klog.InfoS("using in-memory conversation store")
		return chat.NewMemoryStore(), func() {}
	}

	redisStore, err := chat.NewRedisStore(ctx, chat.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		klog.Fatalf("failed to connect conversation store: %v", err)
	}
	klog.InfoS("using redis conversation store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return redisStore, func() {
		if err := redisStore.Close(); err != nil {
			klog.ErrorS(err, "close redis store")
		}
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		// open event streams end when the process is signalled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	klog.InfoS("receptionist backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		klog.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
