package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/aggregator"
	"github.com/Anuragp22/axiom-sub000/internal/bot"
	"github.com/Anuragp22/axiom-sub000/internal/cache"
	"github.com/Anuragp22/axiom-sub000/internal/config"
	"github.com/Anuragp22/axiom-sub000/internal/fetch"
	"github.com/Anuragp22/axiom-sub000/internal/handler"
	"github.com/Anuragp22/axiom-sub000/internal/provider"
	"github.com/Anuragp22/axiom-sub000/internal/publisher"
	"github.com/Anuragp22/axiom-sub000/internal/ws"
	"github.com/Anuragp22/axiom-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/Anuragp22/axiom-sub000/docs"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	dialRedisFunc     = cache.Dial
	initTracerFunc    = tracing.InitTracer
	newSourcesFunc    = buildSources
	newServiceFunc    = aggregator.NewService
	newPublisherFunc  = publisher.New
	startPublisher    = func(p *publisher.Publisher, ctx context.Context) { go p.Start(ctx) }
	startTelegramBot  = bot.StartTelegramBot
	newHandlerFunc    = handler.New
	newRouterFunc     = gin.Default
	setupSignalNotify = signal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
	startHTTPServer   = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTP      = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func buildSources(tracer trace.Tracer, cfg *config.Config) []provider.TokenSource {
	return []provider.TokenSource{
		provider.NewDexScreenerClient(tracer, fetch.Config{
			BaseURL:        cfg.DexScreenerBaseURL,
			Timeout:        time.Duration(cfg.DexScreenerTimeoutSecs) * time.Second,
			MaxRetries:     cfg.DexScreenerMaxRetries,
			RetryBaseDelay: time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		}),
		provider.NewGeckoTerminalClient(tracer, fetch.Config{
			BaseURL:        cfg.GeckoTerminalBaseURL,
			Timeout:        time.Duration(cfg.GeckoTerminalTimeoutSecs) * time.Second,
			MaxRetries:     cfg.GeckoTerminalMaxRetries,
			RetryBaseDelay: time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		}),
	}
}

// @title           Token Aggregator API
// @version         1.0
// @description     Multi-provider Solana token aggregation service with cached views and WebSocket deltas.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Snapshot cache: Redis when reachable, in-memory otherwise.
	var store cache.Store
	if client, err := dialRedisFunc(ctx, cfg.RedisURL); err != nil {
		log.Printf("Redis unavailable, using in-memory cache: %v", err)
		memory := cache.NewMemoryStore()
		go memory.StartJanitor(ctx, time.Minute)
		store = memory
	} else {
		store = cache.NewRedisStore(client, cfg.CachePrefix)
	}
	snapshots := cache.NewSnapshotCache(store)

	// Source adapters and aggregation service
	sources := newSourcesFunc(tracer, cfg)
	tokens := newServiceFunc(tracer, sources, snapshots, aggregator.Config{
		ListTTL:    time.Duration(cfg.ListCacheTTLSecs) * time.Second,
		SearchTTL:  time.Duration(cfg.SearchCacheTTLSecs) * time.Second,
		AddressTTL: time.Duration(cfg.AddressCacheTTLSecs) * time.Second,
	})

	// Push-fanout hub and delta publisher
	hub := ws.NewHub()
	go hub.Run(ctx)

	pub := newPublisherFunc(tracer, tokens, hub, publisher.Config{
		PriceInterval:     time.Duration(cfg.PriceIntervalSecs) * time.Second,
		DiscoveryInterval: time.Duration(cfg.DiscoveryIntervalSecs) * time.Second,
		DeltaThresholdPct: cfg.DeltaThresholdPct,
	})
	startPublisher(pub, ctx)

	// Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBot(tokens)

	// Handlers and routes
	h := newHandlerFunc(tracer, tokens, hub, cfg.AdminAPIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("token-aggregator"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServer(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTP(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
