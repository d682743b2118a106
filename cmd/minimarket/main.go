package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	cartcache "github.com/mariwi1503/mini-market-pondok/internal/cart/cache"
	cartrepo "github.com/mariwi1503/mini-market-pondok/internal/cart/repository"
	cartservice "github.com/mariwi1503/mini-market-pondok/internal/cart/service"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
	checkoutservice "github.com/mariwi1503/mini-market-pondok/internal/checkout/service"
	"github.com/mariwi1503/mini-market-pondok/internal/httpapi"
	"github.com/mariwi1503/mini-market-pondok/internal/notify"
	orderrepo "github.com/mariwi1503/mini-market-pondok/internal/order/repository"
	"github.com/mariwi1503/mini-market-pondok/internal/payment"
	sessionrepo "github.com/mariwi1503/mini-market-pondok/internal/session/repository"
	sessionservice "github.com/mariwi1503/mini-market-pondok/internal/session/service"
)

type Config struct {
	HTTPPort        string
	CatalogDBPath   string
	HistoryDBPath   string
	UsersDBPath     string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "data/catalog.db"),
		HistoryDBPath:   getEnv("HISTORY_DB_PATH", "data/history.db"),
		UsersDBPath:     getEnv("USERS_DB_PATH", "data/users.db"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "minimarket"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "minimarket_orders"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	for _, p := range []string{cfg.CatalogDBPath, cfg.HistoryDBPath, cfg.UsersDBPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			log.Fatalf("failed to create data directory for %s: %v", p, err)
		}
	}

	// Catalog (sqlite with seeded data)
	catalog, err := catalogrepo.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer catalog.Close()
	if err := catalog.RunMigrations(); err != nil {
		log.Fatalf("failed to migrate catalog: %v", err)
	}

	// Accounts and session tokens
	users, err := sessionrepo.NewSQLiteStore(cfg.UsersDBPath)
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}
	defer users.Close()
	if err := users.RunMigrations(); err != nil {
		log.Fatalf("failed to migrate user store: %v", err)
	}
	sessions := sessionservice.NewSessionService(users)
	seedDemoUser(ctx, sessions)

	// Cart storage and cache
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.Printf("failed to disconnect MongoDB: %v", err)
		}
	}()
	if err := cartrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("failed to create cart indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to ping Redis: %v", err)
	}

	cart := cartservice.NewCartService(
		cartrepo.NewMongoRepository(mongoDB),
		cartcache.NewRedisCache(redisClient),
		catalog,
	)

	// Remote order store (postgres) and the always-local history
	store, err := orderrepo.NewRepository(&orderrepo.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		log.Fatalf("failed to connect to order store: %v", err)
	}
	defer store.Close()
	if err := store.RunMigrations(); err != nil {
		log.Fatalf("failed to migrate order store: %v", err)
	}

	history, err := orderrepo.NewHistoryRepository(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("failed to open order history: %v", err)
	}
	defer history.Close()
	if err := history.RunMigrations(); err != nil {
		log.Fatalf("failed to migrate order history: %v", err)
	}

	notifier := notify.NewOrderConfirmationPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
	defer notifier.Close()

	gateway := payment.NewSimulatedGateway(payment.RandomOutcome{})

	checkout := checkoutservice.NewCheckoutService(cart, catalog, gateway, store, history, notifier)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Products: httpapi.NewProductHandler(catalog, cfg.RequestTimeout),
		Cart:     httpapi.NewCartHandler(cart, cfg.RequestTimeout),
		Checkout: httpapi.NewCheckoutHandler(checkout, cfg.RequestTimeout),
		Orders:   httpapi.NewOrdersHandler(history, cfg.RequestTimeout),
		Auth:     httpapi.NewAuthHandler(sessions, cfg.RequestTimeout),
		Sessions: sessions,
		Timeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("mini market server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// seedDemoUser registers the demo account on first boot so the shop is
// usable out of the box. An already-taken phone means a previous boot
// seeded it.
func seedDemoUser(ctx context.Context, sessions *sessionservice.SessionService) {
	_, err := sessions.Register(ctx, "Ahmad Santri", "081234567890", "santri123")
	if err != nil && !errors.Is(err, sessionservice.ErrPhoneTaken) {
		log.Printf("failed to seed demo user: %v", err)
	}
}
