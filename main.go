package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"duoboard/alerts"
	"duoboard/api"
	"duoboard/notify"
	"duoboard/storage"
	"duoboard/store"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.New()
	logger.SetLevel(log.GetLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := buildBackend(logger)
	st := store.New(ctx, backend, logger)

	notifier := buildNotifier(logger)
	scanner := alerts.NewScanner(st, notifier, logger)
	if v := os.Getenv("ALERT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid ALERT_INTERVAL: %v", err)
		}
		scanner.SetInterval(d)
	}
	go scanner.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	api.Register(e, st, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown")
		}
	}()

	if err := e.Start(listenAddr); err != nil {
		logger.WithError(err).Info("server stopped")
	}
}

// buildBackend picks the persistence backend: Azure Table Storage when a
// connection string is configured, a local data directory otherwise. A
// Redis cache layer wraps either when REDIS_CONNECTION_STRING is set.
func buildBackend(logger *log.Logger) storage.Backend {
	var backend storage.Backend

	if connStr := os.Getenv("STORAGE_CONNECTION_STRING"); connStr != "" {
		tableName := os.Getenv("BOARD_TABLE")
		if tableName == "" {
			log.Fatal("BOARD_TABLE required with STORAGE_CONNECTION_STRING")
		}
		tb, err := storage.NewTableBackend(connStr, tableName, os.Getenv("BOARD_PARTITION"))
		if err != nil {
			log.Fatalf("table storage: %v", err)
		}
		backend = tb
		logger.WithField("table", tableName).Info("using table storage")
	} else {
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		fb, err := storage.NewFileBackend(dir)
		if err != nil {
			log.Fatalf("file storage: %v", err)
		}
		backend = fb
		logger.WithField("dir", dir).Info("using file storage")
	}

	if rc := redisClient(); rc != nil {
		ttl := time.Hour
		if v := os.Getenv("CACHE_TTL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				log.Fatalf("invalid CACHE_TTL: %v", err)
			}
			ttl = d
		}
		backend = storage.NewCache(backend, rc, ttl)
		logger.Info("redis cache enabled")
	}
	return backend
}

// buildNotifier picks the alert sink: the storage queue when ALERT_QUEUE
// is configured, redis pub/sub when a redis connection exists, otherwise
// the application log.
func buildNotifier(logger *log.Logger) notify.Notifier {
	if queueName := os.Getenv("ALERT_QUEUE"); queueName != "" {
		connStr := os.Getenv("STORAGE_CONNECTION_STRING")
		if connStr == "" {
			log.Fatal("ALERT_QUEUE requires STORAGE_CONNECTION_STRING")
		}
		qn, err := notify.NewQueue(connStr, queueName)
		if err != nil {
			log.Fatalf("alert queue: %v", err)
		}
		logger.WithField("queue", queueName).Info("alerts via storage queue")
		return qn
	}
	if rc := redisClient(); rc != nil {
		channel := os.Getenv("ALERT_CHANNEL")
		if channel == "" {
			channel = "duoboard:alerts"
		}
		logger.WithField("channel", channel).Info("alerts via redis pub/sub")
		return notify.NewRedis(rc, channel)
	}
	return notify.Log{Logger: logger}
}

// redisClient builds a client from REDIS_CONNECTION_STRING, accepting
// either a redis URL or the comma-separated host,password=...,ssl=true
// form. Returns nil when unconfigured.
func redisClient() *redis.Client {
	connStr := os.Getenv("REDIS_CONNECTION_STRING")
	if connStr == "" {
		return nil
	}
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		parts := strings.Split(connStr, ",")
		opts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				opts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					opts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	return redis.NewClient(opts)
}
