package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/matst80/slask-dashboard/pkg/catalog"
	"github.com/matst80/slask-dashboard/pkg/common"
	"github.com/matst80/slask-dashboard/pkg/messaging"
	"github.com/matst80/slask-dashboard/pkg/server"
	"github.com/matst80/slask-dashboard/pkg/storage"
	"github.com/matst80/slask-dashboard/pkg/tracking"
	"github.com/matst80/slask-dashboard/pkg/types"

	amqp "github.com/rabbitmq/amqp091-go"
)

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Ignoring invalid %s=%q", key, v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Ignoring invalid %s=%q", key, v)
	}
	return fallback
}

var (
	listenAddr   = env("LISTEN_ADDR", ":8080")
	mcpAddr      = env("MCP_ADDR", ":8082")
	catalogUrl   = env("CATALOG_URL", catalog.DefaultURL)
	catalogLimit = envInt("CATALOG_LIMIT", catalog.DefaultLimit)
	redisUrl     = os.Getenv("REDIS_URL")
	redisPwd     = os.Getenv("REDIS_PASSWORD")
	redisDb      = envInt("REDIS_DB", 0)
	rabbitUrl    = os.Getenv("RABBIT_HOST")
	dataDir      = os.Getenv("DATA_DIR")
	sessionTTL   = envDuration("SESSION_TTL", server.DefaultSessionTTL)
	cacheTTL     = envDuration("CATALOG_CACHE_TTL", 10*time.Minute)
)

type closer func() error

func selectStorage() (types.KeyValueStorage, closer) {
	switch {
	case redisUrl != "":
		log.Printf("Storing selections in redis at %s", redisUrl)
		rs := storage.NewRedisStorage(redisUrl, redisPwd, redisDb, "dashboard:", 30*24*time.Hour)
		return rs, rs.Close
	case dataDir != "":
		log.Printf("Storing selections on disk in %s", dataDir)
		return storage.NewDiskStorage("selections", dataDir), nil
	}
	log.Printf("No REDIS_URL or DATA_DIR set, selections are kept in memory")
	return storage.NewMemoryStorage(), nil
}

func newClient() (*catalog.Client, func()) {
	if redisUrl == "" {
		return catalog.NewClient(catalogUrl), func() {}
	}
	cache := catalog.NewRedisCache(redisUrl, redisPwd, redisDb, cacheTTL)
	return catalog.NewClient(catalogUrl, catalog.WithCache(cache)), cache.Close
}

func connectCatalogChanges(conn *amqp.Connection, app *server.App) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := messaging.DefineTopic(ch, messaging.GlobalPrefix, messaging.CatalogChanged); err != nil {
		ch.Close()
		return err
	}
	return messaging.ListenToTopic(ch, messaging.GlobalPrefix, messaging.CatalogChanged, func(change messaging.CatalogChange) error {
		log.Printf("Catalog changed (%s), reloading", change.Source)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return app.CatalogChanged(ctx)
	})
}

func main() {
	kv, closeStorage := selectStorage()
	client, closeCache := newClient()
	loader := catalog.NewLoader(client, catalogLimit)

	opts := server.Options{
		Loader:     loader,
		Client:     client,
		Storage:    kv,
		SessionTTL: sessionTTL,
	}

	var rabbitTracking *tracking.RabbitTracking
	if rabbitUrl != "" {
		t, err := tracking.NewRabbitTracking(rabbitUrl, "dashboard")
		if err != nil {
			log.Printf("Failed to connect tracking to RabbitMQ: %v", err)
		} else {
			rabbitTracking = t
			opts.Tracking = t
		}
	} else {
		log.Printf("RABBIT_HOST not set, tracking disabled")
	}

	app := server.NewApp(opts)

	var conn *amqp.Connection
	if rabbitUrl != "" {
		c, err := amqp.DialConfig(rabbitUrl, amqp.Config{
			Properties: amqp.NewConnectionProperties(),
		})
		if err != nil {
			log.Printf("Failed to connect to RabbitMQ: %v", err)
		} else if err := connectCatalogChanges(c, app); err != nil {
			log.Printf("Failed to listen for catalog changes: %v", err)
			c.Close()
		} else {
			conn = c
			log.Printf("Listening for catalog changes")
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := loader.Load(ctx); err != nil {
			log.Printf("Initial catalog load failed: %v", err)
			return
		}
		log.Printf("Loaded %d products from %s", len(loader.State().Products), catalogUrl)
	}()

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go app.Sessions().Run(cleanupCtx, time.Minute)

	go func() {
		if err := app.StartMcpServer(mcpAddr); err != nil {
			log.Printf("MCP server stopped: %v", err)
		}
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   20 * time.Second,
		Hook:       5 * time.Second,
	})

	common.RunServersWithShutdown(
		[]common.NamedServer{
			{Name: "dashboard", Server: common.NewServerWithTimeouts(listenAddr, app.Handler(), timeouts)},
		},
		timeouts.Shutdown,
		timeouts.Hook,
		func(ctx context.Context) error {
			stopCleanup()
			app.Close()
			return nil
		},
		func(ctx context.Context) error {
			if rabbitTracking != nil {
				rabbitTracking.Close()
			}
			if conn != nil {
				return conn.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			closeCache()
			if closeStorage != nil {
				return closeStorage()
			}
			return nil
		},
	)
}
