package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// ShutdownHook runs after a termination signal, before the servers stop.
// A failing hook is logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

type NamedServer struct {
	Name   string
	Server *http.Server
}

// RunServersWithShutdown starts every server and blocks until SIGINT or
// SIGTERM. Hooks then run in order, each bounded by hookTimeout, and the
// servers are shut down within what is left of shutdownTimeout.
func RunServersWithShutdown(servers []NamedServer, shutdownTimeout, hookTimeout time.Duration, hooks ...ShutdownHook) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	WaitAndShutdown(stop, servers, shutdownTimeout, hookTimeout, hooks...)
}

// WaitAndShutdown is RunServersWithShutdown with the stop channel supplied
// by the caller.
func WaitAndShutdown(stop <-chan os.Signal, servers []NamedServer, shutdownTimeout, hookTimeout time.Duration, hooks ...ShutdownHook) {
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	for _, s := range servers {
		go func(s NamedServer) {
			log.Printf("starting %s on %s", s.Name, s.Server.Addr)
			if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("%s listen error: %v", s.Name, err)
			}
		}(s)
	}

	<-stop
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	for _, s := range servers {
		if err := s.Server.Shutdown(ctx); err != nil {
			log.Printf("%s graceful shutdown failed: %v", s.Name, err)
		} else {
			log.Printf("%s shutdown complete", s.Name)
		}
	}
}

type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

// LoadTimeoutConfig overrides defaults from READ_HEADER_TIMEOUT,
// READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT and
// HOOK_TIMEOUT, each a whole number of seconds.
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	apply := func(curr *time.Duration, env string) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*curr = time.Duration(n) * time.Second
			}
		}
	}
	apply(&defaults.ReadHeader, "READ_HEADER_TIMEOUT")
	apply(&defaults.Read, "READ_TIMEOUT")
	apply(&defaults.Write, "WRITE_TIMEOUT")
	apply(&defaults.Idle, "IDLE_TIMEOUT")
	apply(&defaults.Shutdown, "SHUTDOWN_TIMEOUT")
	apply(&defaults.Hook, "HOOK_TIMEOUT")
	return defaults
}

func NewServerWithTimeouts(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}
