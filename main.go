package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/gambit/agent"
	"github.com/nstehr/gambit/config"
	"github.com/nstehr/gambit/ipc"
	"github.com/nstehr/gambit/loader"
	"github.com/nstehr/gambit/logger"
	"github.com/nstehr/gambit/metrics"
)

const banner = `
  ____    _    __  __ ____ ___ _____
 / ___|  / \  |  \/  | __ )_ _|_   _|
| |  _  / _ \ | |\/| |  _ \| |  | |
| |_| |/ ___ \| |  | | |_) | |  | |
 \____/_/   \_\_|  |_|____/___| |_|

Rule-Driven Battle Decisions`

func main() {
	cfg := config.Load()
	logger.Setup(cfg)

	fmt.Println(banner)

	slog.Info("starting gambit", "environment", cfg.Environment, "rules", cfg.RulesPath, "fallback", cfg.Fallback)

	rulebook, err := agent.NewRulebook(cfg.RulesPath, loader.Policy{Fallback: cfg.Fallback})
	if err != nil {
		slog.Error("failed to load rules", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}
	collector := metrics.NewCollector(nil)
	rulebook.Engine().SetRecorder(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RulesPath != "" {
		watcher, err := loader.NewWatcher(cfg.RulesPath, loader.DefaultDebounce)
		if err != nil {
			slog.Error("failed to watch rule file", "path", cfg.RulesPath, "error", err)
			os.Exit(1)
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				_, err := rulebook.Reload("")
				return err
			})
			if err != nil {
				slog.Error("rule file watcher failed", "error", err)
			}
		}()
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, collector)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		slog.Error("failed to clean up socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}
	defer os.Remove(cfg.SocketPath)
	defer listener.Close()

	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(conn, rulebook)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func handleConn(conn net.Conn, rulebook *agent.Rulebook) {
	c := ipc.NewConnection(conn, nil)
	agent.New(c, rulebook).Register()
	c.ReadLoop()
}

func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server failed", "addr", addr, "error", err)
	}
}
