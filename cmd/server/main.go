// Command starosta-devserver serves an in-memory stand-in of the remote
// StarostaHub API for local development of the client.
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

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/crypto"
	"github.com/and161185/starostahub/internal/fakeremote"
	"github.com/and161185/starostahub/internal/logging"
	"github.com/and161185/starostahub/internal/model"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses flags, seeds demo data and serves until SIGINT/SIGTERM.
func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (random when empty)")
	accessTTL := flag.Duration("access-ttl", 15*time.Minute, "access token TTL")
	seed := flag.Bool("seed", true, "create demo accounts, a group and its schedule")
	dev := flag.Bool("dev", false, "console logging at debug level")
	flag.Parse()

	level := "info"
	if *dev {
		level = "debug"
	}
	logger := logging.Must(level, *dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	backend := fakeremote.NewBackend(fakeremote.Options{
		Log:       logger,
		Key:       []byte(*jwtKey),
		AccessTTL: *accessTTL,
		Hash:      crypto.DefaultParams,
	})
	if *seed {
		seedDemo(backend, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           backend.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", lis.Addr().String()))
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

// seedDemo creates a led group with one member, a free student and a weekly class.
func seedDemo(b *fakeremote.Server, log *zap.Logger) {
	leader := b.AddUser("starosta@uni.ua", "starosta", "Olena", "Koval", model.RoleStarosta)
	member := b.AddUser("student@uni.ua", "student", "Ivan", "Petrenko", model.RoleStudent)
	b.AddUser("free@uni.ua", "student", "Taras", "Bondar", model.RoleStudent)
	group := b.AddGroup("KN-21", leader, member)

	monday := time.Now()
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, 1)
	}
	until := monday.AddDate(0, 2, 0).Format("2006-01-02")
	b.AddEvent(group, model.Event{
		Name:           "Algorithms",
		URL:            "https://meet.example.org/algorithms",
		Date:           monday.Format("2006-01-02"),
		Time:           "10:00",
		Recurring:      true,
		RecurringUntil: &until,
		IsActive:       true,
	})
	log.Info("seeded demo data",
		zap.Stringer("group_id", group),
		zap.String("leader", "starosta@uni.ua"),
		zap.String("member", "student@uni.ua"),
	)
}
