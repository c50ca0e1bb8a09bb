package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/config"
	"github.com/iliyamo/theater-statement/internal/database"
	"github.com/iliyamo/theater-statement/internal/handler"
	"github.com/iliyamo/theater-statement/internal/queue"
	"github.com/iliyamo/theater-statement/internal/repository"
	"github.com/iliyamo/theater-statement/internal/router"
	queue_publisher "github.com/iliyamo/theater-statement/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.Env != "prod" {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}

	builder, err := cfg.Statement.Builder()
	if err != nil {
		log.WithError(err).Fatal("statement configuration")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("database migration")
	}

	var events handler.EventPublisher
	if cfg.Statement.EventsEnabled {
		events = queue_publisher.New(cfg.AMQP)
		consumer := &queue.Consumer{URL: cfg.AMQP.URL, Queue: cfg.AMQP.Queue, Dir: "logs"}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("statement consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	plays := repository.NewPlayRepo(db)
	invoices := repository.NewInvoiceRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, db)
	router.RegisterStatements(e, router.Handlers{
		Statements: handler.NewStatementHandler(builder, plays, invoices, events),
		Plays:      handler.NewPlayHandler(plays),
		Invoices:   handler.NewInvoiceHandler(invoices),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.WithFields(log.Fields{"addr": addr, "env": cfg.Env, "currency": builder.Locale().Code}).Info("listening")
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	log.Info("server stopped")
}
