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
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	statscache "fleet-schedule-backend/internal/adapter/cache"
	httpadp "fleet-schedule-backend/internal/adapter/http"
	mw "fleet-schedule-backend/internal/adapter/middleware"
	"fleet-schedule-backend/internal/adapter/repository/mysql"
	"fleet-schedule-backend/internal/config"
	"fleet-schedule-backend/internal/infrastructure/cache"
	"fleet-schedule-backend/internal/infrastructure/db"
	"fleet-schedule-backend/internal/infrastructure/lock"
	"fleet-schedule-backend/internal/logging"
	fleetUC "fleet-schedule-backend/internal/usecase/fleet"
	loanUC "fleet-schedule-backend/internal/usecase/loan"
	paymentUC "fleet-schedule-backend/internal/usecase/payment"
	"fleet-schedule-backend/internal/usecase/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("logger")
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg, log, os.Args[2:]); err != nil {
			log.WithError(err).Fatal("migrate")
		}
		return
	}

	if cfg.MigrateOnStart {
		if err := db.MigrateUp(cfg.MySQLDSN(), log); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.WithError(err).Fatal("open mysql")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("mysql pool")
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(context.Background(), cache.Options{
		Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}
	defer rdb.Close()

	// repositories + unit of work
	repos := mysql.Repos(gdb)
	tx := mysql.NewGormUoW(gdb)
	stats := statscache.NewStatsCache(rdb, cfg.StatsCacheTTL())
	locker := lock.NewRedisLocker(rdb, cfg.PaymentLockTTL(), cfg.PaymentLockWait())

	// usecases
	fleets := fleetUC.NewUsecase(repos.Companies, repos.Vehicles, stats, log)
	loans := loanUC.NewUsecase(repos.Loans, repos.Companies, tx, stats, log)
	payments := paymentUC.NewUsecase(repos.Loans, repos.Payments, repos.Companies, tx, locker, stats, log)
	schedules := schedule.NewService(repos.Companies, repos.Vehicles, repos.Loans, repos.Payments, cfg.Policy(), stats, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestID(), logging.RequestLogger(log), middleware.Recover())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Pinger{
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Fleet:     httpadp.NewFleetHandler(fleets, log),
		Loans:     httpadp.NewLoanHandler(loans, log),
		Payments:  httpadp.NewPaymentHandler(payments, log),
		Schedules: httpadp.NewScheduleHandler(schedules, log, nil),
	}, mw.Auth(cfg.JWTSecret), mw.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("stopped")
}
