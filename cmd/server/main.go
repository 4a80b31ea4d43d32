package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/config"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/database"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/handler"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/middleware"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/queue"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/repository"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/router"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/schedule"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage := openStorage(ctx, cfg)
	calc, err := schedule.NewCalculator(cfg.Capacity, cfg.HorizonDays, cfg.Location)
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	repo, err := repository.NewReservationRepo(ctx, storage, calc)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	h := handler.NewReservationHandler(repo, nil, cache)
	if cfg.RabbitURL != "" {
		pub, err := service.NewPublisher(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			log.Printf("events: disabled: %v", err)
		} else {
			defer func() { _ = pub.Close() }()
			h.Events = pub
		}
		if cfg.ConsumerEnabled {
			c := &queue.Consumer{URL: cfg.RabbitURL, Exchange: cfg.Exchange, LogDir: cfg.LogDir}
			go func() {
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("reservation-consumer: stopped: %v", err)
				}
			}()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	router.RegisterRoutes(e)
	router.RegisterReservations(e, h, cache, limit)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
		log.Printf("endpoints: GET /classes, GET /reservations?userName=..., POST /reserve, DELETE /cancel/:id")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := repo.Close(shutdownCtx); err != nil {
		log.Printf("store: final save failed: %v", err)
	}
}

// openStorage returns the durable collaborator selected by STORE_DRIVER.
// Any failure here is fatal.
func openStorage(ctx context.Context, cfg config.Config) repository.Storage {
	if cfg.StoreDriver != config.DriverMySQL {
		return database.NewFileStorage(cfg.DataFile)
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	s := database.NewMySQLStorage(db)
	if err := s.Migrate(ctx); err != nil {
		log.Fatalf("mysql migrate: %v", err)
	}
	return s
}
