package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/config"
	"github.com/mfuentes/biblioteca-api/internal/database"
	"github.com/mfuentes/biblioteca-api/internal/deletion"
	"github.com/mfuentes/biblioteca-api/internal/handler"
	"github.com/mfuentes/biblioteca-api/internal/middleware"
	"github.com/mfuentes/biblioteca-api/internal/queue"
	"github.com/mfuentes/biblioteca-api/internal/repository"
	"github.com/mfuentes/biblioteca-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate
	// limiting without affecting the rest of the API.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	books := repository.NewBookRepo(db)
	users := repository.NewUserRepo(db)
	loans := repository.NewLoanRepo(db)
	reservations := repository.NewReservationRepo(db)
	fines := repository.NewFineRepo(db)
	catalog := repository.NewCatalogRepo(db)
	librarians := repository.NewLibrarianRepo(db)
	tokens := repository.NewTokenRepo(db)

	deleter := deletion.NewExecutor(db)

	e := echo.New()
	e.HideBanner = true

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, librarians, tokens), cfg.JWTSecret)
	router.RegisterAPI(e, router.APIHandlers{
		Books:        handler.NewBookHandler(books, deleter),
		Users:        handler.NewUserHandler(users, deleter),
		Loans:        handler.NewLoanHandler(loans),
		Reservations: handler.NewReservationHandler(reservations),
		Fines:        handler.NewFineHandler(fines),
		Catalog:      handler.NewCatalogHandler(catalog),
	}, cfg.JWTSecret, cache, limit)

	// Background consumer that mirrors loan events to logs/loans.log.
	go func() {
		if err := queue.StartLoanConsumer(); err != nil {
			log.Printf("loan consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
