package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/omarhegazy/matchday/internal/config"
	"github.com/omarhegazy/matchday/internal/database"
	"github.com/omarhegazy/matchday/internal/handler"
	"github.com/omarhegazy/matchday/internal/queue"
	"github.com/omarhegazy/matchday/internal/repository"
	"github.com/omarhegazy/matchday/internal/router"
	"github.com/omarhegazy/matchday/internal/service"
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

	// Redis is optional: rate limiting and response caching degrade to
	// pass-throughs when the client is nil.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	stadiumRepo := repository.NewStadiumRepo(db)
	matchRepo := repository.NewMatchRepo(db)
	seatRepo := repository.NewSeatRepo(db)

	publisher := queue.NewPublisher()
	reservations := service.NewReservationService(matchRepo, seatRepo, publisher,
		cfg.CancellationWindowDays, cfg.SeatLabelMaxLen)

	// The audit consumer tails the seat-reserved exchange and keeps its
	// own reconnect loop; a broker outage never blocks the API.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, &router.Handlers{
		Auth:         handler.NewAuthHandler(userRepo, tokenRepo, cfg),
		Users:        handler.NewUserHandler(userRepo, cfg),
		Stadiums:     handler.NewStadiumHandler(stadiumRepo),
		Matches:      handler.NewMatchHandler(matchRepo, seatRepo, cfg),
		Reservations: handler.NewReservationHandler(reservations),
	}, userRepo, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
