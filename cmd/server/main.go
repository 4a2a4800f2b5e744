package main

import (
	"log"
	"net/http"

	_ "github.com/lorensation/SW1-specialty-coffee-shop-sub000/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/cache"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/config"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/db"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/handler"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/notify"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/router"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/service"
)

// @title Specialty Coffee Shop API
// @version 1.0
// @description Café ordering and table reservation API with catalog, reservations, orders, support chat, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Reservation{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Optional NATS connection for chat relay and reservation events
	var events *notify.EventPublisher
	if cfg.NATSURL != "" {
		events, err = notify.NewEventPublisher(cfg.NATSURL)
		if err != nil {
			log.Printf("nats unavailable, events disabled: %v", err)
		} else {
			defer events.Close()
		}
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.MailerAPIKey != "" {
		mailer = notify.NewMailerSendMailer(cfg.MailerAPIKey, cfg.MailerFrom, cfg.MailerFromName)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	reservationRepo := repository.NewReservationRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	capacityPolicy := service.NewCapacityPolicy(cfg.CapacityPerSlot)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	reservationService := service.NewReservationService(reservationRepo, capacityPolicy, mailer, events)
	menuService := service.NewMenuService(menuRepo, cacheClient)
	orderService := service.NewOrderService(orderRepo, menuRepo)
	chatService := service.NewChatService(chatRepo, events)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	menuHandler := handler.NewMenuHandler(menuService)
	orderHandler := handler.NewOrderHandler(orderService)
	chatHandler := handler.NewChatHandler(chatService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		authHandler,
		reservationHandler,
		menuHandler,
		orderHandler,
		chatHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
