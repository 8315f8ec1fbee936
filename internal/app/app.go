package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aingmeong/shop/internal/config"
	"github.com/aingmeong/shop/internal/db"
	"github.com/aingmeong/shop/internal/repository"
	"github.com/aingmeong/shop/internal/service"
	"github.com/aingmeong/shop/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	EmailService   *service.EmailService
	ProductService *service.ProductService
	CartService    *service.CartService
	OrderService   *service.OrderService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	productRepository := repository.NewProductRepository(database)
	cartRepository := repository.NewCartRepository(database)
	orderRepository := repository.NewOrderRepository(database)

	// Storage
	imageStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		emailService,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.OTPExpiry,
	)
	productService := service.NewProductService(productRepository, imageStorage)
	cartService := service.NewCartService(cartRepository, productRepository)
	orderService := service.NewOrderService(orderRepository, cartRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		EmailService:   emailService,
		ProductService: productService,
		CartService:    cartService,
		OrderService:   orderService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
