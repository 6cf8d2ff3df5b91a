package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"parts-store/internal/config"
	custommiddleware "parts-store/internal/middleware"
	"parts-store/internal/repository"
	"parts-store/internal/service"
	"parts-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		clientRepo,
		refreshTokenRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)
	staffService := service.NewStaffService(userRepo)
	clientService := service.NewClientService(clientRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	productService := service.NewProductService(productRepo, categoryRepo, supplierRepo)
	receipts := service.NewReceiptNumberGenerator(saleRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, clientRepo, userRepo, receipts)
	reportService := service.NewReportService(reportRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	staffHandler := transport.NewStaffHandler(staffService, logger)
	clientHandler := transport.NewClientHandler(clientService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	supplierHandler := transport.NewSupplierHandler(supplierService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	saleHandler := transport.NewSaleHandler(saleService, logger)
	reportHandler := transport.NewReportHandler(reportService, logger)

	// Create shared middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	requireStaff := custommiddleware.RequireStaff(logger)
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, requireAdmin, authRateLimit)
	staffHandler.RegisterRoutes(router, authMiddleware, requireAdmin)
	clientHandler.RegisterRoutes(router, authMiddleware, requireStaff)
	categoryHandler.RegisterRoutes(router, authMiddleware, requireAdmin)
	supplierHandler.RegisterRoutes(router, authMiddleware, requireAdmin)
	productHandler.RegisterRoutes(router, authMiddleware, requireStaff, requireAdmin)
	saleHandler.RegisterRoutes(router, authMiddleware, requireStaff)
	reportHandler.RegisterRoutes(router, authMiddleware, requireStaff, requireAdmin)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
