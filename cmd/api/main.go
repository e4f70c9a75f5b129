package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bms/api/swagger" // swagger docs
	"bms/internal/config"
	"bms/internal/database"
	"bms/internal/handler"
	"bms/internal/logger"
	"bms/internal/middleware"
	"bms/internal/model"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/internal/session"
	"bms/internal/token"
	"bms/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const serviceName = "bms-api"

//go:generate swag init -d ../../ -g cmd/api/main.go -o api/swagger

// @title           Business Management API
// @version         1.0
// @description     Outlets, products, dual pricing, sales, attendance and role-based access.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DB.DSN(), log)
	if err != nil {
		return err
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Name))

	revoked := session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		revoked = session.NewRedisStore(rdb)
		log.Info("token revocation backed by redis", zap.String("addr", cfg.Redis.Addr))
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	auth := middleware.NewAuthenticator(issuer, revoked, cfg.IsRelease())

	wsHub := websocket.NewHub(log, cfg.CORSOrigins)
	go wsHub.Run(ctx)

	// Repository -> Service -> Handler
	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	outletRepo := repository.NewOutletRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	priceRepo := repository.NewDualPricingRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	departmentRepo := repository.NewCatalogRepository[model.Department](db)
	productTypeRepo := repository.NewCatalogRepository[model.ProductType](db)
	customerTypeRepo := repository.NewCatalogRepository[model.CustomerType](db)

	authService := service.NewAuthService(userRepo, roleRepo, auditRepo, txManager, issuer, revoked, cfg.DefaultRole)
	userService := service.NewUserService(userRepo, roleRepo, auditRepo, txManager)
	roleService := service.NewRoleService(roleRepo, userRepo, auditRepo, txManager)
	outletService := service.NewOutletService(outletRepo, userRepo, auditRepo, txManager)
	employeeService := service.NewEmployeeService(employeeRepo, departmentRepo, outletRepo, roleRepo, auditRepo, txManager)
	productService := service.NewProductService(productRepo, productTypeRepo, outletRepo, auditRepo, txManager, wsHub, cfg.LowStockThreshold)
	pricingService := service.NewDualPricingService(priceRepo, productRepo, outletRepo, auditRepo, txManager)
	saleService := service.NewSaleService(saleRepo, productRepo, priceRepo, customerTypeRepo, outletRepo, auditRepo, txManager, wsHub)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo, auditRepo, txManager, wsHub)
	auditService := service.NewAuditService(auditRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, cfg.LowStockThreshold)

	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log), middleware.Metrics(serviceName))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", websocket.ServeWs(wsHub, auth))

	handler.NewAuthHandler(authService, auth).RegisterRoutes(router.Group(""))

	api := router.Group("/api", auth.Authenticate(), middleware.RequireCapability())
	routes := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		handler.NewOutletHandler(outletService),
		handler.NewEmployeeHandler(employeeService),
		handler.NewCatalogHandler("/departments", service.NewCatalogService[model.Department]("department", departmentRepo, auditRepo, txManager)),
		handler.NewCatalogHandler("/product-types", service.NewCatalogService[model.ProductType]("product type", productTypeRepo, auditRepo, txManager)),
		handler.NewCatalogHandler("/customer-types", service.NewCatalogService[model.CustomerType]("customer type", customerTypeRepo, auditRepo, txManager)),
		handler.NewProductHandler(productService),
		handler.NewDualPricingHandler(pricingService),
		handler.NewSaleHandler(saleService),
		handler.NewAttendanceHandler(attendanceService),
		handler.NewAuditHandler(auditService),
		handler.NewAnalyticsHandler(analyticsService),
	}
	for _, h := range routes {
		h.RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
