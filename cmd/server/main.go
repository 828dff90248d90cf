package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/docs"
	"github.com/onegreenvn/retail-backoffice-services/internal/config"
	"github.com/onegreenvn/retail-backoffice-services/internal/database"
	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/router"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/auth"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const saleLogCleanupInterval = 6 * time.Hour

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	configureLogging(cfg.LogLevel)

	docs.SwaggerInfo.BasePath = cfg.Server.BasePath

	if enabled, err := utils.InitSentry(&cfg.Sentry); err != nil {
		logrus.Warnf("Failed to initialize Sentry: %v", err)
	} else if enabled {
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	reportDB, err := database.NewReportingDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize reporting connection: %v", err)
	}
	defer reportDB.Close()

	// Role service is needed by the auth service for default role assignment
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	roleService := services.NewRoleService(roleRepo, userRepo)

	authService := auth.NewAuthService(db, &cfg.Auth, roleService)

	if err := authService.CreateAdminUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logrus.Warnf("Failed to create admin user: %v", err)
	} else {
		logrus.Info("Admin user check completed")
	}

	offerService := services.NewOfferService(
		repository.NewProductRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewCampaignProductRepository(db),
	)

	saleLogService := services.NewSaleLogService(repository.NewSaleLogRepository(db), nil)
	if cfg.RabbitMQ.Enabled {
		rabbitMQService, err := services.NewRabbitMQService(&cfg.RabbitMQ)
		if err != nil {
			logrus.Warnf("Failed to initialize RabbitMQ, sale events disabled: %v", err)
		} else {
			logrus.Info("RabbitMQ service initialized")
			defer rabbitMQService.Close()

			offerService.SetPublisher(rabbitMQService, cfg.RabbitMQ.SalesQueue)

			saleLogService = services.NewSaleLogService(repository.NewSaleLogRepository(db), rabbitMQService)
			if err := saleLogService.StartRabbitMQConsumer(cfg.RabbitMQ.SalesQueue); err != nil {
				logrus.Warnf("Failed to start sale log consumer: %v", err)
			} else {
				logrus.Info("Sale log consumer started")
				defer saleLogService.StopRabbitMQConsumer()
			}
		}
	}

	saleLogService.StartLogCleanup(saleLogCleanupInterval, cfg.SaleLogRetentionDays)
	defer saleLogService.StopLogCleanup()

	tokenCleanupService := auth.NewTokenCleanupService(db)
	tokenCleanupService.Start()
	defer tokenCleanupService.Stop()

	r := router.SetupRouter(cfg, db, reportDB, authService, roleService, offerService)

	var handler http.Handler = r
	if cfg.Server.H2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on %s", srv.Addr)
		logrus.Infof("API Health Check: http://localhost:%s%s/health", cfg.Server.Port, cfg.Server.BasePath)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
