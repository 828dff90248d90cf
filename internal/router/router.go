package router

import (
	"net/http"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/config"
	"github.com/onegreenvn/retail-backoffice-services/internal/handlers"
	"github.com/onegreenvn/retail-backoffice-services/internal/middleware"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin router with every back-office route
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	reportDB *sqlx.DB,
	authService *auth.AuthService,
	roleService *services.RoleService,
	offerService *services.OfferService,
) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(authService)

	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService, roleService)
	municipalityHandler := handlers.NewMunicipalityHandler(db)
	branchHandler := handlers.NewBranchHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	supplierHandler := handlers.NewSupplierHandler(db)
	productHandler := handlers.NewProductHandler(db, offerService)
	priceTierHandler := handlers.NewPriceTierHandler(db)
	stockHandler := handlers.NewStockHandler(db)
	campaignHandler := handlers.NewCampaignHandler(db)
	offerHandler := handlers.NewOfferHandler(offerService)
	excelHandler := handlers.NewExcelHandler(db, reportDB, cfg.ExportsDir, cfg.Server.BasePath)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.Server.BasePath)
	api.Use(rateLimiter.Middleware())
	{
		api.GET("/health", func(c *gin.Context) {
			status := "ok"
			code := http.StatusOK
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			c.JSON(code, gin.H{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authPublic := api.Group("/auth")
		{
			authPublic.POST("/login", authHandler.Login)
			authPublic.POST("/refresh", authHandler.RefreshToken)
		}

		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.GET("/profile", authHandler.GetProfile)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}

			manageBranches := middleware.RequirePrivilege(models.PrivilegeBranchesManage)
			manageCatalog := middleware.RequirePrivilege(models.PrivilegeCatalogManage)
			manageCampaigns := middleware.RequirePrivilege(models.PrivilegeCampaignsManage)

			municipalities := protected.Group("/municipalities")
			{
				municipalities.GET("", municipalityHandler.ListMunicipalities)
				municipalities.GET("/:id", municipalityHandler.GetMunicipality)
				municipalities.POST("", manageBranches, municipalityHandler.CreateMunicipality)
				municipalities.PUT("/:id", manageBranches, municipalityHandler.UpdateMunicipality)
				municipalities.DELETE("/:id", manageBranches, municipalityHandler.DeleteMunicipality)
			}

			branches := protected.Group("/branches")
			{
				branches.GET("", branchHandler.ListBranches)
				branches.GET("/:id", branchHandler.GetBranch)
				branches.GET("/:id/stock", stockHandler.ListBranchStock)
				branches.POST("", manageBranches, branchHandler.CreateBranch)
				branches.PUT("/:id", manageBranches, branchHandler.UpdateBranch)
				branches.DELETE("/:id", manageBranches, branchHandler.DeleteBranch)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("", categoryHandler.ListCategories)
				categories.GET("/:id", categoryHandler.GetCategory)
				categories.POST("", manageCatalog, categoryHandler.CreateCategory)
				categories.PUT("/:id", manageCatalog, categoryHandler.UpdateCategory)
				categories.DELETE("/:id", manageCatalog, categoryHandler.DeleteCategory)
			}

			suppliers := protected.Group("/suppliers")
			{
				suppliers.GET("", supplierHandler.ListSuppliers)
				suppliers.GET("/:id", supplierHandler.GetSupplier)
				suppliers.POST("", manageCatalog, supplierHandler.CreateSupplier)
				suppliers.PUT("/:id", manageCatalog, supplierHandler.UpdateSupplier)
				suppliers.DELETE("/:id", manageCatalog, supplierHandler.DeleteSupplier)
			}

			products := protected.Group("/products")
			{
				products.GET("", productHandler.ListProducts)
				products.GET("/:id", productHandler.GetProduct)
				products.GET("/:id/offer", offerHandler.GetOffer)
				products.GET("/:id/stock", stockHandler.ListProductStock)
				products.GET("/:id/price-tiers", priceTierHandler.ListPriceTiers)
				products.GET("/:id/volume-price", priceTierHandler.GetVolumePrice)
				products.POST("", manageCatalog, productHandler.CreateProduct)
				products.PUT("/:id", manageCatalog, productHandler.UpdateProduct)
				products.DELETE("/:id", manageCatalog, productHandler.DeleteProduct)
				products.POST("/:id/price-tiers", manageCatalog, priceTierHandler.CreatePriceTier)
				products.PUT("/:id/price-tiers/:tierId", manageCatalog, priceTierHandler.UpdatePriceTier)
				products.DELETE("/:id/price-tiers/:tierId", manageCatalog, priceTierHandler.DeletePriceTier)
			}

			stock := protected.Group("/stock")
			stock.Use(manageCatalog)
			{
				stock.PUT("", stockHandler.SetStock)
				stock.POST("/adjust", stockHandler.AdjustStock)
			}

			campaigns := protected.Group("/campaigns")
			{
				campaigns.GET("", campaignHandler.GetCampaigns)
				campaigns.GET("/:id", campaignHandler.GetCampaignByID)
				campaigns.GET("/:id/sales", campaignHandler.GetCampaignSaleLogs)
				campaigns.GET("/:id/sales/export", excelHandler.ExportCampaignSales)
				campaigns.POST("", manageCampaigns, campaignHandler.CreateCampaign)
				campaigns.PUT("/:id", manageCampaigns, campaignHandler.UpdateCampaign)
				campaigns.DELETE("/:id", manageCampaigns, campaignHandler.DeleteCampaign)
				campaigns.POST("/:id/activate", manageCampaigns, campaignHandler.ActivateCampaign)
				campaigns.POST("/:id/deactivate", manageCampaigns, campaignHandler.DeactivateCampaign)
				campaigns.PUT("/:id/branches", manageCampaigns, campaignHandler.SetCampaignBranches)
				campaigns.POST("/:id/products", manageCampaigns, campaignHandler.AddCampaignProduct)
				campaigns.PUT("/:id/products/:productId", manageCampaigns, campaignHandler.UpdateCampaignProduct)
				campaigns.DELETE("/:id/products/:productId", manageCampaigns, campaignHandler.RemoveCampaignProduct)
				campaigns.PUT("/:id/products/:productId/branches/:branchId", manageCampaigns, campaignHandler.SetBranchOverride)
				campaigns.DELETE("/:id/products/:productId/branches/:branchId", manageCampaigns, campaignHandler.RemoveBranchOverride)
			}

			protected.POST("/campaign-products/:id/consume",
				middleware.RequirePrivilege(models.PrivilegeSalesConsume), offerHandler.ConsumeOffer)

			protected.GET("/exports/:filename", excelHandler.DownloadExcelFile)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequirePrivilege(models.PrivilegeUsersManage))
			{
				admin.POST("/register", adminHandler.Register)
				admin.GET("/users", adminHandler.GetAllUsers)
				admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
				admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
				admin.GET("/users/:id/roles", adminHandler.GetUserRoles)
				admin.POST("/users/:id/roles", adminHandler.AssignRoleToUser)
				admin.DELETE("/users/:id/roles/:roleId", adminHandler.RemoveRoleFromUser)
				admin.GET("/roles", adminHandler.GetAllRoles)
				admin.POST("/roles", adminHandler.CreateRole)
				admin.DELETE("/roles/:id", adminHandler.DeleteRole)
			}
		}
	}

	return r
}
