package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"inventory/internal/auth"
	"inventory/internal/cache"
	"inventory/internal/config"
	"inventory/internal/handlers"
	"inventory/internal/repo"
	"inventory/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	catalogCache := cache.NewCatalogCache(rdb, cfg.Redis.DefaultTTL.Duration())
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())

	userRepo := repo.NewPGUserRepo(db)
	categoryRepo := repo.NewPGCategoryRepo(db)
	productRepo := repo.NewPGProductRepo(db)
	historyRepo := repo.NewPGLoginHistoryRepo(db)

	authSvc := service.NewAuthService(userRepo, historyRepo, tokens,
		cfg.Auth.LockoutMaxFailures, cfg.Auth.LockoutWindow.Duration())
	categorySvc := service.NewCategoryService(categoryRepo, catalogCache)
	productSvc := service.NewProductService(productRepo, categoryRepo, userRepo, catalogCache)

	authHandler := handlers.NewAuthHandler(authSvc)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	productHandler := handlers.NewProductHandler(productSvc)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	// Catalog reads are public; writes and the audit trail need a token.
	api.GET("/categories", categoryHandler.List)
	api.GET("/products", productHandler.List)
	api.GET("/products/search", productHandler.Search)
	api.GET("/products/low-stock", productHandler.LowStock)
	api.GET("/products/stats", productHandler.Stats)
	api.GET("/products/:id", productHandler.GetByID)

	protected := api.Group("", auth.RequireToken(tokens))
	protected.POST("/products", productHandler.Create)
	protected.PUT("/products/:id", productHandler.Update)
	protected.DELETE("/products/:id", productHandler.Delete)
	protected.POST("/products/:id/stock/increase", productHandler.IncreaseStock)
	protected.POST("/products/:id/stock/decrease", productHandler.DecreaseStock)
	protected.PUT("/products/:id/stock", productHandler.SetStock)
	protected.GET("/audit/logins", authHandler.History)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Inventory API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
