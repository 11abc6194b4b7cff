package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/productdb/backend/internal/model"
	"github.com/productdb/backend/internal/service"
)

type RouterConfig struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Store    Pinger
	Logger   *slog.Logger
	CORS     CORSOptions
}

// NewRouter wires middleware and routes. /login is public; every /products
// route sits behind AuthMiddleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(RequestID())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(Recovery(cfg.Logger))
	router.Use(CORSMiddleware(cfg.CORS))

	health := NewHealthHandler(cfg.Store, cfg.Logger)
	router.GET("/", Root)
	router.GET("/ping", Ping)
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)
	router.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)
	router.POST("/login", authHandler.Login)

	productHandler := NewProductHandler(cfg.Products, cfg.Logger)
	products := router.Group("/products")
	products.Use(AuthMiddleware(cfg.Auth, cfg.Logger))
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", productHandler.CreateProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.DELETE("/:id", productHandler.DeleteProduct)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "resource not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{Error: "method not allowed"})
	})

	return router
}
