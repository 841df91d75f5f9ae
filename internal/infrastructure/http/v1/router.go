// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockops/internal/domain/auth"
	"stockops/internal/domain/catalogs/item"
	"stockops/internal/domain/documents/purchase_order"
	"stockops/internal/domain/documents/receipt"
	"stockops/internal/domain/documents/sales_order"
	"stockops/internal/domain/documents/shipment"
	"stockops/internal/domain/kpi"
	"stockops/internal/domain/registers/stock"
	"stockops/internal/infrastructure/http/v1/handlers"
	"stockops/internal/infrastructure/http/v1/middleware"
	"stockops/internal/infrastructure/storage/postgres"
	"stockops/pkg/logger"
)

// RouterConfig holds everything the router needs to wire handlers.
type RouterConfig struct {
	// Pool is the database connection pool (used by health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Domain services
	AuthService     *auth.Service
	ItemService     *item.Service
	StockService    *stock.Service
	ReceiptService  *receipt.Service
	ShipmentService *shipment.Service
	SalesOrders     *sales_order.Service
	PurchaseOrders  *purchase_order.Service
	KPIService      *kpi.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, baseHandler, cfg)

		// Everything below requires a valid JWT.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerItemRoutes(protected, baseHandler, cfg)
		registerDocumentRoutes(protected, baseHandler, cfg)
		registerKPIRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication and user administration endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	public := rg.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
	}

	// Protected auth endpoints
	self := rg.Group("/auth")
	self.Use(middleware.Auth(cfg.JWTValidator))
	{
		self.POST("/logout", authHandler.Logout)
		self.GET("/me", authHandler.Me)
	}

	// User administration
	users := rg.Group("/users")
	users.Use(middleware.Auth(cfg.JWTValidator))
	users.Use(middleware.RequireCapability(auth.CapabilityManageUsers))
	{
		users.GET("", authHandler.ListUsers)
		users.POST("/:id/capabilities", authHandler.GrantCapability)
		users.DELETE("/:id/capabilities/:capability", authHandler.RevokeCapability)
	}
}

// registerItemRoutes registers the item catalog and per-item stock endpoints.
func registerItemRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	itemHandler := handlers.NewItemHandler(base, cfg.ItemService)
	stockHandler := handlers.NewStockHandler(base, cfg.ItemService, cfg.StockService)

	manage := middleware.RequireCapability(auth.CapabilityManageCatalog)

	items := rg.Group("/items")
	{
		items.GET("", itemHandler.List)
		items.POST("", manage, itemHandler.Create)
		items.GET("/:id", itemHandler.Get)
		items.PUT("/:id", manage, itemHandler.Update)
		items.DELETE("/:id", manage, itemHandler.Delete)

		items.GET("/:id/stock", stockHandler.OnHand)
		items.GET("/:id/movements", stockHandler.Movements)
	}
}

// documentRouteHandler is the route surface shared by all document handlers.
type documentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// postableRouteHandler adds posting routes for documents that drive the stock ledger.
type postableRouteHandler interface {
	documentRouteHandler
	Post(c *gin.Context)
	Unpost(c *gin.Context)
}

// registerDocumentRoutes registers receipt, shipment and order endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	canPost := middleware.RequireCapability(auth.CapabilityPost)

	registerPostableRoutes(rg.Group("/receipts"), handlers.NewReceiptHandler(base, cfg.ReceiptService), canPost)
	registerPostableRoutes(rg.Group("/shipments"), handlers.NewShipmentHandler(base, cfg.ShipmentService), canPost)

	// Ledger effect of a posted document.
	stockHandler := handlers.NewStockHandler(base, cfg.ItemService, cfg.StockService)
	rg.GET("/receipts/:id/movements", stockHandler.DocumentMovements)
	rg.GET("/shipments/:id/movements", stockHandler.DocumentMovements)

	orders := rg.Group("/sales-orders")
	orderHandler := handlers.NewSalesOrderHandler(base, cfg.SalesOrders)
	{
		orders.GET("", orderHandler.List)
		orders.POST("", orderHandler.Create)
		orders.GET("/:id", orderHandler.Get)
		orders.PUT("/:id", orderHandler.Update)
		orders.DELETE("/:id", orderHandler.Delete)
	}

	// Purchase orders are write-once: no update route.
	purchases := rg.Group("/purchase-orders")
	purchaseHandler := handlers.NewPurchaseOrderHandler(base, cfg.PurchaseOrders)
	{
		purchases.GET("", purchaseHandler.List)
		purchases.POST("", purchaseHandler.Create)
		purchases.GET("/:id", purchaseHandler.Get)
		purchases.DELETE("/:id", purchaseHandler.Delete)
	}
}

// registerPostableRoutes wires CRUD plus post/unpost for a ledger-driving document.
func registerPostableRoutes(group *gin.RouterGroup, handler postableRouteHandler, canPost gin.HandlerFunc) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.POST("/:id/post", canPost, handler.Post)
	group.POST("/:id/unpost", canPost, handler.Unpost)
}

// registerKPIRoutes registers reporting endpoints.
func registerKPIRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	kpiHandler := handlers.NewKPIHandler(base, cfg.KPIService)

	rg.GET("/kpi/sales", kpiHandler.Sales)
}
