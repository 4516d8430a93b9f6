package handler

import (
	"github.com/grinventions/slateboy/internal/adapter/http/middleware"
	"github.com/grinventions/slateboy/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        AuthService
	Engine         ChatEngine
	ReportingSvc   ReportingService
	Sweeper        Sweeper
	Ledger         ports.LedgerRepository
	Registry       ports.RegistryRepository
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis + wallet owner API)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// --- JWT-authenticated routes (operator) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	opsHandler := NewOpsHandler(deps.Ledger, deps.Registry, deps.ReportingSvc, deps.Sweeper)

	users := v1.Group("/users", jwtAuth)
	{
		users.GET("/:id/balance", opsHandler.GetUserBalance)
	}

	bank := v1.Group("/bank", jwtAuth)
	{
		bank.GET("/stats", opsHandler.GetStats)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", opsHandler.ListOpenTransactions)
	}

	sweeps := v1.Group("/sweeps", jwtAuth)
	{
		sweeps.POST("/transactions", opsHandler.TriggerTransactionSweep)
		sweeps.POST("/accounting", opsHandler.TriggerAccountingSweep)
	}

	// --- Chat transport bridge (JWT-authenticated) ---
	chatHandler := NewChatHandler(deps.Engine)
	chat := v1.Group("/chat", jwtAuth)
	{
		chat.POST("/events", chatHandler.HandleEvent)
	}

	return r
}
