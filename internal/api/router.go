// Package api wires together all HTTP routes for the catalog service.
//
// Route grouping:
//   - /health is public so load balancers and orchestration probes need no
//     credentials.
//   - /api/v1/auth/login and /api/v1/users/login are public; they are two
//     mounts of the same credential-check handler.
//   - Every other /api/v1 route requires a Bearer token. The authenticated
//     user's email becomes the provenance actor recorded on writes.
package api

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/data-fusion-hub/data-fusion-service/internal/api/accounts"
	"github.com/data-fusion-hub/data-fusion-service/internal/api/catalog"
	"github.com/data-fusion-hub/data-fusion-service/internal/config"
	"github.com/data-fusion-hub/data-fusion-service/internal/crypto"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
	"github.com/data-fusion-hub/data-fusion-service/internal/middleware"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	router := gin.New()

	userRepo := repositories.NewUserRepository(db)

	// Connector repository rides sqlx for named-parameter queries.
	sqlxDB := sqlx.NewDb(db, "postgres")

	// ENCRYPTION_KEY seals connector authentication secrets at rest. A value
	// that is not a 32-byte key is stretched into one with PBKDF2.
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		log.Fatal("ENCRYPTION_KEY environment variable must be set for connector secret encryption")
	}
	secretCipher, err := crypto.CipherFromKey(encryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize secret cipher: %v", err)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	router.GET("/health", healthCheckHandler(db))

	domainHandlers := catalog.NewDomainHandlers(db)
	objectHandlers := catalog.NewObjectHandlers(db)
	fieldHandlers := catalog.NewFieldHandlers(db)
	connectorHandlers := catalog.NewConnectorHandlers(sqlxDB, secretCipher)
	userHandlers := accounts.NewUserHandlers(db)
	roleHandlers := accounts.NewRoleHandlers(db)
	requestHandlers := accounts.NewRequestHandlers(db)
	authHandlers := accounts.NewAuthHandlers(cfg, db)

	apiV1 := router.Group("/api/v1")

	// Login is mounted twice; both paths run the same handler.
	apiV1.POST("/auth/login", authHandlers.Login)
	apiV1.POST("/users/login", authHandlers.Login)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.RequireAuth(userRepo))
	{
		domains := authenticated.Group("/datadomains")
		{
			domains.POST("", domainHandlers.Create)
			domains.GET("", domainHandlers.List)
			domains.GET("/:id", domainHandlers.Get)
			domains.PUT("/:id", domainHandlers.Update)
			domains.DELETE("/:id", domainHandlers.Delete)
		}

		connectors := authenticated.Group("/dataconnectors")
		{
			connectors.POST("", connectorHandlers.Create)
			connectors.GET("", connectorHandlers.List)
			connectors.GET("/:id", connectorHandlers.Get)
			connectors.PUT("/:id", connectorHandlers.Update)
			connectors.DELETE("/:id", connectorHandlers.Delete)
		}

		objects := authenticated.Group("/data-objects")
		{
			objects.POST("", objectHandlers.Create)
			objects.POST("/bulk", objectHandlers.CreateBulk)
			objects.GET("", objectHandlers.List)
			objects.GET("/:id", objectHandlers.Get)
			objects.PUT("/:id", objectHandlers.Update)
			objects.DELETE("/:id", objectHandlers.Delete)
		}

		fields := authenticated.Group("/data-fields")
		{
			fields.POST("", fieldHandlers.Create)
			fields.GET("", fieldHandlers.List)
			fields.GET("/object/:object_id", fieldHandlers.ListByObject)
			fields.GET("/:id", fieldHandlers.Get)
			fields.PUT("/:id", fieldHandlers.Update)
			fields.DELETE("/:id", fieldHandlers.Delete)
		}

		users := authenticated.Group("/users")
		{
			users.POST("", userHandlers.Create)
			users.GET("", userHandlers.List)
			users.GET("/:id", userHandlers.Get)
			users.PUT("/:id", userHandlers.Update)
			users.DELETE("/:id", userHandlers.Delete)
		}

		roles := authenticated.Group("/roles")
		{
			roles.POST("", roleHandlers.Create)
			roles.GET("", roleHandlers.List)
			roles.GET("/:role_id", roleHandlers.Get)
			roles.PUT("/:role_id", roleHandlers.Update)
			roles.DELETE("/:role_id", roleHandlers.Delete)

			roles.PUT("/:role_id/approver-roles", roleHandlers.AssignApprovers)
			roles.GET("/:role_id/approver-roles", roleHandlers.ListApprovers)
			roles.DELETE("/:role_id/approver-roles/:approver_role_id", roleHandlers.DeleteApprover)
		}

		requests := authenticated.Group("/user-role-requests")
		{
			requests.POST("", requestHandlers.Create)
			requests.GET("", requestHandlers.List)
			requests.GET("/:id", requestHandlers.Get)
			requests.PUT("/:id/approve", requestHandlers.Approve)
			requests.PUT("/:id/deny", requestHandlers.Deny)
			requests.DELETE("/:id", requestHandlers.Delete)
		}
	}

	return router
}

// healthCheckHandler reports service health including database connectivity.
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// LoggerMiddleware logs every request through the process-wide slog handler,
// so the output format follows telemetry.SetupLogger.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		requestID, _ := c.Get(middleware.RequestIDKey)
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", fmt.Sprintf("%v", requestID)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
