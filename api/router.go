// api/router.go
package api

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/seodash/seodash-backend/api/handlers"
	"github.com/seodash/seodash-backend/api/middleware"
	"github.com/seodash/seodash-backend/config"
)

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ErrorHandler runs before routing so it wraps every handler; the auth
	// middleware only extracts the principal, the gates below enforce it.
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.AuthMiddleware(cfg))

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	clientHandler := handlers.NewClientHandler(db, cfg)
	metricHandler := handlers.NewMetricHandler(db, cfg)
	searchDataHandler := handlers.NewSearchDataHandler(db, cfg)
	dashboardHandler := handlers.NewDashboardHandler(db, cfg)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", middleware.RateLimitMiddleware(loginLimiter), authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}

	// --- Admin Routes ---
	adminRoutes := router.Group("/admin")
	{
		// The username lookup is self-or-admin; everything else is admin-only.
		adminRoutes.GET("/clients-by-username/:username",
			middleware.RequireSelfOrAdminByUsername("username"), clientHandler.GetClientByUsername)

		adminOnly := adminRoutes.Group("", middleware.RequireAdmin())
		{
			adminOnly.GET("/clients", clientHandler.ListClients)
			adminOnly.POST("/clients", clientHandler.CreateClient)
			adminOnly.GET("/clients/:client_id", clientHandler.GetClient)
			adminOnly.PUT("/clients/:client_id", clientHandler.UpdateClient)
			adminOnly.DELETE("/clients/:client_id", clientHandler.DeleteClient)
			adminOnly.PUT("/clients/:client_id/reviews-start-count", clientHandler.SetReviewsStartCount)
			adminOnly.POST("/clients/:client_id/map-image", clientHandler.UploadMapImage)

			adminOnly.GET("/clients/:client_id/search-queries", searchDataHandler.ListSearchQueries)
			adminOnly.POST("/clients/:client_id/search-queries", searchDataHandler.UpsertSearchQueries)
			adminOnly.DELETE("/clients/:client_id/search-queries/:period", searchDataHandler.DeleteSearchQueriesByPeriod)

			adminOnly.GET("/clients/:client_id/top-pages", searchDataHandler.ListTopPages)
			adminOnly.POST("/clients/:client_id/top-pages", searchDataHandler.UpsertTopPages)
			adminOnly.DELETE("/clients/:client_id/top-pages/:period", searchDataHandler.DeleteTopPagesByPeriod)

			adminOnly.POST("/clients/:client_id/upload-csv", searchDataHandler.UploadCSV)
			adminOnly.POST("/clients/:client_id/reports", dashboardHandler.CreateReport)

			adminOnly.DELETE("/metrics/:id", metricHandler.DeleteMetric)
		}
	}

	// --- Dashboard Routes (self-or-admin per client scope) ---
	dashboardRoutes := router.Group("/dashboard/:client_id", middleware.RequireClientScope("client_id"))
	{
		dashboardRoutes.GET("/metrics", metricHandler.ListMetrics)
		dashboardRoutes.POST("/metrics", metricHandler.CreateMetric)
		dashboardRoutes.GET("/lead-potential", dashboardHandler.LeadPotential)
		dashboardRoutes.GET("/reviews", dashboardHandler.Reviews)
		dashboardRoutes.GET("/overview", dashboardHandler.Overview)
		dashboardRoutes.GET("/reports", dashboardHandler.ListReports)
	}

	return router
}
