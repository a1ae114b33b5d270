package routes

import (
	"net/http"
	"time"

	"kree/handlers"
	"kree/middleware"
	"kree/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
		protected.POST("/logout", hb.Auth.Logout)
		protected.GET("/me", hb.Auth.Profile)
		protected.PUT("/me", hb.Auth.UpdateProfile)
	}
}

// RegisterRequestRoutes registers rental request endpoints.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/requests")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.POST("", middleware.RequireRole(models.RoleCustomer), hb.Requests.Create)
		api.GET("", middleware.RequireRole(models.RoleAdmin), hb.Requests.ListAll)
		api.GET("/mine", middleware.RequireRole(models.RoleCustomer), hb.Requests.ListMine)
		api.GET("/open", middleware.RequireRole(models.RoleAgency, models.RoleAdmin), hb.Requests.ListOpen)
		api.GET("/:id", hb.Requests.Get)
		api.GET("/:id/proposals", hb.Proposals.ListForRequest)
		api.PUT("/:id/cancel", hb.Requests.Cancel)
		api.PUT("/:id/complete", hb.Requests.Complete)
	}
}

// RegisterProposalRoutes registers proposal endpoints.
func RegisterProposalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/proposals")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.POST("", middleware.RequireRole(models.RoleAgency), hb.Proposals.Create)
		api.GET("", middleware.RequireRole(models.RoleAdmin), hb.Proposals.ListAll)
		api.GET("/mine", hb.Proposals.ListMine)
		api.GET("/:id", hb.Proposals.Get)
		api.PUT("/:id", middleware.RequireRole(models.RoleAgency), hb.Proposals.Update)
		api.PUT("/:id/withdraw", middleware.RequireRole(models.RoleAgency), hb.Proposals.Withdraw)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.POST("", middleware.RequireRole(models.RoleCustomer), hb.Bookings.Create)
		api.GET("", middleware.RequireRole(models.RoleAdmin), hb.Bookings.ListAll)
		api.GET("/mine", hb.Bookings.ListMine)
		api.GET("/active", middleware.RequireRole(models.RoleCustomer), hb.Bookings.Active)
		api.GET("/:id", hb.Bookings.Get)
		api.PUT("/:id/confirm", middleware.RequireRole(models.RoleAgency), hb.Bookings.Confirm)
		api.PUT("/:id/pickup", middleware.RequireRole(models.RoleAgency), hb.Bookings.Pickup)
		api.PUT("/:id/return", middleware.RequireRole(models.RoleAgency), hb.Bookings.Return)
		api.PUT("/:id/complete", middleware.RequireRole(models.RoleAgency, models.RoleAdmin), hb.Bookings.Complete)
		api.PUT("/:id/cancel", hb.Bookings.Cancel)
	}
}

// RegisterChatRoutes registers the REST side of chat threads.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chats")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.POST("", hb.Chats.Open)
		api.GET("", hb.Chats.List)
		api.GET("/:id", hb.Chats.Get)
		api.POST("/:id/messages", hb.Chats.PostMessage)
		api.PUT("/:id/read", hb.Chats.MarkRead)
	}
}

// RegisterNotificationRoutes registers the notification inbox.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifs")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.GET("", hb.Notifications.List)
		api.PUT("/read", hb.Notifications.MarkAllRead)
		api.PUT("/:id/read", hb.Notifications.MarkRead)
	}
}

// RegisterScoreRoutes registers loyalty point endpoints.
func RegisterScoreRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/scores")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken))
	{
		api.GET("/mine", middleware.RequireRole(models.RoleCustomer), hb.Scores.Mine)
		api.POST("/award", middleware.RequireRole(models.RoleAdmin), hb.Scores.Award)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuthMiddleware(hb.ResolveToken), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/users", hb.Admin.ListUsers)
		api.GET("/stats", hb.Admin.Stats)
	}
}

// RegisterSocketRoute mounts the websocket gateway. The gateway does its own
// token check before upgrading.
func RegisterSocketRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", hb.Gateway.ServeWS)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Kree"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterRequestRoutes(r, hb)
	RegisterProposalRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterScoreRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterSocketRoute(r, hb)
	RegisterHealthRoute(r)
}
