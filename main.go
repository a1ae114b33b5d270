// File: kree/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kree/config"
	"kree/cron"
	"kree/database"
	bookingRepoPkg "kree/database/repository/booking"
	chatRepoPkg "kree/database/repository/chat"
	notificationRepoPkg "kree/database/repository/notification"
	proposalRepoPkg "kree/database/repository/proposal"
	requestRepoPkg "kree/database/repository/request"
	scoreRepoPkg "kree/database/repository/score"
	userRepoPkg "kree/database/repository/user"
	"kree/handlers"
	"kree/middleware"
	"kree/realtime"
	"kree/routes"
	"kree/services/booking"
	"kree/services/chat"
	"kree/services/notification"
	"kree/services/proposal"
	"kree/services/request"
	"kree/services/score"
	"kree/services/user"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	requestRepo := requestRepoPkg.NewMongoRequestRepo()
	proposalRepo := proposalRepoPkg.NewMongoProposalRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	scoreRepo := scoreRepoPkg.NewMongoScoreRepo()

	// real-time layer.
	hub := realtime.NewHub(logger)

	// services.
	notificationService := notification.NewDefaultNotificationService(hub, notificationRepo, logger)
	userService := user.NewDefaultUserService(userRepo)
	requestService := request.NewDefaultRequestService(requestRepo, userRepo, notificationService)
	proposalService := proposal.NewDefaultProposalService(proposalRepo, requestRepo, userRepo, notificationService)
	bookingService := booking.NewDefaultBookingService(bookingRepo, proposalRepo, requestRepo, userRepo, scoreRepo, notificationService)
	chatService := chat.NewDefaultChatService(chatRepo, userRepo, notificationService)
	scoreService := score.NewDefaultScoreService(scoreRepo)

	// websocket gateway and inbound event routing.
	socketRouter := handlers.NewSocketRouter(hub, chatService, proposalService, chatRepo, requestRepo, userRepo, logger)
	gateway := realtime.NewGateway(hub, userService.ResolveToken, socketRouter, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:          handlers.NewAuthHandler(userService),
		Requests:      handlers.NewRequestHandler(requestService),
		Proposals:     handlers.NewProposalHandler(proposalService),
		Bookings:      handlers.NewBookingHandler(bookingService),
		Chats:         handlers.NewChatHandler(chatService),
		Notifications: handlers.NewNotificationHandler(notificationRepo),
		Scores:        handlers.NewScoreHandler(scoreService),
		Admin:         handlers.NewAdminHandler(userService, userRepo, requestRepo, bookingRepo),
		Gateway:       gateway,
		ResolveToken:  userService.ResolveToken,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background proposal expiry sweep.
	cron.InitExpiryWorker(proposalRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
