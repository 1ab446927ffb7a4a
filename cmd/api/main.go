package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"lingozo_go_backend/cmd/api/config"
	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/api"
	"lingozo_go_backend/internal/auth"
	"lingozo_go_backend/internal/broker"
	"lingozo_go_backend/internal/database"
	"lingozo_go_backend/internal/services"
	"lingozo_go_backend/internal/wsocket"

	"github.com/gorilla/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.NewConfig()

	database.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	stripePublicKey := os.Getenv("STRIPE_PUBLIC_KEY")
	stripeSecretKey := os.Getenv("STRIPE_SECRET_KEY")
	stripeService := services.NewStripeService(stripePublicKey, stripeSecretKey)

	messageBroker := broker.NewBroker()

	chatStore := services.NewChatStore(database.DB)
	cacheStore := services.NewCacheStore(database.DB)
	userStore := services.NewUserStore(database.DB)
	usageService := services.NewUsageService(rdb)
	entitlementService := services.NewEntitlementService(userStore, chatStore)

	chatTurnService := services.NewChatTurnService(
		chatStore,
		cacheStore,
		userStore,
		entitlementService,
		usageService,
		messageBroker,
		ai.NewProvider,
		cfg.MessagePacingDelay,
	)
	translateService := services.NewTranslateService(cacheStore, userStore, usageService, ai.NewProvider)
	proactiveService := services.NewProactiveService(
		chatStore,
		userStore,
		messageBroker,
		usageService,
		ai.NewProvider,
		cfg.ProactiveLockTTL,
	)

	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: Implement a more secure check in production
		},
	}

	wsHandler := wsocket.NewHandler(chatStore, upgrader, cfg.WebSocketPing)

	handlers := &api.Handlers{
		ChatTurns:    chatTurnService,
		Translate:    translateService,
		Proactive:    proactiveService,
		Chats:        chatStore,
		Users:        userStore,
		Entitlements: entitlementService,
		Stripe:       stripeService,
	}
	api.SetupRoutes(r, handlers)
	auth.SetupRoutes(r)

	r.GET("/ws", auth.AuthMiddleware(), func(c *gin.Context) {
		user, _ := c.Get("user")
		wsHandler.HandleWebSocket(c.Writer, c.Request, user, messageBroker)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
