package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"devfolio/auth"
	"devfolio/cache"
	"devfolio/common"
	"devfolio/contact"
	"devfolio/database"
	"devfolio/email"
	"devfolio/github"
	"devfolio/portfolio"
	"devfolio/store"
	"devfolio/uploads"
	"devfolio/validation"
)

func main() {
	_ = godotenv.Load()

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	validation.Register()

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	sessionStore := cookie.NewStore([]byte(sessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})
	router.Use(sessions.Sessions("devfolio-session", sessionStore))

	st := store.New(db)

	authModule := auth.NewAuthModule(st)
	authModule.RegisterRoutes(router)

	portfolioModule := portfolio.NewPortfolioModule(st)
	portfolioModule.RegisterRoutes(router)

	cacheTTL := githubCacheTTL()
	if err := cache.ClearOld(cacheTTL); err != nil {
		log.Printf("Failed to prune github cache: %v", err)
	}

	githubModule := github.NewGithubModule(github.NewHTTPClient(), cacheTTL)
	githubModule.RegisterRoutes(router)

	contactModule := contact.NewContactModule(st, email.NewEmailService())
	contactModule.RegisterRoutes(router)

	uploadModule := uploads.NewUploadModule()
	uploadModule.RegisterRoutes(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func githubCacheTTL() time.Duration {
	raw := os.Getenv("GITHUB_CACHE_TTL")
	if raw == "" {
		return 10 * time.Minute
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid GITHUB_CACHE_TTL %q, using 10m", raw)
		return 10 * time.Minute
	}
	return ttl
}
