package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ki-assist/storefront-api/auth"
	"github.com/ki-assist/storefront-api/checkout"
	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/paypal"
	"github.com/ki-assist/storefront-api/realtime"
	"github.com/ki-assist/storefront-api/repository"
	"github.com/ki-assist/storefront-api/routes"
	"github.com/ki-assist/storefront-api/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("starting storefront API")

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate failed")
	}

	repos := repository.NewGorm(db)
	hub := realtime.NewHub()
	cartStore := store.NewCartStore(repos.Carts, repos.Products, hub)
	checkoutSvc := checkout.NewService(cartStore, repos.Orders, hub)

	paypalCfg, err := paypal.ConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("paypal configuration invalid")
	}
	paypalClient := paypal.New(paypalCfg)

	authSvc, err := auth.NewFirebaseService(context.Background(), repos.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("auth initialization failed")
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Products: repos.Products,
		Orders:   repos.Orders,
		Users:    repos.Users,
		Cart:     cartStore,
		Checkout: checkoutSvc,
		PayPal:   paypalClient,
		Auth:     authSvc,
		Hub:      hub,
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("server listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("DB connection failed")
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect DB")
	}
	return db
}
