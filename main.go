package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/config"
	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/router"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := cfg.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	autoMigrate(db)

	// Ticket sink: console by default, RabbitMQ when configured.
	var sink services.StationSink
	if cfg.TicketSink == "amqp" && cfg.AMQPURL != "" {
		amqpSink, err := services.NewAMQPSink(cfg.AMQPURL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpSink.Close()
		sink = amqpSink
		utils.InfoLogger.Println("Ticket sink: RabbitMQ")
	} else {
		sink = services.NewConsoleSink()
		utils.InfoLogger.Println("Ticket sink: console")
	}

	// Optional Redis cache for the summary endpoints.
	var cache *services.Cache
	if cfg.RedisURL != "" {
		cache, err = services.NewCache(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			utils.ErrorLogger.Printf("Redis unavailable, caching disabled: %v", err)
			cache = nil
		}
	}

	r := router.SetupRouter(db, sink, cache)

	utils.InfoLogger.Printf("Listening on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Table{},
		&models.Order{},
		&models.StationTicket{},
		&models.Invoice{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
