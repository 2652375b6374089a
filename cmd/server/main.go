package main

import (
	"log"
	"time"

	"shop-service/internal/config"
	"shop-service/internal/controllers/http"
	mmysql "shop-service/internal/infra/mysql"
	"shop-service/internal/infra/rabbitmq"
	mysqlrepo "shop-service/internal/repository/mysql"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	orderService := services.NewOrderService(orderRepo, productRepo, publisher)
	orderService.SetRedisClient(redisClient)
	orderService.SetStaleAfter(cfg.StaleAfter)

	productService := services.NewProductService(productRepo)
	productService.SetRedisClient(redisClient)

	handler := http.NewHandler(orderService, productService)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("Starting shop service on port %s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
