package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/internal/config"
	mmysql "shop-service/internal/infra/mysql"
	mysqlrepo "shop-service/internal/repository/mysql"
	"shop-service/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "run a single reap pass and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	orderRepo := mysqlrepo.NewOrderRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)

	// No publisher here: the reaper restores stock and cancels, it doesn't
	// confirm anything.
	svc := services.NewOrderService(orderRepo, productRepo, nil)
	svc.SetStaleAfter(cfg.StaleAfter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if _, err := svc.ReapStaleOrders(ctx); err != nil {
			log.Fatalf("reap: %v", err)
		}
		return
	}

	log.Printf("reaper started: interval=%s stale-after=%s", cfg.ReapInterval, cfg.StaleAfter)
	ticker := time.NewTicker(cfg.ReapInterval)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if _, err := svc.ReapStaleOrders(ctx); err != nil {
				log.Printf("reap pass failed: %v", err)
			}
		case <-sig:
			log.Println("shutting down reaper...")
			return
		}
	}
}
