package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"quiz-royale/internal/admin"
	"quiz-royale/internal/bot"
	"quiz-royale/internal/config"
	"quiz-royale/internal/db"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}

	conn, err := db.Open(db.PoolSettings{
		MaxOpenConns:           cfg.DBMaxOpenConns,
		MaxIdleConns:           cfg.DBMaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.DBConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.DBConnMaxIdleTimeSeconds,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	b, err := bot.New(cfg, conn)
	if err != nil {
		log.Fatalf("bot setup failed: %v", err)
	}

	go func() {
		srv := admin.New(conn, b.Engine())
		log.Printf("admin server listening on %s", cfg.AdminAddr)
		if err := srv.Run(cfg.AdminAddr); err != nil {
			log.Fatalf("admin server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	b.Run(ctx)
	log.Println("bot stopped")
}
