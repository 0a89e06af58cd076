package main

import (
	"flag"
	"log"

	"quiz-royale/internal/config"
	"quiz-royale/internal/db"
)

func main() {
	filePath := flag.String("file", "questions.csv", "path to questions csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	cfg := config.Load()
	conn, err := db.Open(db.PoolSettings{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	inserted, err := db.LoadQuestions(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load questions: %v", err)
	}
	log.Printf("loaded %d questions", inserted)
}
