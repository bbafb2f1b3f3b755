package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"flatpay-backend/internal/auth"
)

// Seeds a society and its admin account for a fresh install. Run once
// after migrations.
func main() {
	godotenv.Load()

	societyName := getEnv("SEED_SOCIETY_NAME", "Green Meadows CHS")
	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@flatpay.local")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "flatpay_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	var societyID int
	err = pool.QueryRow(ctx,
		`INSERT INTO societies(name, due_date_days, timezone)
		 VALUES($1, 10, 'Asia/Kolkata')
		 RETURNING id`, societyName).Scan(&societyID)
	if err != nil {
		log.Fatalf("Failed to create society: %v", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var userID int
	err = pool.QueryRow(ctx,
		`INSERT INTO users(society_id, email, password_hash, name, role, is_active)
		 VALUES($1, $2, $3, 'Administrator', 'admin', TRUE)
		 RETURNING id`, societyID, adminEmail, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Created society %d (%s) with admin %s (user %d)\n",
		societyID, societyName, adminEmail, userID)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
