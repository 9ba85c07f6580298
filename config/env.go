package config

import (
	"log"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	// A missing .env is fine; env vars can be set by other means.
	_ = godotenv.Load()
	log.Println("Environment variables loaded (if .env present)")
}
