// Command mint-token issues an API token for a subject, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"summarization-hub/internal/middleware"
)

func main() {
	subject := flag.String("subject", "", "subject the token is issued to (required)")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	// Load .env file if it exists
	godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := middleware.NewJWTAuth(secret).GenerateToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
