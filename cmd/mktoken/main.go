package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"go-donorsync/internal/config"
	"go-donorsync/pkg/utils"
)

// Mints an admin JWT for the HTTP API, signed with the configured secret.
//
//	go run ./cmd/mktoken -user ops@example.com -roles admin
func main() {
	userID := flag.String("user", "admin", "subject recorded as the audit actor")
	roles := flag.String("roles", "admin", "comma-separated roles")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	utils.SetSecret(cfg.JWTSecret)

	token, err := utils.GenerateToken(*userID, strings.Split(*roles, ","))
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
