package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"trustlend.backend/internal/config"
	"trustlend.backend/pkg/jwt"
)

var (
	printfFn   = fmt.Printf
	fatalfFn   = log.Fatalf
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
)

func validateRole(role string) error {
	switch role {
	case jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleAttestor, jwt.RoleBorrower:
		return nil
	}
	return fmt.Errorf("invalid role: %s (allowed: %s, %s, %s, %s)",
		role, jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleAttestor, jwt.RoleBorrower)
}

func generateTokens(cfg *config.Config, address, role string) (*jwt.TokenPair, error) {
	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	return svc.GenerateTokenPair(address, role)
}

func main() {
	address := flag.String("address", "", "caller address the token is issued for")
	role := flag.String("role", jwt.RoleBorrower, "caller role")
	flag.Parse()

	if *address == "" {
		fatalfFn("address is required")
	}
	if err := validateRole(*role); err != nil {
		fatalfFn("%v", err)
	}

	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()

	pair, err := generateTokens(cfg, *address, *role)
	if err != nil {
		fatalfFn("failed to generate tokens: %v", err)
	}

	printfFn("Generated tokens for %s (%s)\n", *address, *role)
	printfFn("ACCESS_TOKEN=%s\n", pair.AccessToken)
	printfFn("REFRESH_TOKEN=%s\n", pair.RefreshToken)
}
