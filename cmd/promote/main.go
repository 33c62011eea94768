package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityrepository "barberbook/internal/identity/repository"
	identityservice "barberbook/internal/identity/service"
	identityvalidator "barberbook/internal/identity/validator"
	"barberbook/pkg/config"
	"barberbook/pkg/kv"

	"github.com/joho/godotenv"
)

const JobName = "promote-employee"

// Operator tool: grants the employee role to an existing account. Role
// changes never go through the HTTP API.
func main() {
	email := flag.String("email", "", "email of the account to promote")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote -email <address>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.Load(JobName)
	cfg.SetStores()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := kv.NewMongoStore(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.ReadTimeout, cfg.WriteTimeout)
	identitySvc := identityservice.NewIdentityService(
		identityrepository.NewMongoAccountRepository(cfg),
		store,
		identityvalidator.NewAccountValidator(cfg.Log),
		cfg,
	)

	if err := identitySvc.PromoteToEmployee(ctx, *email); err != nil {
		cfg.Log.Fatal("Promotion failed", "email", *email, "error", err)
	}

	fmt.Printf("Promoted %s to employee.\n", *email)
}
