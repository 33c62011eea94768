package main

import (
	"context"
	"time"

	bookinghandler "barberbook/internal/booking/handler"
	bookingservice "barberbook/internal/booking/service"
	bookingvalidator "barberbook/internal/booking/validator"
	"barberbook/internal/events"
	identityhandler "barberbook/internal/identity/handler"
	identityrepository "barberbook/internal/identity/repository"
	identityservice "barberbook/internal/identity/service"
	identityvalidator "barberbook/internal/identity/validator"
	loyaltyhandler "barberbook/internal/loyalty/handler"
	loyaltyservice "barberbook/internal/loyalty/service"
	"barberbook/pkg/app"
	"barberbook/pkg/catalog"
	"barberbook/pkg/config"
	"barberbook/pkg/keylock"
	"barberbook/pkg/kv"

	"github.com/joho/godotenv"
)

const ServiceName = "barberbook"

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetStores()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting BarberBook service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := identityrepository.EnsureIndexes(ctx, cfg); err != nil {
		cfg.Log.Fatal("Failed to create account indexes", "error", err)
	}
	cancel()

	store := buildStore(cfg)
	publisher := buildPublisher(cfg)

	identitySvc, loyaltySvc, bookingSvc := initServices(cfg, store, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		store,
		identitySvc,
		publisher,
		identityhandler.NewAuthHandler(identitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		loyaltyhandler.NewLoyaltyHandler(loyaltySvc, cfg.Log),
	)
	serverApp.Run()
}

func buildStore(cfg *config.Config) kv.Store {
	if cfg.KVBackend == config.BackendRedis {
		cfg.Log.Info("Record store backend", "backend", config.BackendRedis)
		return kv.NewRedisStore(cfg.Client.Redis)
	}

	cfg.Log.Info("Record store backend", "backend", config.BackendMongo)
	return kv.NewMongoStore(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.ReadTimeout, cfg.WriteTimeout)
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Booking event publisher disabled, no brokers configured")
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.Log)
}

func initServices(cfg *config.Config, store kv.Store, publisher events.Publisher) (identityservice.IdentityService, loyaltyservice.LoyaltyService, bookingservice.BookingService) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		cfg.Log.Fatal("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
	}
	cfg.Log.Info("Catalog loaded", "services", len(cat.Services), "barbers", len(cat.Barbers))

	locks := keylock.New()

	accountRepo := identityrepository.NewMongoAccountRepository(cfg)
	identitySvc := identityservice.NewIdentityService(
		accountRepo,
		store,
		identityvalidator.NewAccountValidator(cfg.Log),
		cfg,
	)

	loyaltySvc := loyaltyservice.NewLoyaltyService(store, locks, cfg)

	bookingSvc := bookingservice.NewBookingService(
		store,
		locks,
		loyaltySvc,
		bookingvalidator.NewBookingValidator(cat, cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return identitySvc, loyaltySvc, bookingSvc
}
