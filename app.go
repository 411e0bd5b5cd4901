package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"recipe-giving/clients"
	"recipe-giving/handlers"
	"recipe-giving/services"
	"recipe-giving/storage"
	"recipe-giving/views"
)

const (
	cleanupInterval     = 1 * time.Hour
	rateLimitPruneEvery = 5 * time.Minute
)

// app is the wired service
type app struct {
	handler http.Handler
	store   storage.Backend
	modal   *services.ModalService
	limiter *handlers.RateLimiter
}

// newApp builds every collaborator from the configuration
func newApp(ctx context.Context, cfg *Config) (*app, error) {
	var awsClients *storage.AWSClients
	loadAWS := func() (*storage.AWSClients, error) {
		if awsClients != nil {
			return awsClients, nil
		}
		c, err := storage.NewAWSClients(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		awsClients = c
		return c, nil
	}

	store, err := openStore(cfg, loadAWS)
	if err != nil {
		return nil, err
	}

	var publisher handlers.SharePublisher
	if cfg.AWS.ShareBucket != "" {
		c, err := loadAWS()
		if err != nil {
			store.Close()
			return nil, err
		}
		publisher = storage.NewImagePublisher(c.S3, cfg.AWS.ShareBucket, cfg.AWS.Region)
		logrus.WithField("bucket", cfg.AWS.ShareBucket).Info("🖼️  Share images published to S3")
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		store.Close()
		return nil, err
	}

	mealDB := clients.NewMealDBClient(cfg.MealDB.BaseURL)
	globalGiving := clients.NewGlobalGivingClient(cfg.GlobalGiving.APIKey, cfg.GlobalGiving.BaseURL)
	if !globalGiving.HasAPIKey() {
		logrus.Warn("⚠️  GLOBALGIVING_API_KEY not set, charity lists will be empty")
	}

	var gateway services.CharityGateway = globalGiving
	if cfg.GlobalGiving.ProxyURL != "" {
		gateway = clients.NewCharityProxyClient(cfg.GlobalGiving.ProxyURL)
		logrus.WithField("proxy", cfg.GlobalGiving.ProxyURL).Info("💝 Charity modal reads through proxy")
	}

	trusted, err := handlers.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		store.Close()
		return nil, err
	}

	locations := services.NewLocationResolver(clients.NewGeoJSClient(cfg.GeoIP.BaseURL), store)
	modal := services.NewModalService(gateway, store)
	limiter := handlers.NewRateLimiter(cfg.RateLimit.CharitiesPerMinute, time.Minute)

	h := handlers.New(handlers.Config{
		Recipes:        services.NewRecipeService(mealDB, locations),
		Categories:     mealDB,
		Locations:      locations,
		Modal:          modal,
		Search:         globalGiving,
		Storage:        store,
		Renderer:       renderer,
		Share:          services.NewShareImageRenderer(mealDB),
		Publisher:      publisher,
		Limiter:        limiter,
		TrustedProxies: trusted,
		AdminPassword:  cfg.Admin.Password,
		SecureCookies:  cfg.Server.UseHTTPS,
		Logger:         logrus.StandardLogger(),
	})

	return &app{handler: h.Routes(), store: store, modal: modal, limiter: limiter}, nil
}

func openStore(cfg *Config, loadAWS func() (*storage.AWSClients, error)) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case BackendSQLite:
		return storage.NewSQLiteStore(cfg.Storage.SQLitePath)
	case BackendDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"locations": cfg.Storage.LocationsTable,
			"donations": cfg.Storage.DonationsTable,
		}).Info("✅ DynamoDB storage ready")
		return storage.NewDynamoStore(c.DynamoDB, cfg.Storage.LocationsTable, cfg.Storage.DonationsTable), nil
	case BackendMemory:
		logrus.Info("💾 Using in-memory storage")
		return storage.NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// runBackground starts the cleanup loops; they stop with ctx
func (a *app) runBackground(ctx context.Context) {
	go a.modal.RunCleanup(ctx, cleanupInterval)
	go a.limiter.RunCleanup(ctx, rateLimitPruneEvery)
	if mem, ok := a.store.(*storage.MemoryStore); ok {
		go mem.RunCleanup(ctx, cleanupInterval, services.DefaultLocationTTL)
	}
}
