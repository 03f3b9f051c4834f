package cmd

import (
	"context"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wanderly/concierge/concierge/application"
	"github.com/wanderly/concierge/concierge/cache"
	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/concierge/providers"
	"github.com/wanderly/concierge/concierge/repository"
	coreconfig "github.com/wanderly/concierge/core/config"
	coreDB "github.com/wanderly/concierge/core/database"
	"github.com/wanderly/concierge/infrastructure/valkey"
	"github.com/wanderly/concierge/integrations/cultureguide"
	"github.com/wanderly/concierge/integrations/moneyconvert"
	"github.com/wanderly/concierge/integrations/openweather"
	"github.com/wanderly/concierge/pkg/ratelimit"
	"github.com/wanderly/concierge/pkg/utils"
)

var (
	db           *gorm.DB
	valkeyClient *valkey.Client
	entryStore   domain.EntryStore
	entryCounter *repository.GormEntryStore

	weatherCache  *cache.Service
	currencyCache *cache.Service
	cultureCache  *cache.Service

	chatService *application.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Travel concierge chat API",
	Long:  `Backend-for-frontend for a travel concierge chat: intent routing, cached weather, currency and cultural data.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initApp)
}

func initApp() {
	cfg, err := coreconfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(cfg.Paths.BaseDir, 0755); err != nil {
		logrus.Errorln(err)
	}

	ctx := context.Background()

	// 1. Storage
	db, err = coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}

	gormStore := repository.NewGormEntryStore(db)
	if err := gormStore.Init(ctx); err != nil {
		logrus.Fatalf("failed to migrate cache tables: %v", err)
	}
	entryStore = gormStore
	entryCounter = gormStore

	if cfg.Database.ValkeyEnabled {
		valkeyClient, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.WithError(err).Warn("[APP] Valkey unavailable, using the relational cache store")
		} else {
			entryStore = repository.NewValkeyEntryStore(valkeyClient)
			entryCounter = nil
		}
	}

	turnStore := repository.NewGormConversationStore(db)
	if err := turnStore.Init(ctx); err != nil {
		logrus.Fatalf("failed to migrate conversation tables: %v", err)
	}

	// 2. Cache services, one per data domain
	weatherCache = cache.NewService(entryStore, "weather", "openweathermap", cfg.CacheTTL.Weather)
	currencyCache = cache.NewService(entryStore, "currency", "moneyconvert", cfg.CacheTTL.Currency)
	cultureCache = cache.NewService(entryStore, "culture", "cultureguide", cfg.CacheTTL.Culture)

	// 3. Outbound collaborators
	completer := buildCompleter(cfg)
	if completer == nil {
		logrus.Warn("[APP] No completion provider configured; classifier and culture guides run degraded")
	}

	handlers := &application.Handlers{
		WeatherCache:  weatherCache,
		CurrencyCache: currencyCache,
		CultureCache:  cultureCache,
		Weather:       openweather.NewClient(cfg.Providers.OpenWeatherKey),
		Rates:         moneyconvert.NewClient(),
		Culture:       cultureguide.NewProvider(completer),
		Completer:     completer,
		CallTimeout:   cfg.Chat.CallTimeout,
	}

	// 4. Routing with per-caller rate limits
	limiter := ratelimit.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.PerMinute)
	table := handlers.DispatchTable()
	for intent, h := range table {
		table[intent] = application.WithRateLimit(limiter, "chat", h)
	}

	router, err := application.NewRouter(application.NewClassifier(completer), table)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	chatService = application.NewChatService(router, turnStore, cfg.Chat.HistoryLimit)

	// Periodic cache cleanup; resolution already ignores stale entries, this
	// only bounds table growth.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			for _, svc := range []*cache.Service{weatherCache, currencyCache, cultureCache} {
				if err := svc.Cleanup(context.Background()); err != nil {
					logrus.WithError(err).Warn("[CLEANUP] Failed to prune expired cache entries")
				}
			}
		}
	}()
}

// buildCompleter picks the completion provider from configuration, falling
// back to whichever API key is present.
func buildCompleter(cfg *coreconfig.Config) domain.TextCompleter {
	switch cfg.Providers.CompletionProvider {
	case "gemini":
		if cfg.Providers.GeminiKey != "" {
			return providers.NewGeminiCompleter(cfg.Providers.GeminiKey, cfg.Providers.GeminiModel)
		}
	case "openai", "":
		if cfg.Providers.OpenAIKey != "" {
			return providers.NewOpenAICompleter(cfg.Providers.OpenAIKey, cfg.Providers.OpenAIModel)
		}
	}
	// Configured provider has no key; try the other one.
	if cfg.Providers.OpenAIKey != "" {
		return providers.NewOpenAICompleter(cfg.Providers.OpenAIKey, cfg.Providers.OpenAIModel)
	}
	if cfg.Providers.GeminiKey != "" {
		return providers.NewGeminiCompleter(cfg.Providers.GeminiKey, cfg.Providers.GeminiModel)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of all connections.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if valkeyClient != nil {
		valkeyClient.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
