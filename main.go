package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sjsage522/propertydealworker/config"
	"sjsage522/propertydealworker/internal"
	"sjsage522/propertydealworker/internal/api"
	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/internal/scraper"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/services/cache"
	"sjsage522/propertydealworker/services/classifier"
	"sjsage522/propertydealworker/services/publisher"
	"sjsage522/propertydealworker/services/store"
	"sjsage522/propertydealworker/services/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("portal", cfg.PortalURL).
		Dur("crawl_interval", cfg.CrawlInterval).
		Str("extract_mode", cfg.ExtractMode).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	w := worker.NewWorker(ctx, newScraper(cfg), services.Dependencies, logger.ForWorker(), worker.Config{
		Interval: cfg.CrawlInterval,
		Cooldown: cfg.FailureCooldown,
		// a crashed run must not hold the lock past its own timeout
		LockTTL: cfg.ScrapeTimeout + time.Minute,
	})

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting property deal worker")
		workerDone <- w.Start()
	}()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewHandler(w, services.Store, logger.ForComponent("api")).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting HTTP API")
		serverDone <- server.ListenAndServe()
	}()

	// Wait for shutdown signal, worker or server exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-workerDone:
		if err != nil && !stderrors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	case err := <-serverDone:
		if !stderrors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

func newScraper(cfg *config.Config) *scraper.Scraper {
	pacing := scraper.DefaultPacing()
	pacing.Keystroke = cfg.KeystrokeDelay

	var rows scraper.RowSource = scraper.NewDOMRows()
	if cfg.ExtractMode == config.ExtractModeSnapshot {
		rows = scraper.NewSnapshotRows()
	}

	return scraper.New(scraper.Config{
		URL:     cfg.PortalURL,
		City:    cfg.CityName,
		Timeout: cfg.ScrapeTimeout,
		Session: browser.Options{
			Launch: browser.LaunchOptions{
				Headless: cfg.BrowserHeadless,
				Args:     browser.DefaultArgs,
				Proxy:    cfg.BrowserProxy,
			},
			NavigationTimeout: cfg.NavigationTimeout,
			SettleDelay:       cfg.SettleDelay,
		},
		Pacing: pacing,
	}, browser.PlaywrightLauncher{Install: cfg.BrowserInstall}, rows, logger.ForScraper())
}

// Services holds all the initialized services
type Services struct {
	internal.Dependencies
	sqlite    *store.SQLiteStore
	publisher *publisher.RedisPublisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.sqlite != nil {
		s.sqlite.Close()
	}
}

// newCache returns memcache when it answers, and a process-local cache
// otherwise so the scrape lock and failure cooldown keep working
func newCache(addr string) cache.CacheService {
	if addr == "" {
		logger.Info("No memcache configured, using in-process scrape lock")
		return cache.NewMemoryCache()
	}

	memcacheService := cache.NewMemcacheService(addr)
	if err := memcacheService.Ping(); err != nil {
		logger.Warn("Memcache at %s is not reachable, using in-process scrape lock: %v", addr, err)
		return cache.NewMemoryCache()
	}

	logger.Info("Connected to Memcache at %s", addr)
	return memcacheService
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	services.Cache = newCache(cfg.MemcacheAddr)

	// Initialize store
	sqlite, err := store.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	services.sqlite = sqlite
	services.Store = sqlite
	logger.Info("Opened property store at %s", cfg.SQLitePath)

	// Initialize publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	services.publisher = redisPublisher
	services.Publisher = redisPublisher
	logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	services.Classifier = classifier.New(cfg.ClassifyURL, cfg.AnomalyURL, cfg.ClassifyTimeout)

	return services, nil
}
