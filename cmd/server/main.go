package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/adapters/cache"
	"trip-optimizer-service/internal/adapters/repositories"
	"trip-optimizer-service/internal/adapters/routing"
	"trip-optimizer-service/internal/adapters/textgen"
	"trip-optimizer-service/internal/api"
	"trip-optimizer-service/internal/config"
	"trip-optimizer-service/internal/platform/db"
	"trip-optimizer-service/internal/ports"
	"trip-optimizer-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, the model API) behind
// ports and starts the HTTP server.
func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("TRIP_DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.TextGenAPIKey) == "" {
		log.Fatal().Msg("TRIP_TEXTGEN_API_KEY is required")
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer pg.Close()

	if err := repositories.InitSchema(pg); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}

	generator, err := textgen.NewCompletionProvider(cfg.TextGenAPIKey, cfg.TextGenBaseURL, cfg.TextGenModel)
	if err != nil {
		log.Fatal().Err(err).Msg("text generation provider failed")
	}

	// Route optimization is optional; without an ORS key the sequencer keeps
	// original orders and estimates legs by haversine.
	var routeOptimizer ports.RouteOptimizer
	var directions ports.DirectionsProvider
	if strings.TrimSpace(cfg.ORSAPIKey) != "" {
		ors, err := routing.NewORSRoutingProvider(cfg.ORSAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("routing provider failed")
		}
		routeOptimizer = ors
		directions = ors
	} else {
		log.Warn().Msg("TRIP_ORS_API_KEY unset; sequencing falls back to heuristics")
	}

	var analysisCache ports.AnalysisCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		analysisCache = cache.NewRedisAnalysisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		analysisCache = cache.NewMemoryAnalysisCache(cfg.AnalysisCacheTTL)
	}

	timeout := cfg.CollaboratorTimeout
	analyzer := services.NewSituationAnalyzer(generator, analysisCache, cfg.AnalysisCacheTTL, timeout, log)
	adaptGen := services.NewAdaptationGenerator(generator, timeout, log)
	applier := services.NewAdaptationApplier(log)
	sequencer := services.NewRouteSequencer(routeOptimizer, directions, timeout, log)
	allocator := services.NewBudgetAllocator(generator, timeout, log)
	optimizer := services.NewOptimizer(analyzer, adaptGen, applier, sequencer, allocator, log)

	repo := repositories.NewPgTripRepository(pg)
	router := api.NewRouter(repo, optimizer, applier, log)

	// Timeouts are tuned for cold-cache optimization (external API latency).
	log.Info().Str("addr", ":"+cfg.Port).Msg("server listening")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
