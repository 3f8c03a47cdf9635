package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpHdlr "github.com/Prathmesh1703/SearchEngine/handler/http"
	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/elastic"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/exa"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/ollama"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/serpapi"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/log"
	"github.com/Prathmesh1703/SearchEngine/src/storage/postgres/historyctrl"
	"github.com/Prathmesh1703/SearchEngine/src/storage/rediscache"
	"github.com/Prathmesh1703/SearchEngine/src/storage/vectormem"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the meta-search HTTP server",
	Long:  `The serve command starts an HTTP server that exposes the meta-search API.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	// Initialize Ollama client for embeddings and generation
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 60 * time.Second,
	})
	embedder := ollama.NewEmbedder(oc, viper.GetString("ollama.embedding_model"))
	llm := ollama.NewLLM(oc, viper.GetString("ollama.llm_model"))

	// Assemble the provider set from whatever is configured
	providers, err := buildProviders()
	if err != nil {
		log.Error(err, "Failed to build provider set")
		return
	}
	if len(providers) == 0 {
		log.Info("No search providers configured; only cache and vector memory will serve results")
	}

	// Open the vector memory store
	memory, err := vectormem.NewStore(viper.GetString("memory.dir"), viper.GetInt("memory.dim"))
	if err != nil {
		log.Error(err, "Failed to open vector memory store")
		return
	}

	// The cache is optional: the engine fails open without it
	var cache engine.Cache
	redisCache, err := rediscache.New(
		viper.GetString("redis.addr"),
		"",
		viper.GetString("redis.password"),
		viper.GetInt("redis.db"),
	)
	if err != nil {
		log.Error(err, "Failed to connect to redis, running without result cache")
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	orchestrator := engine.NewOrchestrator(providers, engine.NewRanker(embedder), embedder, memory, cache)
	reasoner := engine.NewReasoner(llm, orchestrator)
	normalizer := engine.NewNormalizer(llm)

	// Optional search history in PostgreSQL
	var history *historyctrl.Service
	var db *gorm.DB
	if viper.GetBool("history.enabled") {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			viper.GetString("postgres.host"),
			viper.GetString("postgres.user"),
			viper.GetString("postgres.password"),
			viper.GetString("postgres.db"),
			viper.GetString("postgres.port"))
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Error(err, "Failed to connect to database")
			return
		}

		history, err = historyctrl.NewService(db)
		if err != nil {
			log.Error(err, "Failed to create history service")
			return
		}
	}

	handler := httpHdlr.NewHandler(orchestrator, reasoner, normalizer, history)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	log.Info("Server started", "port", viper.GetString("server.port"), "providers", len(providers), "memory_size", memory.Len())

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Error(err, "Failed to get underlying *sql.DB")
		} else {
			if err := sqlDB.Close(); err != nil {
				log.Error(err, "Error closing database connection")
			}
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}

// buildProviders instantiates every provider with configuration present.
// Missing credentials simply leave a provider out of the set.
func buildProviders() ([]engine.Provider, error) {
	var providers []engine.Provider

	if apiKey := viper.GetString("exa.api_key"); apiKey != "" {
		client := exa.NewClient(apiKey, "", &http.Client{Timeout: 30 * time.Second})
		providers = append(providers, exa.NewProvider(client))
	}

	if apiKey := viper.GetString("serpapi.api_key"); apiKey != "" {
		providers = append(providers, serpapi.NewProvider(apiKey, "", &http.Client{Timeout: 30 * time.Second}))
	}

	if esURL := viper.GetString("elasticsearch.url"); esURL != "" {
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{esURL},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		sdk := elastic.NewSDK(es, viper.GetString("elasticsearch.index"))
		providers = append(providers, elastic.NewProvider(sdk))
	}

	return providers, nil
}
