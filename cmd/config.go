package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Redis result cache
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.SetDefault("redis.addr", "127.0.0.1:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Ollama (embeddings + planner/synthesis models)
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("ollama.llm_model", "OLLAMA_LLM_MODEL")
	viper.SetDefault("ollama.url", "http://ollama:11434/api")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")
	viper.SetDefault("ollama.llm_model", "llama3")

	// Vector memory artifacts
	viper.BindEnv("memory.dir", "MEMORY_DIR")
	viper.BindEnv("memory.dim", "MEMORY_DIM")
	viper.SetDefault("memory.dir", "./data/memory")
	viper.SetDefault("memory.dim", 768)

	// Providers
	viper.BindEnv("exa.api_key", "EXA_API_KEY")
	viper.BindEnv("serpapi.api_key", "SERPAPI_KEY")
	viper.BindEnv("elasticsearch.url", "ELASTICSEARCH_URL")
	viper.BindEnv("elasticsearch.index", "ELASTICSEARCH_INDEX")
	viper.SetDefault("elasticsearch.index", "corpus")

	// Search history (PostgreSQL)
	viper.BindEnv("history.enabled", "HISTORY_ENABLED")
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "searchengine")
}
