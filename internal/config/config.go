package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Priority   PriorityConfig   `yaml:"priority" mapstructure:"priority"`
	LegalDocs  LegalDocsConfig  `yaml:"legaldocs" mapstructure:"legaldocs"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig configures orchestration behavior. MinConfidenceThreshold
// gates the filter stage; it is deliberately a separate knob from the
// validation thresholds and is never synchronized with them.
type PipelineConfig struct {
	MaxWorkers             int      `yaml:"max_workers" mapstructure:"max_workers"`
	SourceTimeoutSecs      int      `yaml:"source_timeout_secs" mapstructure:"source_timeout_secs"`
	MinConfidenceThreshold float64  `yaml:"min_confidence_threshold" mapstructure:"min_confidence_threshold"`
	SimilarityThreshold    float64  `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	DisabledStages         []string `yaml:"disabled_stages" mapstructure:"disabled_stages"`
	SourcesFile            string   `yaml:"sources_file" mapstructure:"sources_file"`
}

// ValidationConfig configures the validation engine.
type ValidationConfig struct {
	RequiredFields               []string `yaml:"required_fields" mapstructure:"required_fields"`
	MinTitleLength               int      `yaml:"min_title_length" mapstructure:"min_title_length"`
	MinDescriptionLength         int      `yaml:"min_description_length" mapstructure:"min_description_length"`
	DuplicateSimilarityThreshold float64  `yaml:"duplicate_similarity_threshold" mapstructure:"duplicate_similarity_threshold"`
	DuplicateLookbackDays        int      `yaml:"duplicate_lookback_days" mapstructure:"duplicate_lookback_days"`
	PublicationDateWindowDays    int      `yaml:"publication_date_window_days" mapstructure:"publication_date_window_days"`
	IntentScoreThreshold         float64  `yaml:"intent_score_threshold" mapstructure:"intent_score_threshold"`
	TargetMarkets                []string `yaml:"target_markets" mapstructure:"target_markets"`
	TargetSectors                []string `yaml:"target_sectors" mapstructure:"target_sectors"`
}

// PriorityConfig configures the composite priority score.
type PriorityConfig struct {
	ValueWeight      float64 `yaml:"value_weight" mapstructure:"value_weight"`
	ConfidenceWeight float64 `yaml:"confidence_weight" mapstructure:"confidence_weight"`
	RecencyWeight    float64 `yaml:"recency_weight" mapstructure:"recency_weight"`
	MarketWeight     float64 `yaml:"market_weight" mapstructure:"market_weight"`
	SectorWeight     float64 `yaml:"sector_weight" mapstructure:"sector_weight"`

	// LargeProjectValue is the project value at which the log-scaled value
	// factor saturates.
	LargeProjectValue float64 `yaml:"large_project_value" mapstructure:"large_project_value"`
	StalenessDays     int     `yaml:"staleness_days" mapstructure:"staleness_days"`
}

// LegalDocsConfig configures the legal-notice API client.
type LegalDocsConfig struct {
	Providers     []ProviderConfig `yaml:"providers" mapstructure:"providers"`
	RatePerSecond float64          `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	MaxRetries    int              `yaml:"max_retries" mapstructure:"max_retries"`
}

// ProviderConfig holds one legal-notice provider endpoint.
type ProviderConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// SalesforceConfig holds Salesforce JWT auth settings for CRM export.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// ServerConfig configures the trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadradar.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	v.SetDefault("pipeline.max_workers", 5)
	v.SetDefault("pipeline.source_timeout_secs", 60)
	v.SetDefault("pipeline.min_confidence_threshold", 0.5)
	v.SetDefault("pipeline.similarity_threshold", 0.75)
	v.SetDefault("pipeline.sources_file", "sources.yaml")

	v.SetDefault("validation.required_fields", []string{"title", "description", "source_id"})
	v.SetDefault("validation.min_title_length", 10)
	v.SetDefault("validation.min_description_length", 30)
	v.SetDefault("validation.duplicate_similarity_threshold", 0.85)
	v.SetDefault("validation.duplicate_lookback_days", 30)
	v.SetDefault("validation.publication_date_window_days", 30)
	v.SetDefault("validation.intent_score_threshold", 0.5)
	v.SetDefault("validation.target_markets", []string{})
	v.SetDefault("validation.target_sectors", []string{})

	v.SetDefault("priority.value_weight", 0.35)
	v.SetDefault("priority.confidence_weight", 0.30)
	v.SetDefault("priority.recency_weight", 0.20)
	v.SetDefault("priority.market_weight", 0.10)
	v.SetDefault("priority.sector_weight", 0.05)
	v.SetDefault("priority.large_project_value", 10_000_000)
	v.SetDefault("priority.staleness_days", 90)

	v.SetDefault("legaldocs.rate_per_second", 2.0)
	v.SetDefault("legaldocs.max_retries", 3)

	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_rps", 5.0)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
