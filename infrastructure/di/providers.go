package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inspiration-backend/application/ports"
	"inspiration-backend/application/services"
	"inspiration-backend/domain/config"
	"inspiration-backend/infrastructure/ai"
	appconfig "inspiration-backend/infrastructure/config"
	"inspiration-backend/infrastructure/persistence/dynamodb"
	"inspiration-backend/infrastructure/persistence/memory"
	"inspiration-backend/infrastructure/persistence/sqlite"
	"inspiration-backend/interfaces/http/rest"
	"inspiration-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// defaultImageRateLimit caps generate-image calls per client IP per minute
const defaultImageRateLimit = 10

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *appconfig.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideStorage opens the durable storage selected by the storage driver.
// The returned cleanup releases it.
func ProvideStorage(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (ports.KeyValueStore, func(), error) {
	switch cfg.StorageDriver {
	case appconfig.StorageSQLite:
		store, err := sqlite.NewKeyValueStore(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close sqlite store", zap.Error(err))
			}
		}, nil

	case appconfig.StorageDynamoDB:
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := ProvideDynamoDBClient(awsCfg)
		return dynamodb.NewKeyValueStore(client, cfg.DynamoDBTable, cfg.StorageNamespace, logger), func() {}, nil

	case appconfig.StorageMemory, "":
		return memory.NewKeyValueStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ProvideDomainConfig returns the business constants
func ProvideDomainConfig() *config.DomainConfig {
	return config.DefaultDomainConfig()
}

// ProvideLocation resolves the configured time zone
func ProvideLocation(cfg *appconfig.Config) (*time.Location, error) {
	return cfg.Location()
}

// ProvideStoreOptions collects the options shared by both stores
func ProvideStoreOptions(loc *time.Location, domain *config.DomainConfig) []services.Option {
	return []services.Option{
		services.WithLocation(loc),
		services.WithDomainConfig(domain),
	}
}

// ProvideContentStore creates the inspiration store
func ProvideContentStore(storage ports.KeyValueStore, logger *zap.Logger, opts []services.Option) *services.ContentStore {
	return services.NewContentStore(storage, logger.Named("content"), opts...)
}

// ProvideProfileStore creates the profile store
func ProvideProfileStore(storage ports.KeyValueStore, logger *zap.Logger, opts []services.Option) *services.ProfileStore {
	return services.NewProfileStore(storage, logger.Named("profile"), opts...)
}

// ProvideImageSynthesizer creates the DashScope synthesizer
func ProvideImageSynthesizer(cfg *appconfig.Config, logger *zap.Logger) ai.ImageSynthesizer {
	return ai.NewDashScope(cfg.DashScopeAPIKey, cfg.DashScopeURL, nil, ai.DefaultBreakerConfig(), logger.Named("dashscope"))
}

// ProvideAIClient creates the gateway client
func ProvideAIClient(cfg *appconfig.Config, logger *zap.Logger) *ai.Client {
	return ai.NewClient(cfg.AIBaseURL, &http.Client{}, logger.Named("ai-client"))
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("inspiration")
}

// ProvideRouterConfig maps application config onto the HTTP surface
func ProvideRouterConfig(cfg *appconfig.Config, loc *time.Location, domain *config.DomainConfig) rest.RouterConfig {
	return rest.RouterConfig{
		EnableCORS:       cfg.EnableCORS,
		AllowedOrigins:   cfg.AllowedOrigins,
		EnableMetrics:    cfg.EnableMetrics,
		Debug:            cfg.IsDevelopment(),
		Location:         loc,
		DefaultImageSize: domain.DefaultImageSize,
		ImageRateLimit:   defaultImageRateLimit,
	}
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	content *services.ContentStore,
	profile *services.ProfileStore,
	synthesizer ai.ImageSynthesizer,
	metrics *observability.Collector,
	routerCfg rest.RouterConfig,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(content, profile, synthesizer, metrics, routerCfg, logger)
}
