package di

import (
	"context"

	"inspiration-backend/application/ports"
	"inspiration-backend/application/services"
	"inspiration-backend/infrastructure/ai"
	"inspiration-backend/infrastructure/config"
	"inspiration-backend/interfaces/http/rest"
	"inspiration-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Storage     ports.KeyValueStore
	Content     *services.ContentStore
	Profile     *services.ProfileStore
	Synthesizer ai.ImageSynthesizer
	AIClient    *ai.Client
	Metrics     *observability.Collector
	Router      *rest.Router
}

// LoadState rehydrates both stores from durable storage. Degraded loads are
// logged; the service keeps running from memory.
func (c *Container) LoadState(ctx context.Context) {
	if outcome := c.Content.Load(ctx); outcome.Degraded() {
		c.Logger.Warn("Inspirations loaded without durable storage", zap.Error(outcome.Cause))
	}
	if outcome := c.Profile.LoadPreferences(ctx); outcome.Degraded() {
		c.Logger.Warn("Preferences not restored", zap.Error(outcome.Cause))
	}
}
