package services

import (
	"time"

	"inspiration-backend/domain/config"
)

// WriteStatus tells callers whether a successful operation reached durable
// storage.
type WriteStatus string

const (
	// StatusPersisted means memory and durable storage were both updated
	StatusPersisted WriteStatus = "persisted"
	// StatusMemoryOnly means the in-memory state changed but the durable write
	// failed; the session keeps working from memory
	StatusMemoryOnly WriteStatus = "memory_only"
)

// Outcome describes the persistence side of a successful operation. A failed
// operation is reported through the returned error instead.
type Outcome struct {
	Status WriteStatus `json:"status"`
	Cause  error       `json:"-"`
}

// Degraded reports whether durable storage was left behind
func (o Outcome) Degraded() bool {
	return o.Status == StatusMemoryOnly
}

// Mutation is the result of a state-changing store operation
type Mutation[T any] struct {
	Value T
	Outcome
}

func persisted() Outcome {
	return Outcome{Status: StatusPersisted}
}

func memoryOnly(cause error) Outcome {
	return Outcome{Status: StatusMemoryOnly, Cause: cause}
}

// Option configures a store
type Option func(*storeOptions)

type storeOptions struct {
	clock    func() time.Time
	location *time.Location
	domain   *config.DomainConfig
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		clock:    time.Now,
		location: time.Local,
		domain:   config.DefaultDomainConfig(),
	}
}

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(o *storeOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLocation sets the location used for calendar-day comparisons and the
// points-history time label
func WithLocation(loc *time.Location) Option {
	return func(o *storeOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithDomainConfig overrides the business constants
func WithDomainConfig(cfg *config.DomainConfig) Option {
	return func(o *storeOptions) {
		if cfg != nil {
			o.domain = cfg
		}
	}
}
