package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inspiration-backend/application/ports"
	"inspiration-backend/domain/config"
	"inspiration-backend/domain/core/entities"
	pkgerrors "inspiration-backend/pkg/errors"

	"go.uber.org/zap"
)

// ProfileStore owns the user profile and its points/achievement engine.
// Only preferences touch durable storage.
type ProfileStore struct {
	storage ports.KeyValueStore
	logger  *zap.Logger
	opts    storeOptions

	// writeMu orders preference writes so the last merge is the one stored
	writeMu sync.Mutex

	mu      sync.Mutex
	profile *entities.UserProfile
}

// NewProfileStore creates a store holding a default profile
func NewProfileStore(storage ports.KeyValueStore, logger *zap.Logger, opts ...Option) *ProfileStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileStore{
		storage: storage,
		logger:  logger,
		opts:    o,
		profile: entities.NewUserProfile(o.domain),
	}
}

// LoadPreferences replaces preferences with the persisted mapping, if any.
// Read and parse failures are logged and leave preferences unchanged.
func (s *ProfileStore) LoadPreferences(ctx context.Context) Outcome {
	raw, found, err := s.storage.GetItem(ctx, ports.KeyUserPreferences)
	if err != nil {
		err = pkgerrors.NewStorageError("read", ports.KeyUserPreferences, err)
		s.logger.Error("Failed to load preferences", zap.Error(err))
		return memoryOnly(err)
	}
	if !found || raw == "" {
		return persisted()
	}

	var prefs entities.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		err = pkgerrors.NewStorageError("parse", ports.KeyUserPreferences, err)
		s.logger.Error("Failed to load preferences", zap.Error(err))
		return memoryOnly(err)
	}
	if prefs == nil {
		prefs = entities.Preferences{}
	}

	s.mu.Lock()
	s.profile.Preferences = prefs
	s.mu.Unlock()
	return persisted()
}

// UpdateProfile overwrites the identity fields that are set in patch
func (s *ProfileStore) UpdateProfile(patch entities.ProfilePatch) entities.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.ApplyPatch(patch)
	return s.profile.Clone()
}

// UpdatePreferences shallow-merges prefs and writes the result through
func (s *ProfileStore) UpdatePreferences(ctx context.Context, prefs entities.Preferences) Mutation[entities.Preferences] {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.profile.MergePreferences(prefs)
	merged := s.profile.Clone().Preferences
	s.mu.Unlock()

	result := Mutation[entities.Preferences]{Value: merged, Outcome: persisted()}

	data, err := json.Marshal(merged)
	if err == nil {
		err = s.storage.SetItem(ctx, ports.KeyUserPreferences, string(data))
	}
	if err != nil {
		err = pkgerrors.NewStorageError("write", ports.KeyUserPreferences, err)
		s.logger.Error("Failed to persist preferences", zap.Error(err))
		result.Outcome = memoryOnly(err)
	}
	return result
}

// UnlockAchievement records achievement once per ID and awards the bonus.
// It returns false if the achievement was already unlocked.
func (s *ProfileStore) UnlockAchievement(achievement entities.Achievement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.HasAchievement(achievement.ID) {
		return false
	}

	now := s.now()
	achievement.UnlockedAt = now
	s.profile.Achievements = append(s.profile.Achievements, achievement)
	s.addPoints(s.opts.domain.AchievementBonus, config.AchievementReason(achievement.Name), now)

	s.logger.Info("Achievement unlocked",
		zap.String("achievementID", achievement.ID),
		zap.String("name", achievement.Name),
	)
	return true
}

// CompleteOnboarding marks onboarding done and awards the onboarding bonus.
// The bonus is awarded on every call.
func (s *ProfileStore) CompleteOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.OnboardingCompleted = true
	s.addPoints(s.opts.domain.OnboardingBonus, config.OnboardingReason, s.now())
}

// AddPoints adds amount (unchecked) and records it in the history
func (s *ProfileStore) AddPoints(amount int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addPoints(amount, reason, s.now())
}

// SetLevel overwrites the level
func (s *ProfileStore) SetLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.Level = level
}

// CompleteTask records taskID; repeated calls are no-ops
func (s *ProfileStore) CompleteTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile.CompleteTask(taskID)
}

// Snapshot returns a copy of the profile
func (s *ProfileStore) Snapshot() entities.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile.Clone()
}

// addPoints must be called with mu held
func (s *ProfileStore) addPoints(amount int, reason string, at time.Time) {
	s.profile.AddPoints(amount, reason, at, s.opts.domain.PointsHistoryLimit)
}

func (s *ProfileStore) now() time.Time {
	return s.opts.clock().In(s.opts.location)
}
