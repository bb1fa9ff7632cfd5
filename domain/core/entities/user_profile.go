package entities

import (
	"fmt"
	"time"

	"inspiration-backend/domain/config"
)

// Achievement is an unlocked gamification badge
type Achievement struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// PointsEntry is one line of the points history
type PointsEntry struct {
	Title  string `json:"title"`
	Points int    `json:"points"`
	Time   string `json:"time"`
}

// Preferences is the open key-value preference mapping
type Preferences map[string]interface{}

// UserProfile holds identity, preferences and gamification state
type UserProfile struct {
	Name                string        `json:"name"`
	Avatar              string        `json:"avatar"`
	Email               string        `json:"email"`
	Preferences         Preferences   `json:"preferences"`
	Achievements        []Achievement `json:"achievements"`
	OnboardingCompleted bool          `json:"onboardingCompleted"`
	Points              int           `json:"points"`
	Level               int           `json:"level"`
	CompletedTasks      []string      `json:"completedTasks"`
	PointsHistory       []PointsEntry `json:"pointsHistory"`
}

// ProfilePatch carries identity fields; empty strings leave the current value
type ProfilePatch struct {
	Name   string
	Avatar string
	Email  string
}

// NewUserProfile returns a profile with the configured defaults
func NewUserProfile(cfg *config.DomainConfig) *UserProfile {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &UserProfile{
		Name:           cfg.DefaultProfileName,
		Preferences:    Preferences{},
		Achievements:   []Achievement{},
		Points:         cfg.DefaultPoints,
		Level:          cfg.DefaultLevel,
		CompletedTasks: []string{},
		PointsHistory:  []PointsEntry{},
	}
}

// ApplyPatch overwrites identity fields that are non-empty in patch
func (p *UserProfile) ApplyPatch(patch ProfilePatch) {
	if patch.Name != "" {
		p.Name = patch.Name
	}
	if patch.Avatar != "" {
		p.Avatar = patch.Avatar
	}
	if patch.Email != "" {
		p.Email = patch.Email
	}
}

// MergePreferences shallow-merges prefs into the profile
func (p *UserProfile) MergePreferences(prefs Preferences) {
	if p.Preferences == nil {
		p.Preferences = Preferences{}
	}
	for k, v := range prefs {
		p.Preferences[k] = v
	}
}

// HasAchievement reports whether an achievement with id is unlocked
func (p *UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// AddPoints adds amount to the total and prepends a history entry, keeping at
// most limit entries.
func (p *UserProfile) AddPoints(amount int, reason string, at time.Time, limit int) {
	p.Points += amount
	entry := PointsEntry{Title: reason, Points: amount, Time: PointsTimeLabel(at)}
	p.PointsHistory = append([]PointsEntry{entry}, p.PointsHistory...)
	if limit > 0 && len(p.PointsHistory) > limit {
		p.PointsHistory = p.PointsHistory[:limit]
	}
}

// CompleteTask records taskID once and reports whether it was new
func (p *UserProfile) CompleteTask(taskID string) bool {
	for _, id := range p.CompletedTasks {
		if id == taskID {
			return false
		}
	}
	p.CompletedTasks = append(p.CompletedTasks, taskID)
	return true
}

// Clone returns a deep copy
func (p *UserProfile) Clone() UserProfile {
	c := *p
	c.Preferences = make(Preferences, len(p.Preferences))
	for k, v := range p.Preferences {
		c.Preferences[k] = v
	}
	c.Achievements = append([]Achievement{}, p.Achievements...)
	c.CompletedTasks = append([]string{}, p.CompletedTasks...)
	c.PointsHistory = append([]PointsEntry{}, p.PointsHistory...)
	return c
}

// PointsTimeLabel renders "今天 H:MM" with the hour unpadded
func PointsTimeLabel(t time.Time) string {
	return fmt.Sprintf("今天 %d:%02d", t.Hour(), t.Minute())
}
