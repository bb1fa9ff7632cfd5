package config

// DomainConfig holds all configurable business rules and constants
type DomainConfig struct {
	// Inspiration defaults
	DefaultTag         string
	DefaultTextContent string
	MaxTagsPerItem     int
	MaxTagLength       int
	MaxTitleLength     int

	// Profile defaults
	DefaultProfileName string
	DefaultPoints      int
	DefaultLevel       int

	// Gamification
	AchievementBonus   int
	OnboardingBonus    int
	PointsHistoryLimit int

	// AI
	DefaultImageSize string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultTag:         "灵感",
		DefaultTextContent: "这是一条灵感记录",
		MaxTagsPerItem:     10,
		MaxTagLength:       50,
		MaxTitleLength:     200,

		DefaultProfileName: "用户",
		DefaultPoints:      320,
		DefaultLevel:       3,

		AchievementBonus:   25,
		OnboardingBonus:    50,
		PointsHistoryLimit: 20,

		DefaultImageSize: "1024x1024",
	}
}

// OnboardingReason is the points-history title used when onboarding completes
const OnboardingReason = "完成新手引导"

// AchievementReason returns the points-history title for an unlocked achievement
func AchievementReason(name string) string {
	return "解锁成就: " + name
}
