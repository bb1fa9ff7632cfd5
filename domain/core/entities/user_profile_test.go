package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_AddPoints(t *testing.T) {
	p := NewUserProfile(nil)
	at := time.Date(2024, 1, 1, 14, 7, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		p.AddPoints(10, "r", at, 3)
	}

	assert.Equal(t, 360, p.Points)
	require.Len(t, p.PointsHistory, 3)
	assert.Equal(t, "今天 14:07", p.PointsHistory[0].Time)
}

func TestUserProfile_MergePreferences(t *testing.T) {
	p := NewUserProfile(nil)
	p.MergePreferences(Preferences{"theme": "dark", "lang": "zh"})
	p.MergePreferences(Preferences{"theme": "light"})

	assert.Equal(t, Preferences{"theme": "light", "lang": "zh"}, p.Preferences)
}

func TestPointsTimeLabel(t *testing.T) {
	assert.Equal(t, "今天 9:05", PointsTimeLabel(time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)))
	assert.Equal(t, "今天 0:00", PointsTimeLabel(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
