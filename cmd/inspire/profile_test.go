package main

import (
	"testing"

	"inspiration-backend/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreferences(t *testing.T) {
	prefs, err := parsePreferences([]string{"fontSize=14", "theme=dark", "compact=true", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, entities.Preferences{
		"fontSize": float64(14),
		"theme":    "dark",
		"compact":  true,
		"note":     "a=b",
	}, prefs)

	_, err = parsePreferences([]string{"novalue"})
	assert.Error(t, err)
	_, err = parsePreferences([]string{"=x"})
	assert.Error(t, err)
}
