package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdates(t *testing.T) {
	updates, err := parseUpdates([]string{
		"notes=met at conference",
		"status=contacted",
		"tags=warm,follow-up",
	})
	require.NoError(t, err)

	assert.Equal(t, "met at conference", updates["notes"])
	assert.Equal(t, "contacted", updates["status"])
	assert.Equal(t, []string{"warm", "follow-up"}, updates["tags"])
}

func TestParseUpdates_Invalid(t *testing.T) {
	_, err := parseUpdates([]string{"no-equals-sign"})
	require.Error(t, err)
}

func TestParseUpdates_ValueWithEquals(t *testing.T) {
	updates, err := parseUpdates([]string{"notes=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", updates["notes"])
}
