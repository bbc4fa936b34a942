package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnewart/go-clubmember/club/storage"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CLUB_ROOT_TOKEN", "")
	_, err := configFromEnv()
	require.Error(t, err)

	t.Setenv("CLUB_ROOT_TOKEN", "token")
	t.Setenv("PORT", "7000")
	t.Setenv("METRICS_PORT", "not-a-number")
	t.Setenv("CLUB_NAME", "")

	config, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7000, config.ServicePort)
	assert.Equal(t, 9091, config.MetricsPort)
	assert.Equal(t, "default", config.ClubName)
	assert.Equal(t, "token", config.RootToken)
}

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	store, err := openStore(context.Background(), ServerConfig{ClubName: "default"})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)
}
