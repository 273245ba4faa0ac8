package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/config"
)

func TestParseMonth(t *testing.T) {
	y, m, err := parseMonth("2024-04")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.April, m)

	for _, bad := range []string{"2024", "2024-13", "April-2024", "2024-0"} {
		_, _, err := parseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenStore_Memory(t *testing.T) {
	st, closeFn, err := openStore(config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, st)
	assert.NoError(t, closeFn())

	_, _, err = openStore(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
