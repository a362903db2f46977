package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/yahtzee/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "db.local",
		Port:            5433,
		User:            "u",
		Password:        "p",
		Name:            "yahtzee",
		SSLMode:         "disable",
		MaxConns:        8,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
	}
	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "yahtzee", pc.ConnConfig.Database)
	assert.Equal(t, ApplicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

// Property: pool limits pass through unchanged.
func TestPropertyPoolConfigLimits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxConns := rapid.Int32Range(1, 100).Draw(rt, "max")
		minConns := rapid.Int32Range(0, maxConns).Draw(rt, "min")
		pc, err := poolConfig(config.DatabaseConfig{
			Host: "localhost", Port: 5432, User: "u", Name: "d", SSLMode: "disable",
			MaxConns: maxConns, MinConns: minConns,
		})
		require.NoError(rt, err)
		assert.Equal(rt, maxConns, pc.MaxConns)
		assert.Equal(rt, minConns, pc.MinConns)
	})
}
