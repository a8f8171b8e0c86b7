package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("JWT_SECRET", "db-test")
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewPoolConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Host = "db.internal"
	cfg.Database.MaxOpenConns = 8
	cfg.Database.MaxIdleConns = 12
	cfg.Database.ConnMaxLifetime = "30m"

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(8), pc.MinConns, "idle connections are capped by the pool size")
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.BeforeAcquire)
}

func TestNewPoolConfigRejectsBadLifetime(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := newPoolConfig(cfg)
	assert.ErrorContains(t, err, "max lifetime")
}
