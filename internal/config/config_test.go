package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/laborbook/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Reporting.RefreshInterval)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "dynamodb")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadRefreshInterval(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REFRESH_INTERVAL", "soon")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoadRejectsHalfSheetsConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")

	_, err := config.Load("")
	assert.Error(t, err)
}
