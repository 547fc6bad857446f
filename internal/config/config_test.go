package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DISPOSABLE_EMAIL_DOMAINS", "yopmail, mailinator ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"yopmail", "mailinator"}, cfg.Identity.DisposableDomains())
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "v1", cfg.Assets.Version)
}

func TestIdentityConfig_DisposableDomains_Normalizes(t *testing.T) {
	c := IdentityConfig{DisposableDomainsRaw: " Yopmail , ,TEMP-MAIL"}
	assert.Equal(t, []string{"yopmail", "temp-mail"}, c.DisposableDomains())
}

func TestAssetsConfig_PrecachePaths(t *testing.T) {
	c := AssetsConfig{PrecacheRaw: "/app.js, /style.css ,,"}
	assert.Equal(t, []string{"/app.js", "/style.css"}, c.PrecachePaths())
}
