package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelKeyPrecedence(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.Model.APIKey)

	t.Setenv("DEEPSEEK_API_KEY", "sk-deepseek")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-deepseek", cfg.Model.APIKey)

	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Model.APIKey)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MODEL_TIMEOUT_SEC", "")
	t.Setenv("MODEL_TEMPERATURE", "")
	t.Setenv("AFFILIATION_NAME", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Model.Temperature)
	assert.Equal(t, 20*time.Second, cfg.Model.Timeout())
	assert.Equal(t, "华东师范大学", cfg.Copy.AffiliationName)
}

func TestLoadRejectsBadTemperature(t *testing.T) {
	t.Setenv("MODEL_TEMPERATURE", "warm")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "posters", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/posters?sslmode=disable", c.DSN())
	c.URL = "postgres://override"
	assert.Equal(t, "postgres://override", c.DSN())
}

func TestCopyLocation(t *testing.T) {
	assert.Equal(t, "Asia/Shanghai", CopyConfig{TimeZone: "Asia/Shanghai"}.Location().String())
	assert.Equal(t, "CST", CopyConfig{TimeZone: "Mars/Olympus"}.Location().String())
	assert.Equal(t, time.Local, CopyConfig{}.Location())
}
