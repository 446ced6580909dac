package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "TRINETRA", cfg.FreeAccessCode)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
}

func TestFreeAccessCodeIsUppercased(t *testing.T) {
	t.Setenv("PROMO_FREE_ACCESS_CODE", "launchpass")

	cfg := Load()
	assert.Equal(t, "LAUNCHPASS", cfg.FreeAccessCode)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: "5432", DBUser: "app",
		DBPassword: "secret", DBName: "creds", DBSSLMode: "require",
	}
	assert.Equal(t,
		"host=db user=app password=secret dbname=creds port=5432 sslmode=require TimeZone=UTC",
		cfg.DSN())
}

func TestCacheAddr(t *testing.T) {
	cfg := &Config{CacheHost: "cache", CachePort: "6380"}
	assert.Equal(t, "cache:6380", cfg.CacheAddr())
}
