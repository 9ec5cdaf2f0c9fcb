package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"JWT_SECRET_KEY": "s3cret"}))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecretKey)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.R2.Enabled())
}

func TestFromLookupFull(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET_KEY":       "s3cret",
		"SERVER_PORT":          " 9090 ",
		"DATABASE_URL":         "postgres://localhost/liga",
		"CACHE_FILE":           "/tmp/liga.json",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"R2_ACCOUNT_ID":        "acct",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "snapshots",
		"R2_PUBLIC_BASE_URL":   "https://cdn.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres://localhost/liga", cfg.DatabaseURL)
	assert.Equal(t, "/tmp/liga.json", cfg.CacheFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.R2.Enabled())
	assert.Equal(t, "snapshots", cfg.R2.BucketName)
}

func TestFromLookupErrors(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{}))
	assert.ErrorIs(t, err, ErrMissingSetting)

	for _, port := range []string{"http", "0", "70000"} {
		_, err = FromLookup(lookupFrom(map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": port}))
		assert.Error(t, err, "port %q", port)
	}

	_, err = FromLookup(lookupFrom(map[string]string{"JWT_SECRET_KEY": "s", "CORS_ALLOWED_ORIGINS": " , "}))
	assert.Error(t, err)

	_, err = FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET_KEY": "s",
		"R2_ACCOUNT_ID":  "acct",
		"R2_BUCKET_NAME": "snapshots",
	}))
	require.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "R2_ACCESS_KEY_ID, R2_PUBLIC_BASE_URL, R2_SECRET_ACCESS_KEY")
}
