package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":             ":9090",
		"database_dsn":                   "postgres://u:p@db:5432/shelves",
		"secret_key":                     "overlay_key",
		"access_token_validity_duration": "5m",
		"session_validity_duration":      "48h",
		"presign_ttl":                    "10m",
		"s3_root_user":                   "minio",
		"s3_root_password":               "miniopass",
		"s3_bucket":                      "test-shelves",
		"s3_region":                      "eu-west-1",
		"s3_base_endpoint":               "http://minio:9000/",
	})

	t.Run("loads from json file named by -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://u:p@db:5432/shelves", cfg.DatabaseDSN)
		assert.Equal(t, "overlay_key", cfg.SecretKey)
		assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 48*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, 10*time.Minute, cfg.PresignTTL)
		assert.Equal(t, "minio", cfg.S3RootUser)
		assert.Equal(t, "miniopass", cfg.S3RootPassword)
		assert.Equal(t, "test-shelves", cfg.S3Bucket)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, "http://minio:9000/", cfg.S3BaseEndpoint)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		before := *cfg

		parseJson(cfg)

		assert.Equal(t, before, *cfg)
	})
}
