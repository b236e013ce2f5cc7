package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFromFile(t *testing.T) {
	p := writeYAML(t, `
app:
  http:
    port: 9090
jwt:
  secret: s3cret
  access_token_ttl_min: 15
admin:
  api_key: admin-key
db:
  driver: postgres
  dsn: postgres://localhost/voting
security:
  password_hasher: argon2id
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 15, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "admin-key", c.Admin.APIKey)
	assert.Equal(t, "x-api-key", c.Admin.Header)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "argon2id", c.Security.PasswordHasher)
	// untouched keys keep their defaults
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, int64(1<<20), c.Limits.MaxBodyBytes)
}

func TestLoadEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_ADMIN_API_KEY", "env-admin")
	t.Setenv("APP_DB_DSN", "file:env.db")

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "env-admin", c.Admin.APIKey)
	assert.Equal(t, "file:env.db", c.DB.DSN)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 30, c.JWT.AccessTokenTTLMin)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	p := writeYAML(t, "admin:\n  api_key: k\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "jwt.secret")

	p = writeYAML(t, "jwt:\n  secret: s\n")
	_, err = Load(p)
	assert.ErrorContains(t, err, "admin.api_key")
}

func TestLoadRejectsUnknownHasher(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: s\nadmin:\n  api_key: k\nsecurity:\n  password_hasher: md5\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "password_hasher")
}
